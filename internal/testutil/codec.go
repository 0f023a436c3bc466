package testutil

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Independent sentence codec for the scripted device. Deliberately not shared
// with the client codec so that tests exercise interop between two
// implementations of the framing rules.

func encodeSentence(words []string) []byte {
	var buf []byte
	for _, w := range words {
		buf = appendLen(buf, len(w))
		buf = append(buf, w...)
	}
	return append(buf, 0x00)
}

func appendLen(buf []byte, n int) []byte {
	switch {
	case n <= 0x7F:
		return append(buf, byte(n))
	case n <= 0x3FFF:
		v := uint16(n) | 0x8000
		return append(buf, byte(v>>8), byte(v))
	case n <= 0x1FFFFF:
		v := uint32(n) | 0xC00000
		return append(buf, byte(v>>16), byte(v>>8), byte(v))
	case n <= 0x0FFFFFFF:
		v := uint32(n) | 0xE0000000
		return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	default:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		return append(append(buf, 0xF0), b[:]...)
	}
}

func readSentence(r *bufio.Reader) ([]string, error) {
	var words []string
	for {
		n, err := readLen(r)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return words, nil
		}
		w := make([]byte, n)
		if _, err := io.ReadFull(r, w); err != nil {
			return nil, err
		}
		words = append(words, string(w))
	}
}

func readLen(r *bufio.Reader) (int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	var extra int
	var n int
	switch {
	case b&0x80 == 0x00:
		return int(b), nil
	case b&0xC0 == 0x80:
		n, extra = int(b&0x3F), 1
	case b&0xE0 == 0xC0:
		n, extra = int(b&0x1F), 2
	case b&0xF0 == 0xE0:
		n, extra = int(b&0x0F), 3
	case b == 0xF0:
		n, extra = 0, 4
	default:
		return 0, fmt.Errorf("reserved length byte 0x%02x", b)
	}
	for i := 0; i < extra; i++ {
		nb, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		n = n<<8 | int(nb)
	}
	return n, nil
}
