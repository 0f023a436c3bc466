// Package rosapi implements the RouterOS binary API protocol: the
// length-prefixed word codec, the authenticated transport session, and the
// command/reply exchange. The framing is bit-exact per the MikroTik API
// documentation; any deviation desynchronizes the connection.
package rosapi

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/newtron-network/rosdriver/pkg/util"
)

// Length prefix width classes. A word length is encoded in 1-4 bytes chosen
// by magnitude, with the top bits of the first byte marking the class; lengths
// that do not fit the 4-byte class use the 0xF0 escape followed by a 4-byte
// big-endian length. First bytes 0xF8-0xFF are reserved control bytes.
const (
	lenMax1 = 0x7F
	lenMax2 = 0x3FFF
	lenMax3 = 0x1FFFFF
	lenMax4 = 0x0FFFFFFF
)

// appendLength appends the encoded length prefix for n to buf.
func appendLength(buf []byte, n int) []byte {
	switch {
	case n <= lenMax1:
		return append(buf, byte(n))
	case n <= lenMax2:
		v := uint16(n) | 0x8000
		return append(buf, byte(v>>8), byte(v))
	case n <= lenMax3:
		v := uint32(n) | 0xC00000
		return append(buf, byte(v>>16), byte(v>>8), byte(v))
	case n <= lenMax4:
		v := uint32(n) | 0xE0000000
		return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	default:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		return append(append(buf, 0xF0), b[:]...)
	}
}

// readLength decodes one length prefix from r.
func readLength(r *bufio.Reader) (int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}

	switch {
	case b&0x80 == 0x00:
		return int(b), nil
	case b&0xC0 == 0x80:
		rest, err := readBytes(r, 1)
		if err != nil {
			return 0, err
		}
		return int(b&0x3F)<<8 | int(rest[0]), nil
	case b&0xE0 == 0xC0:
		rest, err := readBytes(r, 2)
		if err != nil {
			return 0, err
		}
		return int(b&0x1F)<<16 | int(rest[0])<<8 | int(rest[1]), nil
	case b&0xF0 == 0xE0:
		rest, err := readBytes(r, 3)
		if err != nil {
			return 0, err
		}
		return int(b&0x0F)<<24 | int(rest[0])<<16 | int(rest[1])<<8 | int(rest[2]), nil
	case b == 0xF0:
		rest, err := readBytes(r, 4)
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint32(rest)), nil
	default:
		// 0xF8-0xFF are reserved control bytes; the stream is desynchronized.
		return 0, util.NewFramingError("reserved control byte 0x%02x in length prefix", b)
	}
}

func readBytes(r *bufio.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeSentence encodes words as one API sentence: each word with its length
// prefix, terminated by a zero-length word.
func EncodeSentence(words []string) []byte {
	size := 1
	for _, w := range words {
		size += len(w) + 5
	}
	buf := make([]byte, 0, size)
	for _, w := range words {
		buf = appendLength(buf, len(w))
		buf = append(buf, w...)
	}
	return append(buf, 0x00)
}

// ReadSentence reads one sentence from r: words until a zero-length word.
// An EOF or short read mid-sentence means the peer closed with a partial
// frame and is reported as a FramingError.
func ReadSentence(r *bufio.Reader) ([]string, error) {
	var words []string
	for {
		n, err := readLength(r)
		if err != nil {
			if isUnexpectedEOF(err) && len(words) > 0 {
				return nil, util.NewFramingError("stream closed mid-sentence after %d words", len(words))
			}
			return nil, err
		}
		if n == 0 {
			return words, nil
		}
		word := make([]byte, n)
		if _, err := io.ReadFull(r, word); err != nil {
			if isUnexpectedEOF(err) {
				return nil, util.NewFramingError("stream closed inside %d-byte word", n)
			}
			return nil, err
		}
		words = append(words, string(word))
	}
}

// DecodeSentence decodes one sentence from data and returns the words plus
// the number of bytes consumed.
func DecodeSentence(data []byte) ([]string, int, error) {
	br := bytes.NewReader(data)
	r := bufio.NewReader(br)
	words, err := ReadSentence(r)
	if err != nil {
		if err == io.EOF || isUnexpectedEOF(err) {
			return nil, 0, util.NewFramingError("truncated sentence in %d-byte buffer", len(data))
		}
		return nil, 0, err
	}
	consumed := len(data) - br.Len() - r.Buffered()
	return words, consumed, nil
}

func isUnexpectedEOF(err error) bool {
	return err == io.ErrUnexpectedEOF || err == io.EOF
}
