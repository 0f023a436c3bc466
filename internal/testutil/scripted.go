// Package testutil provides a scripted RouterOS API device for tests: a TCP
// server that speaks the sentence protocol, answers /login per a configured
// handshake mode, and replies to commands from a canned script.
package testutil

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// Sentence is one scripted reply sentence as raw words (without the echoed
// .tag word, which the server appends).
type Sentence []string

// Re builds a !re sentence from key/value pairs.
func Re(kv ...string) Sentence {
	return reply("!re", kv...)
}

// Done builds a !done sentence from key/value pairs.
func Done(kv ...string) Sentence {
	return reply("!done", kv...)
}

// Trap builds a !trap sentence with the given message and category.
func Trap(message, category string) Sentence {
	s := Sentence{"!trap", "=message=" + message}
	if category != "" {
		s = append(s, "=category="+category)
	}
	return s
}

// Fatal builds a !fatal sentence. The server closes the connection after
// sending it, like a real device.
func Fatal(reason string) Sentence {
	return Sentence{"!fatal", reason}
}

func reply(tag string, kv ...string) Sentence {
	s := Sentence{tag}
	for i := 0; i+1 < len(kv); i += 2 {
		s = append(s, "="+kv[i]+"="+kv[i+1])
	}
	return s
}

// LoginMode selects the scripted /login behavior.
type LoginMode int

const (
	// LoginPlain accepts =name=/=password= with a bare !done (post-6.43).
	LoginPlain LoginMode = iota
	// LoginChallenge answers the first /login with =ret= and verifies the
	// MD5 response in the second (pre-6.43).
	LoginChallenge
	// LoginReject traps every /login.
	LoginReject
)

// challengeHex is the fixed challenge handed out in LoginChallenge mode.
const challengeHex = "99e8a2f1e4b1047cfad87a52f5ea3b4d"

// Device is a scripted RouterOS API endpoint listening on a loopback port.
type Device struct {
	t      *testing.T
	ln     net.Listener
	mode   LoginMode
	pass   string
	script map[string][]Sentence
	delays map[string]time.Duration

	mu     sync.Mutex
	logins int

	wg   sync.WaitGroup
	done chan struct{}
}

// NewDevice starts a scripted device. script maps command paths to the reply
// sentences for that command; a path mapped to nil reads the command and
// sends nothing (the client read must time out). Unknown commands trap.
func NewDevice(t *testing.T, mode LoginMode, password string, script map[string][]Sentence) *Device {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("scripted device listen: %v", err)
	}

	d := &Device{
		t:      t,
		ln:     ln,
		mode:   mode,
		pass:   password,
		script: script,
		delays: make(map[string]time.Duration),
		done:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.serve()
	t.Cleanup(d.Close)
	return d
}

// Addr returns the host:port the device listens on.
func (d *Device) Addr() string {
	return d.ln.Addr().String()
}

// Delay makes the device sleep before answering the given command. Used to
// hold a reply open while a second command is queued behind the single-flight
// mutex.
func (d *Device) Delay(path string, delay time.Duration) {
	d.mu.Lock()
	d.delays[path] = delay
	d.mu.Unlock()
}

// Logins returns how many /login sentences the device has received.
func (d *Device) Logins() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.logins
}

// Close stops the listener and waits for connection handlers to finish.
func (d *Device) Close() {
	select {
	case <-d.done:
		return
	default:
	}
	close(d.done)
	d.ln.Close()
	d.wg.Wait()
}

func (d *Device) serve() {
	defer d.wg.Done()
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			select {
			case <-d.done:
				return
			default:
				continue
			}
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.handle(conn)
		}()
	}
}

func (d *Device) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)

	for {
		words, err := readSentence(r)
		if err != nil {
			return
		}
		if len(words) == 0 {
			continue
		}

		path := words[0]
		tag := requestTag(words)

		if path == "/login" {
			if !d.handleLogin(conn, words, tag) {
				return
			}
			continue
		}

		d.mu.Lock()
		delay := d.delays[path]
		replies, scripted := d.script[path]
		d.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}

		switch {
		case !scripted:
			d.send(conn, tag, Trap("no such command prefix "+path, "0"), Done())
		case replies == nil:
			// Scripted silence: let the client read time out.
		default:
			if !d.send(conn, tag, replies...) {
				return
			}
			if isFatal(replies) {
				return
			}
		}
	}
}

// handleLogin answers one /login sentence. Returns false when the connection
// should be dropped.
func (d *Device) handleLogin(conn net.Conn, words []string, tag string) bool {
	d.mu.Lock()
	d.logins++
	nth := d.logins
	d.mu.Unlock()

	attrs := parseAttrs(words)

	switch d.mode {
	case LoginReject:
		return d.send(conn, tag, Trap("cannot log in", "0"), Done())
	case LoginPlain:
		if attrs["password"] != d.pass {
			return d.send(conn, tag, Trap("cannot log in", "0"), Done())
		}
		return d.send(conn, tag, Done())
	case LoginChallenge:
		if nth == 1 {
			return d.send(conn, tag, Done("ret", challengeHex))
		}
		if attrs["response"] != expectedResponse(d.pass) {
			return d.send(conn, tag, Trap("cannot log in", "0"), Done())
		}
		return d.send(conn, tag, Done())
	}
	return false
}

func (d *Device) send(conn net.Conn, tag string, sentences ...Sentence) bool {
	for _, s := range sentences {
		words := append([]string(nil), s...)
		if tag != "" {
			words = append(words, ".tag="+tag)
		}
		if _, err := conn.Write(encodeSentence(words)); err != nil {
			return false
		}
	}
	return true
}

func isFatal(replies []Sentence) bool {
	for _, s := range replies {
		if len(s) > 0 && s[0] == "!fatal" {
			return true
		}
	}
	return false
}

func requestTag(words []string) string {
	for _, w := range words {
		if strings.HasPrefix(w, ".tag=") {
			return w[len(".tag="):]
		}
	}
	return ""
}

func parseAttrs(words []string) map[string]string {
	attrs := make(map[string]string)
	for _, w := range words {
		if strings.HasPrefix(w, "=") {
			key, value, _ := strings.Cut(w[1:], "=")
			attrs[key] = value
		}
	}
	return attrs
}

// expectedResponse mirrors the pre-6.43 client derivation for the fixed
// challenge.
func expectedResponse(password string) string {
	chal, _ := hex.DecodeString(challengeHex)
	h := md5.New()
	h.Write([]byte{0})
	h.Write([]byte(password))
	h.Write(chal)
	return "00" + hex.EncodeToString(h.Sum(nil))
}
