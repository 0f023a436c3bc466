package rosapi

import (
	"bufio"
	"context"
	"crypto/md5"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/newtron-network/rosdriver/pkg/metrics"
	"github.com/newtron-network/rosdriver/pkg/util"
)

// State is the transport session lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Default ports and timeouts for the RouterOS API service.
const (
	DefaultPort        = 8728
	DefaultTLSPort     = 8729
	DefaultDialTimeout = 10 * time.Second
	DefaultReadTimeout = 60 * time.Second
)

// Config holds the connection parameters for one API session.
type Config struct {
	// Address is the device API endpoint as host:port.
	Address string

	// Username and Password authenticate the session.
	Username string
	Password string

	// UseTLS wraps the connection in TLS (API-SSL service, port 8729).
	UseTLS bool

	// TLSConfig overrides the TLS client configuration when UseTLS is set.
	TLSConfig *tls.Config

	// DialTimeout bounds the TCP connect. Zero means DefaultDialTimeout.
	DialTimeout time.Duration

	// ReadTimeout bounds the wait for each reply sentence. Zero means
	// DefaultReadTimeout. Expiry is fatal to the session: the stream state
	// is unknown and unsafe to reuse.
	ReadTimeout time.Duration

	// Logger overrides the session logger. Nil uses the global logger with
	// the device address as context.
	Logger *logrus.Entry
}

func (c *Config) dialTimeout() time.Duration {
	if c.DialTimeout > 0 {
		return c.DialTimeout
	}
	return DefaultDialTimeout
}

func (c *Config) readTimeout() time.Duration {
	if c.ReadTimeout > 0 {
		return c.ReadTimeout
	}
	return DefaultReadTimeout
}

// Session owns a single authenticated connection to one device. The protocol
// is strictly request/response over one stream with no multiplexing, so only
// one command may be in flight at a time; concurrent callers serialize on an
// internal mutex.
type Session struct {
	cfg  Config
	conn net.Conn
	r    *bufio.Reader
	log  *logrus.Entry

	// mu serializes command exchanges (single in-flight rule).
	mu      sync.Mutex
	nextTag uint64

	stateMu sync.RWMutex
	state   State
}

// Dial opens a connection to the device and runs the login handshake.
// On return the session is Ready, or an error describes which stage failed:
// socket errors unwrap to ErrConnection, rejected logins to ErrAuthentication.
func Dial(ctx context.Context, cfg Config) (*Session, error) {
	log := cfg.Logger
	if log == nil {
		log = util.WithDevice(cfg.Address)
	}

	s := &Session{cfg: cfg, log: log, state: StateDisconnected}

	s.setState(StateConnecting)
	dialer := &net.Dialer{Timeout: cfg.dialTimeout()}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		s.setState(StateClosed)
		return nil, util.NewConnectionError(cfg.Address, err)
	}

	if cfg.UseTLS {
		tlsCfg := cfg.TLSConfig
		if tlsCfg == nil {
			tlsCfg = &tls.Config{}
		}
		tlsConn := tls.Client(conn, tlsCfg)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			s.setState(StateClosed)
			return nil, util.NewConnectionError(cfg.Address, err)
		}
		conn = tlsConn
	}

	s.conn = conn
	s.r = bufio.NewReader(conn)

	s.setState(StateAuthenticating)
	if err := s.login(); err != nil {
		s.teardown()
		return nil, err
	}

	s.setState(StateReady)
	metrics.SessionOpened(cfg.Address)
	s.log.Debug("API session ready")
	return s, nil
}

// State returns the current session state.
func (s *Session) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

// Close tears the session down. Safe to call multiple times and from a
// different goroutine than an in-progress Run: closing the socket fails the
// pending read and forces the session to Closed.
func (s *Session) Close() error {
	if s.State() == StateClosed {
		return nil
	}
	s.teardown()
	s.log.Debug("API session closed")
	return nil
}

// teardown closes the socket and marks the session Closed. Called on explicit
// Close and on every fatal protocol or I/O error.
func (s *Session) teardown() {
	wasReady := s.State() == StateReady
	s.setState(StateClosed)
	if s.conn != nil {
		s.conn.Close()
	}
	if wasReady {
		metrics.SessionClosed(s.cfg.Address)
	}
}

// login performs the /login handshake. Newer devices (post-6.43) accept
// plaintext credentials in the first sentence; older devices answer with a
// =ret= challenge that requires the MD5 response in a second /login. The
// variant is chosen by the reply shape, never by a version flag.
func (s *Session) login() error {
	reply, err := s.exchange("/login", Attrs{
		"name":     s.cfg.Username,
		"password": s.cfg.Password,
	}, nil)
	if err != nil {
		return loginError(s.cfg.Username, err)
	}

	challenge, ok := reply.Done["ret"]
	if !ok {
		return nil // plaintext login accepted
	}

	response, err := challengeResponse(s.cfg.Password, challenge)
	if err != nil {
		return err
	}
	_, err = s.exchange("/login", Attrs{
		"name":     s.cfg.Username,
		"response": response,
	}, nil)
	if err != nil {
		return loginError(s.cfg.Username, err)
	}
	return nil
}

// loginError converts a trap during /login into an AuthenticationError.
// Transport-level failures pass through unchanged.
func loginError(user string, err error) error {
	var cmdErr *util.CommandError
	if errors.As(err, &cmdErr) {
		return &util.AuthenticationError{User: user, Message: cmdErr.Message}
	}
	return err
}

// challengeResponse derives the pre-6.43 login response:
// "00" + hex(md5(0x00 ++ password ++ challenge)).
func challengeResponse(password, challenge string) (string, error) {
	chal, err := hex.DecodeString(challenge)
	if err != nil {
		return "", util.NewFramingError("login challenge is not hex: %q", challenge)
	}
	h := md5.New()
	h.Write([]byte{0})
	h.Write([]byte(password))
	h.Write(chal)
	return "00" + hex.EncodeToString(h.Sum(nil)), nil
}
