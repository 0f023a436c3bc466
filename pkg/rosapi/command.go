package rosapi

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/newtron-network/rosdriver/pkg/metrics"
	"github.com/newtron-network/rosdriver/pkg/util"
)

// Reply is the accumulated result of one command exchange: the attribute map
// of every !re sentence in device order, plus the trailing !done attributes.
type Reply struct {
	Re   []Attrs
	Done Attrs
}

// Run issues one command and collects the reply stream until the terminal
// sentence. A !trap reply returns a CommandError and leaves the session
// Ready; framing violations, I/O errors and read timeouts close the session.
// Run blocks while another command is in flight.
func (s *Session) Run(ctx context.Context, path string, args Attrs) (*Reply, error) {
	return s.RunQuery(ctx, path, args, nil)
}

// RunQuery is Run with additional raw query words (?key=value and query
// operators) appended after the attribute words.
func (s *Session) RunQuery(ctx context.Context, path string, args Attrs, queries []string) (*Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.State() {
	case StateReady:
	case StateClosed:
		return nil, util.ErrClosed
	default:
		return nil, util.ErrNotConnected
	}

	reply, err := s.exchange(path, args, queries)
	if err != nil {
		metrics.IncCommand(s.cfg.Address, metrics.StatusFailed)
		return nil, err
	}
	metrics.IncCommand(s.cfg.Address, metrics.StatusSuccess)
	return reply, nil
}

// exchange writes one command sentence and reads sentences until !done or
// !fatal. Caller must hold the single-flight mutex (or be the login
// handshake, which runs before the session is shared).
func (s *Session) exchange(path string, args Attrs, queries []string) (*Reply, error) {
	s.nextTag++
	tag := strconv.FormatUint(s.nextTag, 10)

	words := commandWords(path, args, queries, tag)
	if err := s.writeSentence(words); err != nil {
		return nil, err
	}

	reply := &Reply{Done: make(Attrs)}
	var traps []*sentence

	for {
		sen, err := s.readReply(path)
		if err != nil {
			return nil, err
		}

		// Tag correlation: a reply tagged for a different request cannot
		// happen under the single-flight rule and means the stream is
		// desynchronized.
		if sen.apiTag != "" && sen.apiTag != tag {
			err := util.NewFramingError("reply tagged %q for request %q", sen.apiTag, tag)
			s.log.WithField("command", path).Error(err.Error())
			s.teardown()
			return nil, err
		}

		switch sen.tag {
		case tagRe:
			reply.Re = append(reply.Re, sen.attrs)
		case tagTrap:
			traps = append(traps, sen)
		case tagDone:
			reply.Done = sen.attrs
			if len(traps) > 0 {
				return nil, trapError(path, traps)
			}
			return reply, nil
		case tagFatal:
			// The device closes the connection after !fatal.
			reason := sen.extra
			if reason == "" {
				reason = "device sent !fatal"
			}
			s.log.WithField("command", path).Errorf("fatal reply: %s", reason)
			s.teardown()
			return nil, util.NewConnectionError(s.cfg.Address, util.NewFramingError("%s", reason))
		}
	}
}

func (s *Session) writeSentence(words []string) error {
	if err := s.conn.SetWriteDeadline(deadline(s.cfg.readTimeout())); err != nil {
		s.teardown()
		return util.NewConnectionError(s.cfg.Address, err)
	}
	if _, err := s.conn.Write(EncodeSentence(words)); err != nil {
		s.teardown()
		return util.NewConnectionError(s.cfg.Address, err)
	}
	return nil
}

// readReply reads and parses one reply sentence, classifying failures:
// deadline expiry is a TimeoutError, framing violations stay FramingErrors,
// anything else at the socket level is a ConnectionError. All three are fatal
// to the session.
func (s *Session) readReply(path string) (*sentence, error) {
	if err := s.conn.SetReadDeadline(deadline(s.cfg.readTimeout())); err != nil {
		s.teardown()
		return nil, util.NewConnectionError(s.cfg.Address, err)
	}

	words, err := ReadSentence(s.r)
	if err != nil {
		s.teardown()
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			s.log.WithField("command", path).Warn("read timeout, closing session")
			return nil, &util.TimeoutError{Op: "reply to " + path}
		}
		var framing *util.FramingError
		if errors.As(err, &framing) {
			return nil, framing
		}
		return nil, util.NewConnectionError(s.cfg.Address, err)
	}

	sen, err := parseReply(words)
	if err != nil {
		s.teardown()
		return nil, err
	}
	return sen, nil
}

// trapError folds one or more !trap sentences into a CommandError. Multiple
// traps in one reply keep the first category and join the messages.
func trapError(path string, traps []*sentence) *util.CommandError {
	category := 0
	if c, ok := traps[0].attrs["category"]; ok {
		if n, err := strconv.Atoi(c); err == nil {
			category = n
		}
	}
	messages := make([]string, 0, len(traps))
	for _, t := range traps {
		if m := t.attrs["message"]; m != "" {
			messages = append(messages, m)
		}
	}
	return &util.CommandError{
		Command:  path,
		Category: category,
		Message:  strings.Join(messages, "; "),
	}
}

func deadline(d time.Duration) time.Time {
	return time.Now().Add(d)
}
