// Package util provides logging, error types, and parsing helpers shared
// across the driver.
package util

import (
	"errors"
	"fmt"
)

// Sentinel errors for the driver error taxonomy. The first four are fatal to
// the API session: the session transitions to Closed and must be reopened.
// ErrCommand and ErrNormalization are local to one operation.
var (
	ErrConnection     = errors.New("connection failed")
	ErrAuthentication = errors.New("authentication rejected")
	ErrFraming        = errors.New("protocol framing violated")
	ErrTimeout        = errors.New("read timed out")
	ErrCommand        = errors.New("command failed")
	ErrNormalization  = errors.New("normalization failed")
	ErrClosed         = errors.New("session closed")
	ErrNotConnected   = errors.New("device not connected")
)

// ConnectionError wraps a socket-level failure with the device address.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return ErrConnection
}

// NewConnectionError creates a connection error for the given address
func NewConnectionError(addr string, err error) *ConnectionError {
	return &ConnectionError{Addr: addr, Err: err}
}

// AuthenticationError represents a login handshake rejected by the device.
type AuthenticationError struct {
	User    string
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("login rejected for %q: %s", e.User, e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return ErrAuthentication
}

// FramingError represents a malformed byte stream. The connection is
// desynchronized and must never be reused.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return "framing error: " + e.Reason
}

func (e *FramingError) Unwrap() error {
	return ErrFraming
}

// NewFramingError creates a framing error
func NewFramingError(format string, args ...interface{}) *FramingError {
	return &FramingError{Reason: fmt.Sprintf(format, args...)}
}

// TimeoutError represents an expired read deadline while waiting for the
// terminal sentence of a reply. The stream state is unknown afterwards.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return "timed out waiting for " + e.Op
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// CommandError represents a !trap reply from the device. The command failed
// but the session remains usable.
type CommandError struct {
	Command  string
	Category int
	Message  string
}

func (e *CommandError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("device trap (category %d): %s", e.Category, e.Message)
	}
	return fmt.Sprintf("%s: device trap (category %d): %s", e.Command, e.Category, e.Message)
}

func (e *CommandError) Unwrap() error {
	return ErrCommand
}

// NormalizationError represents a required field that could not be coerced
// from device output. Only the offending record is rejected.
type NormalizationError struct {
	Schema string
	Field  string
	Attr   string
	Value  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("schema %s: required field %q (attribute %q, value %q): %s",
		e.Schema, e.Field, e.Attr, e.Value, e.Reason)
}

func (e *NormalizationError) Unwrap() error {
	return ErrNormalization
}
