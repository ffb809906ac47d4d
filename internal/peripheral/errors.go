package peripheral

import (
	"errors"
	"fmt"
)

// FailureKind classifies failures surfaced by the peripheral core
type FailureKind string

const (
	UnknownCharacteristic  FailureKind = "unknown_characteristic"
	SendFailure            FailureKind = "send_failure"
	ValueGenerationFailure FailureKind = "value_generation_failure"
)

// Error is a peripheral failure with optional peer and characteristic context
type Error struct {
	Kind FailureKind
	Peer Peer   // set for send failures
	UUID string // set for characteristic failures
	Err  error  // underlying cause, may be nil
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := string(e.Kind)
	switch {
	case e.UUID != "":
		msg = fmt.Sprintf("%s %q", msg, e.UUID)
	case e.Peer != "":
		msg = fmt.Sprintf("%s to %s", msg, e.Peer)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is allows errors.Is to compare Error values by Kind
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Sentinels for errors.Is matching by kind
var (
	ErrUnknownCharacteristic = &Error{Kind: UnknownCharacteristic}
	ErrSendFailure           = &Error{Kind: SendFailure}

	// ErrValueGeneration is never returned by RandomSource; fallible
	// ValueSource implementations should report failures with this kind.
	ErrValueGeneration = &Error{Kind: ValueGenerationFailure}
)

var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrInvalidOptions = errors.New("invalid options")
	ErrClosed         = errors.New("peripheral closed")
)

// NewSendError wraps a transport failure for a single peer
func NewSendError(peer Peer, cause error) error {
	return &Error{Kind: SendFailure, Peer: peer, Err: cause}
}

// IsFailureKind reports whether err is an *Error of the given kind
func IsFailureKind(err error, kind FailureKind) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind == kind
	}
	return false
}
