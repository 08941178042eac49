package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "unexpected"
	}
}

// Error is returned by every service operation. Message is safe to show to
// the caller; Err keeps the underlying cause for logs and 500 responses.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error   { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: KindAuth, Message: msg} }
func InvalidState(msg string) error { return &Error{Kind: KindInvalidState, Message: msg} }

func Unexpected(msg string, err error) error {
	return &Error{Kind: KindUnexpected, Message: msg, Err: err}
}

// KindOf classifies err; anything that is not a *Error is unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
