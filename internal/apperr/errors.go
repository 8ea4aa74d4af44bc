package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindBackend    Kind = "BACKEND"
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindAuth       Kind = "AUTH"
	KindConflict   Kind = "CONFLICT"
)

// Error is the error type returned across package boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Backend wraps a failed database call.
func Backend(message string, err error) *Error {
	return &Error{Kind: KindBackend, Message: message, Err: err}
}

// Validation reports a missing or malformed form field.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Auth reports rejected credentials.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of err, KindBackend for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindBackend
}

// Message returns the user-facing message of err.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

func IsNotFound(err error) bool   { return err != nil && KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }
func IsAuth(err error) bool       { return err != nil && KindOf(err) == KindAuth }
func IsConflict(err error) bool   { return err != nil && KindOf(err) == KindConflict }
