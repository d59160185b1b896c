// Package apperr classifies failures by kind so the HTTP layer can map each kind to one status.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP layer can map it once.
type Kind string

const (
	KindInvalidInput         Kind = "InvalidInput"
	KindNotFound             Kind = "NotFoundOrUnauthorized"
	KindExtractionFailed     Kind = "ExtractionFailed"
	KindAIServiceUnavailable Kind = "AIServiceUnavailable"
	KindEmptyAIResponse      Kind = "EmptyAIResponse"
	KindMalformedAIOutput    Kind = "MalformedAIOutput"
	KindPersistence          Kind = "PersistenceFailure"
)

// Sentinels for errors.Is checks.
var (
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrExtractionFailed     = &Error{Kind: KindExtractionFailed}
	ErrAIServiceUnavailable = &Error{Kind: KindAIServiceUnavailable}
	ErrEmptyAIResponse      = &Error{Kind: KindEmptyAIResponse}
	ErrMalformedAIOutput    = &Error{Kind: KindMalformedAIOutput}
	ErrPersistence          = &Error{Kind: KindPersistence}
)

// Error carries a kind, a human readable detail and, for model failures,
// the raw model text for diagnostics.
type Error struct {
	Kind   Kind
	Detail string
	Raw    string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, detail string) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

func InvalidInput(format string, args ...any) *Error {
	return New(KindInvalidInput, format, args...)
}

// NotFound is used for both "missing" and "not yours" so existence never leaks.
func NotFound(resource string) *Error {
	return New(KindNotFound, "%s not found or unauthorized", resource)
}

func Malformed(raw string, err error) *Error {
	return &Error{Kind: KindMalformedAIOutput, Detail: "model output is not a valid result", Raw: raw, Err: err}
}

func Persistence(err error) *Error {
	return Wrap(KindPersistence, err, "storage error")
}

// KindOf reports the kind of err, or "" if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
