// Package apperr is the error vocabulary services use to tell the HTTP layer
// what went wrong. Anything that is not an *Error is treated as internal.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error. The value doubles as the "kind" field of the
// JSON error body.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindTransportFailure  Kind = "transport_failure"
	KindInternal          Kind = "internal"
)

var statusByKind = map[Kind]int{
	KindNotFound:          http.StatusNotFound,
	KindValidation:        http.StatusBadRequest,
	KindConflict:          http.StatusConflict,
	KindInvalidTransition: http.StatusUnprocessableEntity,
	KindTransportFailure:  http.StatusBadGateway,
	KindInternal:          http.StatusInternalServerError,
}

// Error carries a Kind and a message that is safe to show to API clients.
// Op names the failing operation for logs; Details is echoed in the body.
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Details any
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Status is the HTTP status for the error's kind.
func (e *Error) Status() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithOp sets Op and returns e.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails sets Details and returns e.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func NotFound(message string) *Error   { return &Error{Kind: KindNotFound, Message: message} }
func Validation(message string) *Error { return &Error{Kind: KindValidation, Message: message} }
func Conflict(message string) *Error   { return &Error{Kind: KindConflict, Message: message} }
func Internal(message string) *Error   { return &Error{Kind: KindInternal, Message: message} }

// InvalidTransition reports a lifecycle move the active transition table
// does not allow.
func InvalidTransition(message string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: message}
}

// TransportFailure reports that WhatsApp or email delivery failed. cause is
// kept for logs and never shown to the client.
func TransportFailure(message string, cause error) *Error {
	return &Error{Kind: KindTransportFailure, Message: message, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err's chain holds an *Error of kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
