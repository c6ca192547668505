// Package apperr defines the error kinds shared by stores, services, and
// handlers, and how each kind maps onto an HTTP status code.
//
// Handlers return or pass these errors to the JSON error writer, which picks
// the status with HTTPStatus. Anything that is not an *Error is treated as a
// store failure (500).
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the request boundary.
type Kind int

const (
	KindStore Kind = iota
	KindValidation
	KindUnauthenticated
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "store"
	}
}

// Error is a classified application error. Message is safe to show to the
// caller; Err (if any) is the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetail attaches a structured detail that is echoed in the response body.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func newErr(k Kind, msg string) *Error { return &Error{Kind: k, Message: msg} }

// Validation reports malformed or missing input (400).
func Validation(msg string) *Error { return newErr(KindValidation, msg) }

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) *Error {
	return newErr(KindValidation, fmt.Sprintf(format, args...))
}

// Unauthenticated reports a missing or invalid sign-in (401).
func Unauthenticated(msg string) *Error { return newErr(KindUnauthenticated, msg) }

// Forbidden reports that the caller lacks the required role (403).
func Forbidden(msg string) *Error { return newErr(KindAuthorization, msg) }

// NotFound reports that a referenced identifier does not exist (404).
func NotFound(msg string) *Error { return newErr(KindNotFound, msg) }

// Conflict reports a uniqueness violation such as a duplicate email (409).
func Conflict(msg string) *Error { return newErr(KindConflict, msg) }

// Store wraps a persistence failure (500). The cause is kept for logging.
func Store(msg string, err error) *Error {
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindStore when err is not classified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindStore
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}

// HTTPStatus maps err onto a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the caller-facing message for err. Unclassified
// errors get a generic message so internal details do not leak.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "internal server error"
}
