package api

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Every failure returned by the client matches ErrFetch. The classified kind
// (ErrNetwork, ErrNotFound or ErrValidation) can be checked with errors.Is
// when a caller wants to tell them apart; most callers do not.
var (
	ErrFetch      = errors.New("fetch failed")
	ErrNetwork    = errors.New("network error")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// Error describes a failed request.
type Error struct {
	URL     string
	Method  string
	Status  int
	Body    string
	Kind    error
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.cause != nil {
		msg = e.cause.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.URL, msg, e.Status)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, msg)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches ErrFetch and the error's own kind.
func (e *Error) Is(target error) bool {
	return target == ErrFetch || (e.Kind != nil && target == e.Kind)
}

// NewError builds an Error of the given kind.
func NewError(url, method string, status int, body string, kind error, cause error) *Error {
	e := &Error{
		URL:    url,
		Method: method,
		Status: status,
		Body:   body,
		Kind:   kind,
		cause:  cause,
	}
	if cause != nil {
		e.Message = cause.Error()
	}
	return e
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) error {
	switch status {
	case 404, 410:
		return ErrNotFound
	case 400, 409, 422:
		return ErrValidation
	default:
		return ErrNetwork
	}
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
