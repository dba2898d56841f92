package sys

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Result carries the settled value of an asynchronous operation: either the
// value (Ok) or the failure (Err).
type Result[T any] struct {
	Ok  T
	Err error
}

// IsOk returns true if the Result contains a successful value (no error).
func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

// IsErr returns true if the Result contains an error. When checks are given
// it only returns true if the error matches one of them.
func (r Result[T]) IsErr(checks ...error) bool {
	if len(checks) == 0 {
		return r.Err != nil
	}
	for _, err := range checks {
		if errors.Is(r.Err, err) {
			return true
		}
	}
	return false
}

// IsErrMatches returns true if the Result contains an error containing any of the given string values.
func (r Result[T]) IsErrMatches(checks ...string) bool {
	if r.Err == nil {
		return false
	}
	if len(checks) == 0 {
		return true
	}
	val := r.Err.Error()
	for _, check := range checks {
		if strings.Contains(val, check) {
			return true
		}
	}
	return false
}

// Unwrap returns the value and error as a pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.Ok, r.Err
}

// ValueOr returns the value, or def when the Result holds an error.
func (r Result[T]) ValueOr(def T) T {
	if r.Err != nil {
		return def
	}
	return r.Ok
}

// Ok creates a new Result with a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{Ok: value}
}

// Err creates a new Result with an error.
func Err[T any](err error) Result[T] {
	var zero T
	return Result[T]{Ok: zero, Err: err}
}

// From builds a Result from a conventional (value, error) return.
func From[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}
