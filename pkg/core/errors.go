package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCriteria is matched by every MalformedCriteriaError.
	ErrMalformedCriteria = errors.New("tablequery: malformed criteria")

	// ErrExecution is matched by every ExecutionError.
	ErrExecution = errors.New("tablequery: execution failed")
)

// MalformedCriteriaError reports criteria that cannot be compiled: an
// unparseable condition key, a non-uniform array value, an operator that
// cannot apply to its value, or an empty search column list.
type MalformedCriteriaError struct {
	Key    string
	Reason string
}

// Error returns the error string.
func (e *MalformedCriteriaError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("tablequery: malformed criteria: %s", e.Reason)
	}
	return fmt.Sprintf("tablequery: malformed criteria %q: %s", e.Key, e.Reason)
}

// Is reports whether target is ErrMalformedCriteria.
func (e *MalformedCriteriaError) Is(target error) bool {
	return target == ErrMalformedCriteria
}

// NewMalformedCriteriaError returns a MalformedCriteriaError for key.
func NewMalformedCriteriaError(key, format string, args ...any) *MalformedCriteriaError {
	return &MalformedCriteriaError{Key: key, Reason: fmt.Sprintf(format, args...)}
}

// IsMalformedCriteria returns true if err is or wraps a MalformedCriteriaError.
func IsMalformedCriteria(err error) bool {
	var e *MalformedCriteriaError
	return errors.As(err, &e)
}

// ExecutionError wraps an error returned by the Executor. The statement is
// kept for diagnostics; it is never retried.
type ExecutionError struct {
	SQL string
	Err error
}

// Error returns the error string.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tablequery: execute %q: %v", e.SQL, e.Err)
}

// Unwrap returns the executor error.
func (e *ExecutionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrExecution.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

// IsExecution returns true if err is or wraps an ExecutionError.
func IsExecution(err error) bool {
	var e *ExecutionError
	return errors.As(err, &e)
}
