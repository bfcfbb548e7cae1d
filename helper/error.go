package helper

import "fmt"

// Error wraps an underlying error with the operation that produced it
type Error struct {
	Op  string
	Err error
}

// NewError creates a wrapped error carrying the failed operation
func NewError(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("error in %v: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/errors.As
func (e *Error) Unwrap() error {
	return e.Err
}
