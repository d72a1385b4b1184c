package client

import (
	"errors"
	"fmt"
)

// StoreError wraps a failure reported by the table store. Message is the
// store's own text and is what the user gets to see.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op, message string, err error) *StoreError {
	if message == "" && err != nil {
		message = err.Error()
	}
	return &StoreError{Op: op, Message: message, Err: err}
}

// StoreMessage returns the text to surface for err: the store's message when
// err carries one, err.Error() otherwise.
func StoreMessage(err error) string {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
