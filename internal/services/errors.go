package services

import (
	"errors"
	"fmt"
)

// Validation error codes. They are part of the HTTP contract (the "err" field).
const (
	CodeNoUID            = "no_uid"
	CodeInvalidMask      = "invalid_mask"
	CodeInvalidUpdatedAt = "invalid_updated_at"
	CodeInvalidAction    = "invalid_action"
	CodeInvalidRelays    = "invalid_relays"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Code string
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Msg == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func validation(code, msg string) error {
	return &ValidationError{Code: code, Msg: msg}
}

// StorageError wraps a failed query or connection.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// AsValidation returns the ValidationError in err's chain, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
