// Package storage provides the local key-value store that persists the CV
// document between sessions.
package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key has never been written
var ErrNotFound = errors.New("key not found")

// CorruptStateError represents persisted bytes that cannot be turned back
// into a document (malformed JSON, schema mismatch, unknown version)
type CorruptStateError struct {
	Key     string
	Message string
	Cause   error
}

func (e *CorruptStateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt state under %q: %s: %v", e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("corrupt state under %q: %s", e.Key, e.Message)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Cause
}
