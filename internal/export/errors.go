// Package export delivers a rendered CV as an inline HTML preview or as a
// downloadable PDF printed from that same HTML.
package export

import "fmt"

// Error wraps a failed export. Op is the delivery mode ("preview", "pdf").
type Error struct {
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export %s failed: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("export %s failed: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UnknownEngineError is returned for an engine name that is not supported
type UnknownEngineError struct {
	Name string
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("unknown export engine: %s", e.Name)
}
