// Package media turns uploaded profile pictures into self-contained data URIs.
package media

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxImageBytes caps uploads when no limit is configured
const DefaultMaxImageBytes = 5 << 20

// DecodeError represents an upload that is not a usable image
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("image decode error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("image decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// DecodeImage sniffs data and returns a data URI for it.
// Non-image content, empty input and input over maxBytes are rejected.
// A maxBytes of zero or less means DefaultMaxImageBytes.
func DecodeImage(data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", &DecodeError{Message: "file is empty"}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if int64(len(data)) > maxBytes {
		return "", &DecodeError{Message: fmt.Sprintf("file is %d bytes, limit is %d", len(data), maxBytes)}
	}

	mtype := mimetype.Detect(data)
	mime := mtype.String()
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", &DecodeError{Message: fmt.Sprintf("unsupported content type %s", mime)}
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
