// Package validation checks CV documents and single form fields against
// their required and format constraints.
package validation

import (
	"fmt"
	"strings"
)

// FieldError is a single violated constraint, addressed by its JSON path
// (for example "contact.email" or "workExperience[1].roles[0]").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field violation of a document
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Has reports whether field has at least one violation
func (ve *ValidationError) Has(field string) bool {
	for _, err := range ve.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ByField groups violation messages by field path
func (ve *ValidationError) ByField() map[string]string {
	out := make(map[string]string, len(ve.Errors))
	for _, err := range ve.Errors {
		if _, ok := out[err.Field]; !ok {
			out[err.Field] = err.Message
		}
	}
	return out
}
