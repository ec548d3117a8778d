package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/cv-generator/internal/export"
	"github.com/jonathan/cv-generator/internal/form"
	"github.com/jonathan/cv-generator/internal/media"
	"github.com/jonathan/cv-generator/internal/rendering"
	"github.com/jonathan/cv-generator/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "index", Message: "must be an integer"}
	assert.Equal(t, "validation error: index - must be an integer", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "export", ID: "abc"}
	assert.Equal(t, "export not found: abc", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "Nil error",
			err:      nil,
			expected: http.StatusOK,
		},
		{
			name:     "ValidationError",
			err:      &validation.ValidationError{Errors: []validation.FieldError{{Field: "name", Message: "is required"}}},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "FieldError",
			err:      &validation.FieldError{Field: "contact.email", Message: "must be a valid email address"},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "IndexError",
			err:      &form.IndexError{Collection: "skills", Index: 9, Len: 2},
			expected: http.StatusNotFound,
		},
		{
			name:     "UnknownPaletteError",
			err:      &form.UnknownPaletteError{Name: "Neon"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "UnknownFieldError",
			err:      &form.UnknownFieldError{Field: "nickname"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "DecodeError",
			err:      &media.DecodeError{Message: "not an image"},
			expected: http.StatusUnsupportedMediaType,
		},
		{
			name:     "RenderError wrapped in export error",
			err:      &export.Error{Op: "pdf", Message: "render", Cause: &rendering.RenderError{Message: "name required"}},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "Engine failure",
			err:      &export.Error{Op: "pdf", Message: "print", Cause: errors.New("chrome died")},
			expected: http.StatusBadGateway,
		},
		{
			name:     "Wrapped request error",
			err:      fmt.Errorf("decode: %w", &ErrValidation{Field: "body"}),
			expected: http.StatusBadRequest,
		},
		{
			name:     "Unknown error",
			err:      assert.AnError,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
