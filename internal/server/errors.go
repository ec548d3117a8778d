// Package server provides the HTTP preview server for the CV editor.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-generator/internal/export"
	"github.com/jonathan/cv-generator/internal/form"
	"github.com/jonathan/cv-generator/internal/media"
	"github.com/jonathan/cv-generator/internal/rendering"
	"github.com/jonathan/cv-generator/internal/validation"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr      *ErrValidation
		notFound    *ErrNotFound
		docErr      *validation.ValidationError
		fieldErr    *validation.FieldError
		indexErr    *form.IndexError
		paletteErr  *form.UnknownPaletteError
		unknownErr  *form.UnknownFieldError
		floorErr    *form.FloorError
		decodeErr   *media.DecodeError
		renderErr   *rendering.RenderError
		engineErr   *export.UnknownEngineError
		exportErr   *export.Error
		templateErr *rendering.TemplateError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &reqErr), errors.As(err, &paletteErr), errors.As(err, &unknownErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &indexErr):
		return http.StatusNotFound
	case errors.As(err, &docErr), errors.As(err, &fieldErr), errors.As(err, &floorErr), errors.As(err, &renderErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &decodeErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &templateErr), errors.As(err, &engineErr):
		return http.StatusInternalServerError
	case errors.As(err, &exportErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
