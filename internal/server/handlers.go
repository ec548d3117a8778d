package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/cv-generator/internal/catalog"
	"github.com/jonathan/cv-generator/internal/media"
	"github.com/jonathan/cv-generator/internal/types"
	"github.com/jonathan/cv-generator/internal/validation"
)

// ValueRequest carries a single string value
type ValueRequest struct {
	Value string `json:"value"`
}

// PaletteRequest selects a palette by name
type PaletteRequest struct {
	Name string `json:"name"`
}

// DocumentResponse is returned by field edits. FieldError is set when the
// value was stored but violates a constraint.
type DocumentResponse struct {
	Document   types.CVDocument       `json:"document"`
	FieldError *validation.FieldError `json:"fieldError,omitempty"`
}

// ErrorsResponse reports the current violations of the working document
type ErrorsResponse struct {
	Valid  bool                    `json:"valid"`
	Errors []validation.FieldError `json:"errors"`
}

// writeError maps err to a status code and a JSON body
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)

	var ve *validation.ValidationError
	if errors.As(err, &ve) {
		s.jsonResponse(w, status, map[string]any{"error": "validation failed", "errors": ve.Errors})
		return
	}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		s.jsonResponse(w, status, map[string]any{"error": fe.Message, "field": fe.Field})
		return
	}
	s.errorResponse(w, status, err.Error())
}

// writeDocument responds with the working document after an edit that
// stores the value even when it is invalid
func (s *Server) writeDocument(w http.ResponseWriter, err error) {
	var fe *validation.FieldError
	if err != nil && !errors.As(err, &fe) {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, DocumentResponse{Document: s.controller.Snapshot(), FieldError: fe})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

func pathIndex(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ErrValidation{Field: name, Message: "must be an integer, got " + strconv.Quote(raw)}
	}
	return i, nil
}

// handleGetDocument returns the working document
func (s *Server) handleGetDocument(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.controller.Snapshot())
}

// handleGetErrors validates the working document
func (s *Server) handleGetErrors(w http.ResponseWriter, _ *http.Request) {
	resp := ErrorsResponse{Valid: true, Errors: []validation.FieldError{}}
	if ve := s.controller.Violations(); ve != nil {
		resp = ErrorsResponse{Valid: false, Errors: ve.Errors}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSetField sets a scalar or contact field, e.g. PATCH /document/fields/contact.email
func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	var req ValueRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDocument(w, s.controller.SetPath(r.PathValue("field"), req.Value))
}

// handleSelectPalette switches the palette
func (s *Server) handleSelectPalette(w http.ResponseWriter, r *http.Request) {
	var req PaletteRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.controller.SelectPalette(req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.controller.Snapshot().Palette)
}

// handleReset restores the default document
func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.controller.ResetToDefault()
	s.jsonResponse(w, http.StatusOK, s.controller.Snapshot())
}

// handleSave validates and persists the working document
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	err := s.controller.Save(r.Context())
	s.metrics.ObserveSave(err == nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "saved"})
}

// handleUploadImage accepts raw image bytes or a multipart "image" field
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	limit := s.maxImageBytes
	if limit <= 0 {
		limit = media.DefaultMaxImageBytes
	}

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, _, err := r.FormFile("image")
		if err != nil {
			s.writeError(w, &ErrValidation{Field: "image", Message: err.Error()})
			return
		}
		defer f.Close()
		body = f
	}

	// One byte over the limit is enough for the decoder to reject it
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	if err := s.controller.UploadProfileImage(data); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearImage removes the profile image
func (s *Server) handleClearImage(w http.ResponseWriter, _ *http.Request) {
	s.controller.ClearProfileImage()
	w.WriteHeader(http.StatusNoContent)
}

// handleListPalettes lists the palette registry
func (s *Server) handleListPalettes(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, catalog.Palettes())
}

// handleListLanguages lists the language catalog
func (s *Server) handleListLanguages(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, catalog.Languages())
}

// handleListLevels lists the levels offered for one language
func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	lang := r.PathValue("language")
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"language": lang,
		"known":    catalog.IsKnownLanguage(lang),
		"levels":   catalog.LevelsFor(lang),
	})
}
