package server

import (
	"net/http"

	"github.com/jonathan/cv-generator/internal/types"
)

// IndexResponse reports where an appended element landed
type IndexResponse struct {
	Index int `json:"index"`
}

// RemoveResponse reports whether a removal happened; false means the
// collection was already at its floor
type RemoveResponse struct {
	Removed bool `json:"removed"`
}

func (s *Server) writeRemove(w http.ResponseWriter, removed bool, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, RemoveResponse{Removed: removed})
}

func (s *Server) writeIndex(w http.ResponseWriter, i int, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, IndexResponse{Index: i})
}

func (s *Server) handleAppendSkill(w http.ResponseWriter, r *http.Request) {
	var req ValueRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeIndex(w, s.controller.AppendSkill(req.Value), nil)
}

func (s *Server) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req ValueRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDocument(w, s.controller.UpdateSkill(i, req.Value))
}

func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	removed, err := s.controller.RemoveSkill(i)
	s.writeRemove(w, removed, err)
}

func (s *Server) handleAppendEducation(w http.ResponseWriter, r *http.Request) {
	var entry types.EducationEntry
	if err := decodeBody(r, &entry); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeIndex(w, s.controller.AppendEducation(entry), nil)
}

func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var entry types.EducationEntry
	if err := decodeBody(r, &entry); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDocument(w, s.controller.UpdateEducation(i, entry))
}

func (s *Server) handleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	removed, err := s.controller.RemoveEducation(i)
	s.writeRemove(w, removed, err)
}

func (s *Server) handleAppendExperience(w http.ResponseWriter, r *http.Request) {
	var entry types.WorkExperienceEntry
	if err := decodeBody(r, &entry); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeIndex(w, s.controller.AppendExperience(entry), nil)
}

func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var entry types.WorkExperienceEntry
	if err := decodeBody(r, &entry); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDocument(w, s.controller.UpdateExperience(i, entry))
}

func (s *Server) handleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	removed, err := s.controller.RemoveExperience(i)
	s.writeRemove(w, removed, err)
}

func (s *Server) handleAppendRole(w http.ResponseWriter, r *http.Request) {
	exp, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req ValueRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	i, err := s.controller.AppendRole(exp, req.Value)
	s.writeIndex(w, i, err)
}

func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	exp, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	role, err := pathIndex(r, "role")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req ValueRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDocument(w, s.controller.UpdateRole(exp, role, req.Value))
}

func (s *Server) handleRemoveRole(w http.ResponseWriter, r *http.Request) {
	exp, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	role, err := pathIndex(r, "role")
	if err != nil {
		s.writeError(w, err)
		return
	}
	removed, err := s.controller.RemoveRole(exp, role)
	s.writeRemove(w, removed, err)
}

func (s *Server) handleAppendLanguage(w http.ResponseWriter, r *http.Request) {
	var entry types.LanguageEntry
	if err := decodeBody(r, &entry); err != nil {
		s.writeError(w, err)
		return
	}
	i, err := s.controller.AppendLanguage(entry)
	s.writeIndex(w, i, err)
}

func (s *Server) handleUpdateLanguage(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var entry types.LanguageEntry
	if err := decodeBody(r, &entry); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.controller.UpdateLanguage(i, entry); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDocument(w, nil)
}

// handleSetLanguage changes the language and resets its level
func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req ValueRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDocument(w, s.controller.SetLanguage(i, req.Value))
}

// handleSetLevel changes the level; levels not offered for the language are rejected
func (s *Server) handleSetLevel(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req ValueRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.controller.SetLevel(i, req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDocument(w, nil)
}

func (s *Server) handleRemoveLanguage(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, err)
		return
	}
	removed, err := s.controller.RemoveLanguage(i)
	s.writeRemove(w, removed, err)
}
