package server

import (
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/jonathan/cv-generator/internal/export"
	"github.com/jonathan/cv-generator/internal/form"
)

// writeArtifact sends an export with a Content-Disposition naming its file
func writeArtifact(w http.ResponseWriter, art *export.Artifact, disposition string) {
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": art.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		log.Printf("Error writing %s: %v", art.Filename, err)
	}
}

// handlePreview renders the working document inline
func (s *Server) handlePreview(w http.ResponseWriter, _ *http.Request) {
	doc := s.controller.Snapshot()
	art, err := s.exporter.Preview(&doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeArtifact(w, art, "inline")
}

// handleExport prints the working document to PDF and returns it as a download
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc := s.controller.Snapshot()
	art, err := s.exporter.PDF(r.Context(), &doc)
	if err != nil {
		s.notifications.Notify(form.Failure("Error al exportar", err.Error()))
		s.writeError(w, err)
		return
	}
	s.notifications.Notify(form.Success("CV Exportado", fmt.Sprintf("Se ha generado %s.", art.Filename)))
	writeArtifact(w, art, "attachment")
}

// handleStartExport queues a PDF export of the current document
func (s *Server) handleStartExport(w http.ResponseWriter, _ *http.Request) {
	doc := s.controller.Snapshot()
	id := s.exports.Start(&doc)
	w.Header().Set("Location", "/exports/"+id)
	s.jsonResponse(w, http.StatusAccepted, map[string]string{"id": id, "status": string(export.StatusPending)})
}

// handleGetExport returns the state of an export
func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) {
	job, ok := s.exportJob(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleGetExportFile downloads a completed export
func (s *Server) handleGetExportFile(w http.ResponseWriter, r *http.Request) {
	job, ok := s.exportJob(w, r)
	if !ok {
		return
	}
	art, ready := job.Artifact()
	if !ready {
		s.jsonResponse(w, http.StatusConflict, map[string]string{
			"error":  "export has no file",
			"status": string(job.Status),
		})
		return
	}
	writeArtifact(w, art, "attachment")
}

// handleExportEvents streams the status of an export until it finishes
func (s *Server) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	job, ok := s.exportJob(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := sse.WriteEvent(eventStatus, job); err != nil {
		return
	}

	job, err = s.exports.Wait(r.Context(), job.ID)
	if err != nil {
		// Client went away
		return
	}
	if job.Status == export.StatusFailed {
		sse.WriteError(job.Error)
		return
	}
	sse.WriteEvent(eventComplete, job) //nolint:errcheck
}

// handleNotifications streams user notifications until the client disconnects
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ch, cancel := s.notifications.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := sse.WriteEvent(eventNotification, n); err != nil {
				return
			}
		}
	}
}

func (s *Server) exportJob(w http.ResponseWriter, r *http.Request) (export.Job, bool) {
	id := r.PathValue("id")
	job, ok := s.exports.Get(id)
	if !ok {
		s.writeError(w, &ErrNotFound{Resource: "export", ID: id})
		return export.Job{}, false
	}
	return job, true
}

// notifyExport reports a finished background export to connected clients
func (s *Server) notifyExport(job export.Job) {
	if job.Status == export.StatusCompleted {
		s.notifications.Notify(form.Success("CV Exportado", fmt.Sprintf("Se ha generado %s.", job.Filename)))
		return
	}
	s.notifications.Notify(form.Failure("Error al exportar", job.Error))
}
