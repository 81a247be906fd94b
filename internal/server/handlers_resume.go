package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/jonathan/portfolio/internal/assistant"
	"github.com/jonathan/portfolio/internal/layout"
	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/server/middleware"
	"github.com/jonathan/portfolio/internal/skills"
	"github.com/jonathan/portfolio/internal/types"
)

// updateResumeRequest is the body of PUT /api/resume.
type updateResumeRequest struct {
	Content json.RawMessage `json:"content"`
}

// loadResume returns the stored résumé, or assistant.ErrNoResume when none
// has been stored yet.
func (s *Server) loadResume(ctx context.Context) (*types.Resume, error) {
	content, err := s.resumes.GetResume(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resume: %w", err)
	}
	if content == nil {
		return nil, assistant.ErrNoResume
	}
	r, err := content.Resume()
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored resume: %w", err)
	}
	return r, nil
}

// handleGetResume returns the stored document, or null when nothing is stored.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	content, err := s.resumes.GetResume(r.Context())
	if err != nil {
		log.Printf("[resume] failed to fetch content: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch resume content")
		return
	}
	if content == nil {
		s.jsonResponse(w, http.StatusOK, nil)
		return
	}
	s.jsonResponse(w, http.StatusOK, content)
}

// handleUpdateResume replaces the stored document. Requires an admin session.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	var req updateResumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, clientMessage(err, "Invalid request body"))
		return
	}

	content := bytes.TrimSpace(req.Content)
	if len(content) == 0 || bytes.Equal(content, []byte("null")) {
		s.errorResponse(w, http.StatusBadRequest, "Content is required")
		return
	}
	if content[0] != '{' {
		s.errorResponse(w, http.StatusBadRequest, "Invalid content format")
		return
	}

	if err := schemas.ValidateResume(content); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			s.jsonResponse(w, http.StatusBadRequest, map[string]any{
				"error":   "Invalid content format",
				"details": ve.Errors,
			})
			return
		}
		log.Printf("[resume] schema check failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update resume content")
		return
	}

	adminID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	saved, err := s.resumes.SaveResume(r.Context(), content, &adminID)
	if err != nil {
		log.Printf("[resume] failed to save content: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update resume content")
		return
	}

	log.Printf("[resume] content updated by %s", adminID)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":   true,
		"updatedAt": saved.UpdatedAt,
	})
}

// handleResumePDF renders the stored résumé. A requester that already has a
// generation in flight gets 409 and nothing is rendered.
func (s *Server) handleResumePDF(w http.ResponseWriter, r *http.Request) {
	resume, err := s.loadResume(r.Context())
	if err != nil {
		log.Printf("[pdf] %v", err)
		s.metrics.pdfs.WithLabelValues(outcomeError).Inc()
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate resume. Please try again.")
		return
	}

	doc, err := s.generator.Generate(s.extractClientID(r), resume)
	if errors.Is(err, layout.ErrGenerationInProgress) {
		s.metrics.pdfs.WithLabelValues(outcomeRejected).Inc()
		s.errorResponse(w, http.StatusConflict, "A resume is already being generated.")
		return
	}
	if err != nil {
		log.Printf("[pdf] generation failed: %v", err)
		s.metrics.pdfs.WithLabelValues(outcomeError).Inc()
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate resume. Please try again.")
		return
	}

	s.metrics.pdfs.WithLabelValues(outcomeOK).Inc()
	log.Printf("[pdf] generated %s (%d pages, %d bytes)", doc.FileName, doc.Pages, len(doc.Data))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(doc.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		log.Printf("[pdf] failed to write response: %v", err)
	}
}

// handleSkillsRadar returns the radar chart data for the stored skills.
func (s *Server) handleSkillsRadar(w http.ResponseWriter, r *http.Request) {
	resume, err := s.loadResume(r.Context())
	if errors.Is(err, assistant.ErrNoResume) {
		s.jsonResponse(w, http.StatusOK, []types.RadarDataPoint{})
		return
	}
	if err != nil {
		log.Printf("[radar] %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch resume content")
		return
	}
	s.jsonResponse(w, http.StatusOK, skills.Radar(resume.Skills.Categories))
}

// attachment builds a Content-Disposition value for a download. Non-ASCII
// names are sent in the RFC 2231 filename* form.
func attachment(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "attachment"
}
