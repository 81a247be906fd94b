package server

import (
	"errors"
	"iter"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/portfolio/internal/assistant"
	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/types"
	"golang.org/x/sync/errgroup"
)

const (
	msgNoAssistant    = "AI assistant is not configured."
	msgNoResume       = "Failed to fetch resume data"
	msgNoAIResponse   = "Failed to get AI response"
	msgShortJob       = "Please provide a job description with at least 10 characters."
	msgStreamFailed   = "The assistant stopped responding. Please try again."
	msgUnparseableFit = "Failed to parse analysis results"
)

// providerStatus narrows HTTPStatus to the codes a model failure may surface.
func providerStatus(err error) int {
	switch status := HTTPStatus(err); status {
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return status
	default:
		return http.StatusInternalServerError
	}
}

// handleChat streams the assistant's reply as server-sent events. Failures
// before the first delta are plain JSON errors with a matching status;
// failures after it are sent as an error event.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, msgNoAssistant)
		return
	}

	var req types.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, clientMessage(err, "Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid messages: "+describeValidation(err))
		return
	}

	resume, err := s.loadResume(r.Context())
	if err != nil {
		log.Printf("[chat] %v", err)
		s.metrics.chats.WithLabelValues(outcomeError).Inc()
		s.errorResponse(w, http.StatusInternalServerError, msgNoResume)
		return
	}

	next, stop := iter.Pull2(s.assistant.Chat(r.Context(), resume, req.Messages))
	defer stop()

	first, err, ok := next()
	if ok && err != nil {
		log.Printf("[chat] provider error: %v", err)
		s.metrics.chats.WithLabelValues(outcomeError).Inc()
		s.errorResponse(w, providerStatus(err), clientMessage(err, msgNoAIResponse))
		return
	}

	sw, err := NewSSEWriter(w, r)
	if err != nil {
		log.Printf("[chat] %v", err)
		s.errorResponse(w, http.StatusInternalServerError, msgNoAIResponse)
		return
	}

	deltas := 0
	for delta := first; ok; delta, err, ok = next() {
		if err != nil {
			log.Printf("[chat] stream failed after %d deltas: %v", deltas, err)
			s.metrics.chats.WithLabelValues(outcomeError).Inc()
			_ = sw.WriteError(clientMessage(err, msgStreamFailed))
			return
		}
		if delta == "" {
			continue
		}
		if err := sw.WriteDelta(delta); err != nil {
			log.Printf("[chat] client went away: %v", err)
			s.metrics.chats.WithLabelValues(outcomeError).Inc()
			return
		}
		deltas++
	}

	if err := sw.WriteDone(); err != nil {
		log.Printf("[chat] failed to finish stream: %v", err)
	}
	s.metrics.chats.WithLabelValues(outcomeOK).Inc()
	log.Printf("[chat] streamed %d deltas", deltas)
}

// handleJobFit scores the résumé against a pasted description or a posting
// URL. The résumé load and the posting fetch run concurrently.
func (s *Server) handleJobFit(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, msgNoAssistant)
		return
	}

	var req types.JobFitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, clientMessage(err, "Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		if errors.Is(err, types.ErrJobDescriptionTooShort) {
			s.errorResponse(w, http.StatusBadRequest, msgShortJob)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid job posting URL")
		return
	}

	description := strings.TrimSpace(req.JobDescription)
	fetchPosting := len(description) < types.MinJobDescriptionLength
	if fetchPosting && s.fetcher == nil {
		s.errorResponse(w, http.StatusBadRequest, "Fetching job postings by URL is not enabled. Please paste the description instead.")
		return
	}

	var resume *types.Resume
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		resume, err = s.loadResume(gctx)
		return err
	})
	if fetchPosting {
		g.Go(func() error {
			page, err := s.fetcher.Posting(gctx, req.JobURL)
			if err != nil {
				return err
			}
			description = page.Text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.metrics.jobFits.WithLabelValues(outcomeError).Inc()
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) {
			log.Printf("[job-fit] %v", err)
			s.errorResponse(w, http.StatusBadGateway, "Failed to fetch job posting: "+fetchErr.Message)
			return
		}
		log.Printf("[job-fit] %v", err)
		s.errorResponse(w, http.StatusInternalServerError, msgNoResume)
		return
	}
	if len(strings.TrimSpace(description)) < types.MinJobDescriptionLength {
		s.metrics.jobFits.WithLabelValues(outcomeRejected).Inc()
		s.errorResponse(w, http.StatusBadRequest, msgShortJob)
		return
	}

	analysis, err := s.assistant.AnalyzeFit(r.Context(), resume, description)
	if err != nil {
		s.metrics.jobFits.WithLabelValues(outcomeError).Inc()
		if errors.Is(err, assistant.ErrUnparseableAnalysis) {
			s.errorResponse(w, http.StatusInternalServerError, msgUnparseableFit)
			return
		}
		log.Printf("[job-fit] provider error: %v", err)
		s.errorResponse(w, providerStatus(err), clientMessage(err, msgNoAIResponse))
		return
	}

	s.metrics.jobFits.WithLabelValues(outcomeOK).Inc()
	s.jsonResponse(w, http.StatusOK, analysis)
}
