package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/jonathan/portfolio/internal/server/middleware"
	"github.com/jonathan/portfolio/internal/types"
)

// handleLogin exchanges the admin password for a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, clientMessage(err, "Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Password is required")
		return
	}

	resp, err := s.sessions.Login(r.Context(), req.Password)
	switch {
	case err == nil:
		s.jsonResponse(w, http.StatusOK, resp)
	case errors.Is(err, ErrAdminNotConfigured):
		log.Printf("[admin] ADMIN_PASSWORD is not configured")
		s.errorResponse(w, http.StatusInternalServerError, "Server configuration error")
	case HTTPStatus(err) == http.StatusUnauthorized:
		s.errorResponse(w, http.StatusUnauthorized, "Invalid password")
	default:
		log.Printf("[admin] login failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create session")
	}
}

// handleVerify reports whether a session token is still valid. Missing or
// unknown tokens are simply not valid.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req types.VerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, clientMessage(err, "Invalid request body"))
		return
	}
	if req.SessionToken == "" {
		if token, ok := middleware.BearerToken(r); ok {
			req.SessionToken = token
		}
	}
	if err := req.Validate(); err != nil {
		s.jsonResponse(w, http.StatusOK, map[string]bool{"valid": false})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"valid": s.sessions.Verify(r.Context(), req.SessionToken)})
}

// handleLogout revokes the session. It succeeds even for unknown tokens.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req types.VerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, clientMessage(err, "Invalid request body"))
		return
	}
	if req.SessionToken == "" {
		if token, ok := middleware.BearerToken(r); ok {
			req.SessionToken = token
		}
	}
	if req.SessionToken != "" {
		if err := s.sessions.Logout(r.Context(), req.SessionToken); err != nil {
			log.Printf("[admin] logout failed: %v", err)
			s.errorResponse(w, http.StatusInternalServerError, "Failed to log out")
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}
