package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/portfolio/internal/assistant"
	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/layout"
	"github.com/jonathan/portfolio/internal/llm"
	"github.com/jonathan/portfolio/internal/server/middleware"
	"github.com/jonathan/portfolio/internal/server/ratelimit"
	"github.com/jonathan/portfolio/internal/store"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// sessionSweepInterval is how often expired admin sessions are deleted.
const sessionSweepInterval = 15 * time.Minute

// PostingFetcher fetches the text of a job posting.
type PostingFetcher interface {
	Posting(ctx context.Context, url string) (*fetch.Page, error)
}

// Config holds server configuration and collaborators.
type Config struct {
	Port           int
	AllowedOrigins []string // empty or "*" allows any origin

	Store     store.Store
	LLM       llm.Client     // nil disables chat and job-fit
	Fetcher   PostingFetcher // nil disables job-fit by URL
	Session   *config.SessionConfig
	Passwords *config.PasswordConfig
	Admin     *config.AdminConfig // nil disables admin login
	RateLimit *ratelimit.Config   // nil uses ratelimit.LoadConfig
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	resumes     *store.Cached
	sessions    *SessionService
	assistant   *assistant.Assistant
	fetcher     PostingFetcher
	generator   *layout.Generator
	rateLimiter *ratelimit.Limiter
	metrics     *Metrics
	origins     map[string]bool
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("server requires a store")
	}
	if cfg.Session == nil || cfg.Passwords == nil {
		return nil, fmt.Errorf("server requires session and password configuration")
	}

	rateCfg := cfg.RateLimit
	if rateCfg == nil {
		rateCfg = ratelimit.LoadConfig()
	}

	s := &Server{
		resumes:     store.NewCached(cfg.Store),
		sessions:    NewSessionService(cfg.Store, cfg.Session, cfg.Passwords, cfg.Admin),
		fetcher:     cfg.Fetcher,
		generator:   layout.NewGenerator(),
		rateLimiter: ratelimit.NewLimiter(rateCfg),
		metrics:     NewMetrics(),
		origins:     make(map[string]bool),
	}
	if cfg.LLM != nil {
		s.assistant = assistant.New(cfg.LLM)
	}
	for _, o := range cfg.AllowedOrigins {
		s.origins[o] = true
	}

	requireAdmin := middleware.AuthMiddleware(s.sessions.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Content
	mux.HandleFunc("GET /api/resume", s.handleGetResume)
	mux.Handle("PUT /api/resume", requireAdmin(http.HandlerFunc(s.handleUpdateResume)))
	mux.HandleFunc("GET /api/resume/pdf", s.handleResumePDF)
	mux.HandleFunc("GET /api/skills/radar", s.handleSkillsRadar)

	// Admin sessions
	mux.HandleFunc("POST /api/admin/login", s.handleLogin)
	mux.HandleFunc("POST /api/admin/verify", s.handleVerify)
	mux.HandleFunc("POST /api/admin/logout", s.handleLogout)

	// Assistant
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/job-fit", s.handleJobFit)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // chat streams and browser-rendered postings
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// InvalidateResume drops the cached résumé, e.g. after the seed file changed.
func (s *Server) InvalidateResume() {
	s.resumes.Invalidate()
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go s.sessions.RunSweeper(sweepCtx, sessionSweepInterval)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin(r.Header.Get("Origin")))
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) string {
	if len(s.origins) == 0 || s.origins["*"] {
		return "*"
	}
	if s.origins[origin] {
		return origin
	}
	return "null"
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.metrics.rateLimited.WithLabelValues(info.Tier).Inc()
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request and records its metrics.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.observeRequest(r.Method, route, sw.status, elapsed)
		if r.URL.Path != "/health" && r.URL.Path != "/metrics" {
			log.Printf("[%s] %s %d %s completed in %v", r.Method, r.URL.Path, sw.status, r.RemoteAddr, elapsed)
		}
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-limited JSON body into v. An empty body leaves v
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &ErrValidation{Field: "body", Message: "Invalid request body"}
	}
	return nil
}

// extractClientID identifies the requester for rate limiting and the PDF
// generation guard. It uses the IP address from RemoteAddr; forwarded headers
// are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] %s tier exceeded: Limit=%d Reset=%s",
		info.Tier, info.Limit, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
