package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/cv-generator/internal/export"
	"github.com/jonathan/cv-generator/internal/form"
	"github.com/jonathan/cv-generator/internal/metrics"
	"github.com/jonathan/cv-generator/internal/server/ratelimit"
)

// Server represents the HTTP preview server
type Server struct {
	httpServer    *http.Server
	handler       http.Handler
	controller    *form.Controller
	exporter      *export.Exporter
	exports       *export.Manager
	metrics       *metrics.Metrics
	notifications *Broadcaster
	rateLimiter   *ratelimit.Limiter
	maxImageBytes int64
}

// Config holds server configuration
type Config struct {
	Port          int
	MaxImageBytes int64
	ExportTimeout time.Duration

	// ExportRetention and MaxExportJobs bound the finished exports kept
	// for download; zero keeps the export package defaults
	ExportRetention time.Duration
	MaxExportJobs   int
	RateLimit       *ratelimit.Config
}

// Deps are the components the server exposes over HTTP
type Deps struct {
	Controller    *form.Controller
	Exporter      *export.Exporter
	Metrics       *metrics.Metrics
	Notifications *Broadcaster
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Notifications == nil {
		deps.Notifications = NewBroadcaster()
	}

	s := &Server{
		controller:    deps.Controller,
		exporter:      deps.Exporter,
		metrics:       deps.Metrics,
		notifications: deps.Notifications,
		rateLimiter:   ratelimit.NewLimiter(cfg.RateLimit),
		maxImageBytes: cfg.MaxImageBytes,
	}
	s.exports = export.NewManager(deps.Exporter, cfg.ExportTimeout,
		export.OnFinish(s.notifyExport),
		export.WithRetention(cfg.ExportRetention, cfg.MaxExportJobs),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Catalogs
	mux.HandleFunc("GET /palettes", s.handleListPalettes)
	mux.HandleFunc("GET /languages", s.handleListLanguages)
	mux.HandleFunc("GET /languages/{language}/levels", s.handleListLevels)

	// Document
	mux.HandleFunc("GET /document", s.handleGetDocument)
	mux.HandleFunc("GET /document/errors", s.handleGetErrors)
	mux.HandleFunc("PATCH /document/fields/{field}", s.handleSetField)
	mux.HandleFunc("PUT /document/palette", s.handleSelectPalette)
	mux.HandleFunc("POST /document/reset", s.handleReset)
	mux.HandleFunc("POST /document/save", s.handleSave)
	mux.HandleFunc("PUT /document/profile-image", s.handleUploadImage)
	mux.HandleFunc("DELETE /document/profile-image", s.handleClearImage)

	// Collections
	mux.HandleFunc("POST /document/skills", s.handleAppendSkill)
	mux.HandleFunc("PUT /document/skills/{index}", s.handleUpdateSkill)
	mux.HandleFunc("DELETE /document/skills/{index}", s.handleRemoveSkill)
	mux.HandleFunc("POST /document/education", s.handleAppendEducation)
	mux.HandleFunc("PUT /document/education/{index}", s.handleUpdateEducation)
	mux.HandleFunc("DELETE /document/education/{index}", s.handleRemoveEducation)
	mux.HandleFunc("POST /document/experience", s.handleAppendExperience)
	mux.HandleFunc("PUT /document/experience/{index}", s.handleUpdateExperience)
	mux.HandleFunc("DELETE /document/experience/{index}", s.handleRemoveExperience)
	mux.HandleFunc("POST /document/experience/{index}/roles", s.handleAppendRole)
	mux.HandleFunc("PUT /document/experience/{index}/roles/{role}", s.handleUpdateRole)
	mux.HandleFunc("DELETE /document/experience/{index}/roles/{role}", s.handleRemoveRole)
	mux.HandleFunc("POST /document/languages", s.handleAppendLanguage)
	mux.HandleFunc("PUT /document/languages/{index}", s.handleUpdateLanguage)
	mux.HandleFunc("PUT /document/languages/{index}/language", s.handleSetLanguage)
	mux.HandleFunc("PUT /document/languages/{index}/level", s.handleSetLevel)
	mux.HandleFunc("DELETE /document/languages/{index}", s.handleRemoveLanguage)

	// Delivery
	mux.HandleFunc("GET /preview", s.handlePreview)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("POST /exports", s.handleStartExport)
	mux.HandleFunc("GET /exports/{id}", s.handleGetExport)
	mux.HandleFunc("GET /exports/{id}/file", s.handleGetExportFile)
	mux.HandleFunc("GET /exports/{id}/events", s.handleExportEvents)
	mux.HandleFunc("GET /notifications", s.handleNotifications)

	s.handler = s.metrics.Middleware(s.withRateLimit(s.withLogging(s.withCORS(mux))))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // event streams stay open
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close waits for running exports and stops background work
func (s *Server) Close() {
	s.exports.Close()
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit throttles the routes that print PDFs
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
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

// extractClientID extracts the client identifier from the request
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
