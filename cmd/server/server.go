package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/toricodesthings/engagement-extract-service/internal/config"
	"github.com/toricodesthings/engagement-extract-service/internal/extract"
	"github.com/toricodesthings/engagement-extract-service/internal/logging"
)

type server struct {
	cfg        config.Config
	log        *logging.Logger
	pipeline   *extract.Pipeline
	requestSem *semaphore.Weighted

	// Per-IP rate limiters
	limiters sync.Map

	metrics *serverMetrics
}

type serverMetrics struct {
	mu            sync.RWMutex
	totalRequests int64
	activeReqs    int64
}

func (m *serverMetrics) incActive() {
	m.mu.Lock()
	m.activeReqs++
	m.totalRequests++
	m.mu.Unlock()
}
func (m *serverMetrics) decActive() {
	m.mu.Lock()
	m.activeReqs--
	m.mu.Unlock()
}
func (m *serverMetrics) get() (total, active int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalRequests, m.activeReqs
}

func newServer(cfg config.Config, log *logging.Logger, pipeline *extract.Pipeline) *server {
	if log == nil {
		log = logging.Nop()
	}
	return &server{
		cfg:        cfg,
		log:        log,
		pipeline:   pipeline,
		requestSem: semaphore.NewWeighted(cfg.MaxConcurrentRequests),
		metrics:    &serverMetrics{},
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(s.withRequestID)
	r.Use(s.withLogging)
	r.Use(s.withRecovery)
	r.Use(withCORS(splitOrigins(s.cfg.CORSOrigin)))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)
		r.With(s.withRateLimit, s.withConcurrencyLimit).Post("/extract", s.handleExtract)
		r.NotFound(handleRouteNotFound)
		r.MethodNotAllowed(handleMethodNotAllowed)
	})

	r.NotFound(s.handleStatic)
	r.MethodNotAllowed(handleMethodNotAllowed)

	return r
}

func (s *server) cleanupRateLimiters(ctx context.Context) {
	interval := s.cfg.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		total, active := s.metrics.get()
		s.log.Info().
			Int64("active", active).
			Int64("total", total).
			Int("goroutines", runtime.NumGoroutine()).
			Uint64("mem_mb", m.Alloc/(1<<20)).
			Msg("stats")

		s.limiters.Range(func(key, _ any) bool {
			s.limiters.Delete(key)
			return true
		})
	}
}

// ---------- Handlers ----------

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"status": "healthy",
	})
}

func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	total, active := s.metrics.get()

	writeJSON(w, http.StatusOK, map[string]any{
		"activeRequests": active,
		"totalRequests":  total,
		"goroutines":     runtime.NumGoroutine(),
		"memAllocMB":     m.Alloc / (1 << 20),
		"memSysMB":       m.Sys / (1 << 20),
	})
}

func (s *server) handleExtract(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context(), s.log)
	tooLarge := fmt.Sprintf("File too large (max %dMB)", s.cfg.MaxUploadBytes/(1<<20))

	// Headroom for multipart boundaries and headers.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr), strings.Contains(err.Error(), "request body too large"):
			writeErr(w, http.StatusBadRequest, tooLarge)
			return
		case errors.Is(err, http.ErrNotMultipart):
			writeErr(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		log.Debug().Err(err).Msg("multipart parse failed")
		writeErr(w, http.StatusBadRequest, "Invalid file upload")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	mediaType := header.Header.Get("Content-Type")
	if _, err := extract.ParseMediaType(mediaType); err != nil {
		writeJSON(w, http.StatusUnsupportedMediaType, extract.Failure(err.Error()))
		return
	}

	data, err := extract.ReadLimited(file, s.cfg.MaxUploadBytes)
	if err != nil {
		if errors.Is(err, extract.ErrTooLarge) {
			writeErr(w, http.StatusBadRequest, tooLarge)
			return
		}
		log.Warn().Err(err).Msg("reading upload failed")
		writeErr(w, http.StatusBadRequest, "Invalid file upload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ExtractTimeout)
	defer cancel()

	env := s.pipeline.Extract(ctx, data, mediaType, filepath.Base(header.Filename))
	if !env.OK {
		writeJSON(w, http.StatusInternalServerError, env)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

// handleStatic serves the single-page UI from StaticDir, falling back to
// index.html for client-side routes.
func (s *server) handleStatic(w http.ResponseWriter, r *http.Request) {
	dir := strings.TrimSpace(s.cfg.StaticDir)
	if dir == "" || strings.HasPrefix(r.URL.Path, "/api") || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		handleRouteNotFound(w, r)
		return
	}

	clean := filepath.Clean("/" + r.URL.Path)
	path := filepath.Join(dir, filepath.FromSlash(clean))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}

	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		handleRouteNotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}

func handleRouteNotFound(w http.ResponseWriter, r *http.Request) {
	writeErr(w, http.StatusNotFound, "Route not found")
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeErr(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// ---------- Helpers ----------

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func sanitizeLogString(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, extract.Failure(message))
}
