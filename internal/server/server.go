// Package server provides the browser front end: an upload page and a JSON API
// that run each upload through a fresh submission controller.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/logger"
	"github.com/yildizm/SysSecura/internal/monitor"
	"github.com/yildizm/SysSecura/internal/predict"
)

//go:embed templates/*.html
var templateFS embed.FS

// multipart overhead allowed on top of the file size limit
const formOverhead = 1 << 20

// Options configures the server
type Options struct {
	Addr        string
	ReadTimeout time.Duration
	MaxFileSize int64
	Predictor   predict.Predictor
	Logger      *logger.Logger
}

// Server serves the upload page and the analyze API
type Server struct {
	predictor predict.Predictor
	validator *intake.Validator
	log       *logger.Logger
	page      *template.Template
	stats     *monitor.Stats

	router *chi.Mux
	server *http.Server
}

// NewServer creates a new server. It does not start listening.
func NewServer(opts Options) (*Server, error) {
	if opts.Predictor == nil {
		return nil, errors.New("server requires a predictor")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	s := &Server{
		predictor: opts.Predictor,
		validator: intake.NewValidator(opts.MaxFileSize),
		log:       log.WithComponent("server"),
		page:      page,
		stats:     monitor.NewStats(),
		router:    chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.Post("/analyze", s.handleAnalyzePage)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyzeAPI)
		r.Get("/stats", s.handleStats)
	})

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Stats returns the submission statistics of this server
func (s *Server) Stats() *monitor.Stats {
	return s.stats
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start listens and serves until Shutdown is called
func (s *Server) Start() error {
	s.log.Info("listening on http://%s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down")
	return s.server.Shutdown(ctx)
}

// requestLogger logs one line per request through the component logger
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.DebugWithFields("request", []logger.Field{
			logger.F("id", middleware.GetReqID(r.Context())),
			logger.F("method", r.Method),
			logger.F("path", r.URL.Path),
			logger.F("status", ww.Status()),
			logger.F("bytes", ww.BytesWritten()),
			logger.Duration(time.Since(start)),
		})
	})
}
