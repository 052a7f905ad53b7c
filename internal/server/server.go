// Package server exposes a Studio and the stateless paginate and assist
// routes over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	docstudio "github.com/alnah/go-docstudio"
	"github.com/alnah/go-docstudio/internal/assist"
	"github.com/alnah/go-docstudio/internal/dateutil"
)

// Server timeouts. Write covers a full export, which waits on Chrome.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 5 * time.Minute
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

// maxBodyBytes bounds request bodies; documents travel inline.
const maxBodyBytes = 8 << 20

// Server routes HTTP requests to a Studio, a Paginator and an assist client.
type Server struct {
	studio    *docstudio.Studio
	paginator docstudio.Paginator
	assist    assist.Client
	logger    *zap.Logger
	dates     dateutil.Formatter
	now       func() time.Time
	mux       *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDateFormatter sets how decoration dates render on the stateless route.
func WithDateFormatter(f dateutil.Formatter) Option {
	return func(s *Server) {
		s.dates = f
	}
}

// WithClock sets the time source for decoration dates.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a Server. studio serves the session routes; paginator and ai
// serve the stateless ones. The Server owns none of them.
func New(studio *docstudio.Studio, paginator docstudio.Paginator, ai assist.Client, opts ...Option) *Server {
	s := &Server{
		studio:    studio,
		paginator: paginator,
		assist:    ai,
		logger:    zap.NewNop(),
		now:       time.Now,
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /preview", s.handlePreview)

	s.mux.HandleFunc("POST /api/generate-pdf", s.handleGeneratePDF)
	s.mux.HandleFunc("POST /api/ai-assist", s.handleAIAssist)

	s.mux.HandleFunc("GET /api/session", s.handleState)
	s.mux.HandleFunc("PUT /api/session/mode", s.handleMode)
	s.mux.HandleFunc("PUT /api/session/tab", s.handleTab)
	s.mux.HandleFunc("PUT /api/session/document", s.handleEdit)
	s.mux.HandleFunc("PUT /api/session/decorations/{target}", s.handleDecoration)
	s.mux.HandleFunc("PUT /api/session/margins", s.handleMargins)
	s.mux.HandleFunc("PUT /api/session/assist", s.handleConfigureAssist)
	s.mux.HandleFunc("POST /api/session/export", s.handleExport)
	s.mux.HandleFunc("GET /api/session/download", s.handleDownload)
	s.mux.HandleFunc("POST /api/session/messages", s.handleMessage)
	s.mux.HandleFunc("POST /api/session/suggestion/accept", s.handleAccept)
	s.mux.HandleFunc("POST /api/session/suggestion/reject", s.handleReject)
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

// statusRecorder captures the status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("http request", fields...)
			return
		}
		s.logger.Debug("http request", fields...)
	})
}
