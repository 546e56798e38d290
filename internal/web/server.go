package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/snapback/internal/complaint"
	"github.com/vbonduro/snapback/internal/domain"
)

// ComplaintAnalyzer is the subset of complaint.Analyzer the server requires.
type ComplaintAnalyzer interface {
	Analyze(ctx context.Context, req complaint.Request) (*complaint.Analysis, error)
	Mode() complaint.Mode
}

// HistoryLister is the subset of store.HistoryStore the server requires.
// GetByID returns nil, nil for an unknown ID.
type HistoryLister interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.AnalysisRecord, error)
	GetByID(ctx context.Context, id string) (*domain.AnalysisRecord, error)
	Delete(ctx context.Context, id string) error
}

type Server struct {
	analyzer  ComplaintAnalyzer
	history   HistoryLister
	configErr error
	templates embed.FS
	mux       *http.ServeMux
	tmplFuncs template.FuncMap
	logger    *slog.Logger
}

// NewServer wires the HTTP routes. history may be nil when the history log is
// disabled. A non-nil configErr is shown on the form and blocks analysis.
func NewServer(analyzer ComplaintAnalyzer, history HistoryLister, configErr error, tmpl embed.FS, logger *slog.Logger) *Server {
	s := &Server{
		analyzer:  analyzer,
		history:   history,
		configErr: configErr,
		templates: tmpl,
		mux:       http.NewServeMux(),
		logger:    logger,
		tmplFuncs: template.FuncMap{
			"upper":   strings.ToUpper,
			"handle":  func() string { return complaint.Handle },
			"engage":  func() string { return complaint.Engagement },
			"timeago": timeAgo,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/analyze", s.handleAPIAnalyze)
	s.mux.HandleFunc("GET /card.png", s.handleCard)
	s.mux.HandleFunc("GET /history", s.handleHistory)
	s.mux.HandleFunc("GET /api/analyses/{id}", s.handleGetAnalysis)
	s.mux.HandleFunc("DELETE /api/analyses/{id}", s.handleDeleteAnalysis)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://unpkg.com; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, status int, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

// renderPartial parses file and executes the named {{define}} block in it.
func (s *Server) renderPartial(w http.ResponseWriter, status int, file, name string, data any) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, file)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, name, data)
}

// timeAgo renders t relative to now, the way the post header shows it.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return strconv.Itoa(int(d/time.Minute)) + "m ago"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d/time.Hour)) + "h ago"
	default:
		return t.Format("Jan 2")
	}
}
