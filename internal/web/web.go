// Package web serves the week calendar over HTTP: a JSON API for editing
// tasks and an HTML timeline page that can be captured to PNG.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/yuin/goldmark"

	"weekcal/internal/config"
	"weekcal/internal/entry"
	appLog "weekcal/internal/log"
	"weekcal/internal/model"
	"weekcal/internal/session"
	"weekcal/internal/timeparse"
)

// Server provides the HTTP API and pages over one session.
type Server struct {
	cfg     *config.Config
	sess    *session.Session
	parser  *timeparse.Parser
	builder *entry.Builder
	mux     *http.ServeMux

	page *template.Template
	md   goldmark.Markdown

	// Rendered Markdown notes keyed by source text. Notes rarely change
	// between page loads, so the week page reuses earlier conversions.
	notesMu    sync.RWMutex
	notesCache map[string]template.HTML

	today func() model.Date
}

// NewServer constructs a Server. cfg is expected to be normalized.
func NewServer(cfg *config.Config, sess *session.Session) *Server {
	parser := timeparse.New(cfg.ParseOptions())
	s := &Server{
		cfg:        cfg,
		sess:       sess,
		parser:     parser,
		builder:    entry.NewBuilder(parser, cfg.DefaultColor),
		mux:        http.NewServeMux(),
		page:       template.Must(template.New("timeline.html").Funcs(pageFuncs).ParseFS(templates, "templates/timeline.html")),
		md:         newMarkdown(),
		notesCache: make(map[string]template.HTML),
		today:      model.Today,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Blank credentials disable auth rather than locking everyone out.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="weekcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ListenAndServe listens on cfg.Listen and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	appLog.Info("starting HTTP server", "listen", "http://"+ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		appLog.Info("HTTP server stopped")
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/week", s.handleWeek)
	s.mux.HandleFunc("POST /api/week/clear", s.handleClearWeek)
	s.mux.HandleFunc("GET /api/days/{date}", s.handleGetDay)
	s.mux.HandleFunc("PUT /api/days/{date}", s.handleReplaceDay)
	s.mux.HandleFunc("POST /api/days/{date}/tasks", s.handleAddTask)
	s.mux.HandleFunc("PUT /api/days/{date}/tasks/{id}", s.handleUpdateTask)
	s.mux.HandleFunc("DELETE /api/days/{date}/tasks", s.handleRemoveTasks)
	s.mux.HandleFunc("GET /api/days/{date}/timeline", s.handleTimeline)
	s.mux.HandleFunc("POST /api/clipboard/copy", s.handleCopy)
	s.mux.HandleFunc("POST /api/clipboard/paste", s.handlePaste)
	s.mux.HandleFunc("POST /api/parse-time", s.handleParseTime)

	s.mux.HandleFunc("GET /export.ics", s.handleExport)
	s.mux.HandleFunc("GET /timeline", s.handlePage)
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/timeline", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
