// Package web serves the task API and the static front end.
package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/metalagman/taskboard/internal/task"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// TaskService is the task API backend.
type TaskService interface {
	List(ctx context.Context) ([]task.Task, error)
	Create(ctx context.Context, d task.Draft) (task.Task, error)
	Update(ctx context.Context, id int, p task.Patch) (task.Task, error)
	Delete(ctx context.Context, id int) error
}

// Options configures static asset serving.
type Options struct {
	StaticDir string
	IndexFile string
}

// Server provides the HTTP handlers.
type Server struct {
	tasks     TaskService
	staticDir string
	indexFile string
}

// NewServer creates a new web server.
func NewServer(tasks TaskService, opts Options) (*Server, error) {
	if tasks == nil {
		return nil, errors.New("web: task service is required")
	}
	if opts.IndexFile == "" {
		opts.IndexFile = "index.html"
	}
	if opts.StaticDir != "" {
		if fi, err := os.Stat(opts.StaticDir); err != nil || !fi.IsDir() {
			log.Warn().Str("dir", opts.StaticDir).Msg("static dir not found, front end will not be served")
		}
	}
	return &Server{tasks: tasks, staticDir: opts.StaticDir, indexFile: opts.IndexFile}, nil
}

// Routes returns the router for the API and the front end.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks", s.handleList)
	mux.HandleFunc("POST /api/tasks", s.handleCreate)
	mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDelete)
	// Method-less fallbacks keep every /api answer in the JSON error shape.
	mux.HandleFunc("/api/tasks", methodNotAllowed("GET, HEAD, POST"))
	mux.HandleFunc("/api/tasks/{id}", methodNotAllowed("PUT, DELETE"))
	mux.HandleFunc("/api/", s.handleAPINotFound)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("/", staticOnly(http.FileServer(http.Dir(s.staticDir))))
	return mux
}

func methodNotAllowed(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", allow)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// staticOnly limits the asset handler to reads.
func staticOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handler wraps Routes with request logging.
func (s *Server) Handler() http.Handler {
	h := s.Routes()
	h = hlog.AccessHandler(accessLog)(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	return hlog.NewHandler(log.Logger)(h)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.staticDir, s.indexFile))
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.tasks.Create(r.Context(), req.draft())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, task.ErrNotFound.Error())
		return
	}
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.tasks.Update(r.Context(), id, req.patch())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, task.ErrNotFound.Error())
		return
	}
	if err := s.tasks.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps service errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, task.ErrContentRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, task.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, task.ErrSave):
		hlog.FromRequest(r).Error().Err(err).Msg("persist tasks")
		writeError(w, http.StatusInternalServerError, "failed to save tasks")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("task operation")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
