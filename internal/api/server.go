// Package api exposes the clipsaver HTTP surface: submitting video URLs,
// polling task state, confirming delivery, plus health and metrics endpoints.
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clipsaver/clipsaver/internal/logger"
	"github.com/clipsaver/clipsaver/pkg/errors"
	"github.com/clipsaver/clipsaver/pkg/model"
	"github.com/clipsaver/clipsaver/pkg/orchestrator"
)

// requestTimeout bounds a single API request. Downloads are not affected:
// they run detached from the request context.
const requestTimeout = 30 * time.Second

// Server is the clipsaver HTTP API server.
type Server struct {
	orch           *orchestrator.Orchestrator
	metricsEnabled bool
}

// NewServer creates a new API server around an orchestrator.
func NewServer(orch *orchestrator.Orchestrator) *Server {
	return &Server{orch: orch}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/videos", func(r chi.Router) {
		r.Post("/", s.handleSubmit)
		r.Get("/{id}", s.handleStatus)
		r.Post("/{id}/delivered", s.handleDelivered)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

type submitRequest struct {
	URL         string `json:"url"`
	RequesterID string `json:"requester_id"`
}

type submitResponse struct {
	TaskID string `json:"task_id"`
}

// handleSubmit accepts a video URL and answers with the task id to poll.
// Submissions for an already-active video answer with that task's id, so the
// response is the same whether the task is new or joined.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	id, err := s.orch.Submit(r.Context(), req.URL, req.RequesterID)
	if err != nil {
		if stderrors.Is(err, errors.ErrUnsupportedURL) || stderrors.Is(err, errors.ErrNoVideoID) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Error("submit failed", logger.Fields{"url": req.URL, "error": err})
		writeError(w, http.StatusInternalServerError, "could not accept the request")
		return
	}

	writeJSON(w, http.StatusAccepted, submitResponse{TaskID: id})
}

// taskResponse is the poller-facing view of a task.
type taskResponse struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Platform    string  `json:"platform"`
	Status      string  `json:"status"`
	Progress    float64 `json:"progress"`
	FilePath    string  `json:"file_path,omitempty"`
	FileSize    int64   `json:"file_size,omitempty"`
	Error       string  `json:"error,omitempty"`
	Delivered   bool    `json:"delivered"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt string  `json:"completed_at,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	task, err := s.orch.Status(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown task")
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// handleDelivered confirms that the requester received the file. The call is
// idempotent and always answers 204, so clients may retry it safely.
func (s *Server) handleDelivered(w http.ResponseWriter, r *http.Request) {
	s.orch.ConfirmDelivery(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func toTaskResponse(task *model.Task) taskResponse {
	resp := taskResponse{
		ID:        task.ID,
		URL:       task.URL,
		Platform:  task.Platform,
		Status:    task.Status.String(),
		Progress:  task.Progress,
		FilePath:  task.FilePath,
		FileSize:  task.FileSize,
		Error:     task.ErrorMsg,
		Delivered: task.Delivered,
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
	}
	if !task.CompletedAt.IsZero() {
		resp.CompletedAt = task.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
