package httpd

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flowdl/flowdl/internal/extract"
	"github.com/flowdl/flowdl/internal/model"
	"github.com/flowdl/flowdl/internal/queue"
)

// DownloadQueue is the slice of the scheduler the API needs.
type DownloadQueue interface {
	Enqueue(req model.Request) (string, error)
	Cancel(id string) bool
	QueueDepth() int
	Active() []model.Task
	History() []model.Task
	ToolDescription() string
}

// Server holds the handlers' dependencies.
type Server struct {
	Queue   DownloadQueue
	Version string
}

// EnqueueResponse is returned after a download is queued.
type EnqueueResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]any{
			"status":           "online",
			"version":          s.Version,
			"extraction_tool":  s.Queue.ToolDescription(),
			"queue_size":       s.Queue.QueueDepth(),
			"active_downloads": len(s.Queue.Active()),
		})
	}
}

func (s *Server) handleAddDownload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		taskID, err := s.Queue.Enqueue(req)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, queue.ErrInvalidURL), errors.Is(err, queue.ErrInvalidKind):
				status = http.StatusBadRequest
			case errors.Is(err, extract.ErrNoExtractor), errors.Is(err, queue.ErrShuttingDown):
				status = http.StatusServiceUnavailable
			}
			respondWithError(w, status, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, EnqueueResponse{
			Status:  "success",
			Message: "Download queued successfully",
			TaskID:  taskID,
		})
	}
}

func (s *Server) handleQueue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]any{
			"queue_size":   s.Queue.QueueDepth(),
			"active_tasks": s.Queue.Active(),
		})
	}
}

func (s *Server) handleHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]any{
			"completed_tasks": s.Queue.History(),
		})
	}
}

func (s *Server) handleCancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "taskID")
		if !s.Queue.Cancel(taskID) {
			respondWithError(w, http.StatusNotFound, "task not found")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Task " + taskID + " cancelled",
		})
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[HTTP] failed to encode JSON response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
