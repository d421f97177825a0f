package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leadhub/leadhub/internal/api/response"
	"github.com/leadhub/leadhub/internal/task"
)

type taskRequest struct {
	Description string  `json:"description"`
	DueDate     *string `json:"dueDate"`
}

type taskResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	DueDate     *string `json:"dueDate"`
}

func toTaskResponse(t *task.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID.String(),
		Description: t.Description,
	}
	if t.DueDate != nil {
		s := t.DueDate.UTC().Format("2006-01-02")
		resp.DueDate = &s
	}
	return resp
}

// TaskHandler handles task endpoints.
type TaskHandler struct {
	repo task.Repository
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(repo task.Repository) *TaskHandler {
	return &TaskHandler{repo: repo}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list tasks", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}

	items := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, toTaskResponse(&tasks[i]))
	}

	response.JSON(w, http.StatusOK, items)
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		response.Err(w, http.StatusBadRequest, "description is required")
		return
	}

	t := &task.Task{Description: req.Description}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "dueDate must be a date in YYYY-MM-DD format")
			return
		}
		t.DueDate = &due
	}

	if err := h.repo.Create(r.Context(), t); err != nil {
		slog.Error("failed to create task", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	response.JSON(w, http.StatusCreated, toTaskResponse(t))
}
