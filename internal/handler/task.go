package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Dan9191/task-tracker/internal/export"
	"github.com/Dan9191/task-tracker/internal/middleware"
	"github.com/Dan9191/task-tracker/internal/models"
	"github.com/gorilla/mux"
)

type createTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=120"`
	Description *string `json:"description"`
}

// optionalString distinguishes an absent field from an explicit null
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type updateTaskRequest struct {
	Title       *string        `json:"title" validate:"omitempty,max=120"`
	Description optionalString `json:"description" validate:"-"`
	Completed   *bool          `json:"completed"`
}

func (req updateTaskRequest) patch() models.TaskPatch {
	return models.TaskPatch{
		Title:          req.Title,
		Description:    req.Description.Value,
		DescriptionSet: req.Description.Set,
		Completed:      req.Completed,
	}
}

type taskMsgResponse struct {
	Msg  string       `json:"msg"`
	Task *models.Task `json:"task"`
}

// ownerID returns the authenticated caller. The auth middleware must have run.
func (h *Handler) ownerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "Missing or malformed authorization header")
		return 0, false
	}
	return claims.UserID, true
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeMsg(w, http.StatusNotFound, "Task not found")
		return 0, false
	}
	return id, true
}

// ListTasks handles GET /api/tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	tasks, err := h.svc.ListTasks(r.Context(), owner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// ExportTasks handles GET /api/tasks/export
func (h *Handler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	tasks, err := h.svc.ListTasks(r.Context(), owner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	body, err := export.TasksXML(owner, tasks)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.xml"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// CreateTask handles POST /api/tasks
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	task, err := h.svc.CreateTask(r.Context(), owner, req.Title, req.Description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/{id}
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	task, err := h.svc.UpdateTask(r.Context(), owner, id, req.patch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskMsgResponse{Msg: "Task updated", Task: task})
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(r.Context(), owner, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "Task deleted")
}

// ToggleTask handles PUT /api/tasks/{id}/toggle
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	task, err := h.svc.ToggleTask(r.Context(), owner, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskMsgResponse{Msg: "Task status toggled", Task: task})
}
