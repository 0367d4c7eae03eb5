package http

import (
	"net/http"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/service"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	taskSvc service.TaskService
}

func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

type createTaskRequest struct {
	ProjectID   string              `json:"projectId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     string              `json:"dueDate"`
	Assignees   []string            `json:"assignees"`
}

type taskResponse struct {
	Message string       `json:"message,omitempty"`
	Task    *domain.Task `json:"task"`
}

type tasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := h.taskSvc.CreateTask(r.Context(), ActorFromContext(r.Context()), service.TaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     due,
		Assignees:   req.Assignees,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, taskResponse{Message: "Task created", Task: task})
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskSvc.ListTasks(r.Context(), ActorFromContext(r.Context()), r.URL.Query().Get("projectId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasksResponse{Tasks: tasks})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskSvc.GetTask(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: task})
}

// UpdateTask serves both PATCH (board moves) and PUT (edit form).
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var update domain.TaskUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, err)
		return
	}
	task, err := h.taskSvc.UpdateTask(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Message: "Task updated", Task: task})
}
