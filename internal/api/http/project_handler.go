package http

import (
	"net/http"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/service"

	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	projectSvc service.ProjectService
}

func NewProjectHandler(projectSvc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

type createProjectRequest struct {
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Priority      domain.ProjectPriority `json:"priority"`
	StartDate     string                 `json:"startDate"`
	EndDate       string                 `json:"endDate"`
	Collaborators []string               `json:"collaborators"`
}

type projectResponse struct {
	Message string          `json:"message,omitempty"`
	Project *domain.Project `json:"project"`
}

type projectsResponse struct {
	Projects []domain.Project `json:"projects"`
}

type userProjectsResponse struct {
	Projects []domain.UserProject `json:"projects"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	project, err := h.projectSvc.CreateProject(r.Context(), ActorFromContext(r.Context()), service.ProjectInput{
		Name:          req.Name,
		Description:   req.Description,
		Priority:      req.Priority,
		StartDate:     start,
		EndDate:       end,
		Collaborators: req.Collaborators,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectResponse{Message: "Project created", Project: project})
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectSvc.ListMyProjects(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectsResponse{Projects: projects})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectSvc.GetProject(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Project: project})
}

// Dashboard serves the signed-in user's overview.
func (h *ProjectHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := h.projectSvc.Overview(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *ProjectHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.projectSvc.ListMyTasks(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// MyProjects lists the caller's projects with their pin, favorite and archive
// flags.
func (h *ProjectHandler) MyProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectSvc.ListMyProjectsWithPreferences(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userProjectsResponse{Projects: projects})
}
