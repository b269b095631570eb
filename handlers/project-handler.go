package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"workhub-project/backend/errs"
	"workhub-project/backend/models"
	"workhub-project/backend/services"

	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	service *services.ProjectService
	roles   *services.RoleService
}

func NewProjectHandler(service *services.ProjectService, roles *services.RoleService) *ProjectHandler {
	return &ProjectHandler{service: service, roles: roles}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var request struct {
		WorkspaceID     string     `json:"workspaceId"`
		Name            string     `json:"name"`
		Description     string     `json:"description"`
		ClientName      string     `json:"clientName"`
		ExpectedEndDate *time.Time `json:"expectedEndDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}

	workspaceID, err := parseObjectID(request.WorkspaceID, "workspace ID")
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, workspaceID, models.PermCreateProject); err != nil {
		respondError(w, err)
		return
	}

	endDate := time.Time{}
	if request.ExpectedEndDate != nil {
		endDate = *request.ExpectedEndDate
	}

	project, err := h.service.CreateProject(r.Context(), workspaceID, request.Name, request.Description, request.ClientName, endDate, actor)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) ListProjectsByWorkspace(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	workspaceID, err := parseObjectID(mux.Vars(r)["id"], "workspace ID")
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, workspaceID, models.PermViewWorkspace); err != nil {
		respondError(w, err)
		return
	}

	projects, err := h.service.ListProjectsByWorkspace(r.Context(), workspaceID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := parseObjectID(mux.Vars(r)["id"], "project ID")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.service.GetProjectByID(r.Context(), projectID)
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, project.WorkspaceID, models.PermViewWorkspace); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := parseObjectID(mux.Vars(r)["id"], "project ID")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.service.GetProjectByID(r.Context(), projectID)
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, project.WorkspaceID, models.PermManageProject); err != nil {
		respondError(w, err)
		return
	}

	var request struct {
		Name            *string               `json:"name"`
		Description     *string               `json:"description"`
		ClientName      *string               `json:"clientName"`
		Status          *models.ProjectStatus `json:"status"`
		ExpectedEndDate *time.Time            `json:"expectedEndDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}

	updated, err := h.service.UpdateProject(r.Context(), projectID, request.Name, request.Description, request.ClientName, request.Status, request.ExpectedEndDate)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := parseObjectID(mux.Vars(r)["id"], "project ID")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.service.GetProjectByID(r.Context(), projectID)
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, project.WorkspaceID, models.PermManageProject); err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteProject(r.Context(), projectID); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}
