package handlers

import (
	"encoding/json"
	"net/http"

	"workhub-project/backend/errs"
	"workhub-project/backend/models"
	"workhub-project/backend/services"

	"github.com/gorilla/mux"
)

type WorkspaceHandler struct {
	service *services.WorkspaceService
	roles   *services.RoleService
}

func NewWorkspaceHandler(service *services.WorkspaceService, roles *services.RoleService) *WorkspaceHandler {
	return &WorkspaceHandler{service: service, roles: roles}
}

func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var request struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}

	workspace, err := h.service.CreateWorkspace(r.Context(), request.Name, request.Description, actor)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, workspace)
}

func (h *WorkspaceHandler) ListMyWorkspaces(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	workspaces, err := h.service.ListWorkspacesForUser(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, workspaces)
}

func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
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

	workspace, err := h.service.GetWorkspaceByID(r.Context(), workspaceID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, workspace)
}

func (h *WorkspaceHandler) JoinWorkspace(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var request struct {
		InviteCode string `json:"inviteCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}

	workspace, err := h.service.JoinByInviteCode(r.Context(), actor, request.InviteCode)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, workspace)
}

func (h *WorkspaceHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.service.ListMembers(r.Context(), workspaceID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (h *WorkspaceHandler) AddMember(w http.ResponseWriter, r *http.Request) {
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

	if _, err := h.roles.Authorize(r.Context(), actor, workspaceID, models.PermManageMembers); err != nil {
		respondError(w, err)
		return
	}

	var request struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}
	if request.Role == "" {
		request.Role = models.RoleMember
	}

	member, err := h.service.AddMember(r.Context(), workspaceID, request.Username, request.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func (h *WorkspaceHandler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	vars := mux.Vars(r)
	workspaceID, err := parseObjectID(vars["id"], "workspace ID")
	if err != nil {
		respondError(w, err)
		return
	}
	userID, err := parseObjectID(vars["userId"], "user ID")
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, workspaceID, models.PermManageMembers); err != nil {
		respondError(w, err)
		return
	}

	var request struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}

	if err := h.service.ChangeMemberRole(r.Context(), workspaceID, userID, request.Role); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "member role updated"})
}

func (h *WorkspaceHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	vars := mux.Vars(r)
	workspaceID, err := parseObjectID(vars["id"], "workspace ID")
	if err != nil {
		respondError(w, err)
		return
	}
	userID, err := parseObjectID(vars["userId"], "user ID")
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, workspaceID, models.PermManageMembers); err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.RemoveMember(r.Context(), workspaceID, userID); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "member removed from workspace"})
}
