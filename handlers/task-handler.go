package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"workhub-project/backend/errs"
	"workhub-project/backend/models"
	"workhub-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service  *services.TaskService
	projects *services.ProjectService
	roles    *services.RoleService
}

func NewTaskHandler(service *services.TaskService, projects *services.ProjectService, roles *services.RoleService) *TaskHandler {
	return &TaskHandler{service: service, projects: projects, roles: roles}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var request struct {
		ProjectID   string              `json:"projectId"`
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Type        models.TaskType     `json:"type"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		AssigneeID  *string             `json:"assigneeId"`
		DependsOn   *string             `json:"dependsOn"`
		DueDate     *time.Time          `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}

	projectID, err := parseObjectID(request.ProjectID, "project ID")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.projects.GetProjectByID(r.Context(), projectID)
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, project.WorkspaceID, models.PermCreateTask); err != nil {
		respondError(w, err)
		return
	}

	in := services.CreateTaskInput{
		ProjectID:   projectID,
		Title:       request.Title,
		Description: request.Description,
		Type:        request.Type,
		Status:      request.Status,
		Priority:    request.Priority,
		DueDate:     request.DueDate,
	}
	if request.AssigneeID != nil {
		assigneeID, err := parseObjectID(*request.AssigneeID, "assignee ID")
		if err != nil {
			respondError(w, err)
			return
		}
		in.AssigneeID = &assigneeID
	}
	if request.DependsOn != nil {
		dependsOn, err := parseObjectID(*request.DependsOn, "dependency task ID")
		if err != nil {
			respondError(w, err)
			return
		}
		in.DependsOn = &dependsOn
	}

	task, err := h.service.CreateTask(r.Context(), in, actor)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := parseObjectID(mux.Vars(r)["id"], "task ID")
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, task.WorkspaceID, models.PermViewWorkspace); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ListTasksByProject(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := parseObjectID(mux.Vars(r)["projectId"], "project ID")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.projects.GetProjectByID(r.Context(), projectID)
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, project.WorkspaceID, models.PermViewWorkspace); err != nil {
		respondError(w, err)
		return
	}

	tasks, err := h.service.ListTasksByProject(r.Context(), projectID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := parseObjectID(mux.Vars(r)["id"], "task ID")
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, task.WorkspaceID, models.PermEditTask); err != nil {
		respondError(w, err)
		return
	}

	var request struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Type        *models.TaskType     `json:"type"`
		Status      *models.TaskStatus   `json:"status"`
		Priority    *models.TaskPriority `json:"priority"`
		AssigneeID  *string              `json:"assigneeId"`
		Unassign    bool                 `json:"unassign"`
		DueDate     *time.Time           `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}

	in := services.UpdateTaskInput{
		Title:       request.Title,
		Description: request.Description,
		Type:        request.Type,
		Status:      request.Status,
		Priority:    request.Priority,
		Unassign:    request.Unassign,
		DueDate:     request.DueDate,
	}
	if request.AssigneeID != nil {
		var assigneeID primitive.ObjectID
		assigneeID, err = parseObjectID(*request.AssigneeID, "assignee ID")
		if err != nil {
			respondError(w, err)
			return
		}
		in.AssigneeID = &assigneeID
	}

	updated, err := h.service.UpdateTask(r.Context(), taskID, in)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := parseObjectID(mux.Vars(r)["id"], "task ID")
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.roles.Authorize(r.Context(), actor, task.WorkspaceID, models.PermDeleteTask); err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}
