package handlers

import (
	"net/http"

	"workhub-project/backend/services"

	"github.com/gorilla/mux"
)

type ProgressHandler struct {
	service *services.ProgressService
}

func NewProgressHandler(service *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

func (h *ProgressHandler) WorkspaceSummary(w http.ResponseWriter, r *http.Request) {
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

	from, err := parseTimeParam(r.URL.Query().Get("from"), false)
	if err != nil {
		respondError(w, err)
		return
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"), true)
	if err != nil {
		respondError(w, err)
		return
	}

	report, err := h.service.WorkspaceSummary(r.Context(), workspaceID, actor, from, to)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *ProgressHandler) EmployeeProgress(w http.ResponseWriter, r *http.Request) {
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
	employeeID, err := parseObjectID(vars["userId"], "user ID")
	if err != nil {
		respondError(w, err)
		return
	}

	from, err := parseTimeParam(r.URL.Query().Get("from"), false)
	if err != nil {
		respondError(w, err)
		return
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"), true)
	if err != nil {
		respondError(w, err)
		return
	}

	report, err := h.service.EmployeeProgress(r.Context(), workspaceID, employeeID, actor, from, to)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
