package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"workhub-project/backend/errs"
	"workhub-project/backend/services"

	"github.com/gorilla/mux"
)

type TimerHandler struct {
	service *services.TimerService
}

func NewTimerHandler(service *services.TimerService) *TimerHandler {
	return &TimerHandler{service: service}
}

func (h *TimerHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
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

	task, err := h.service.StartTimer(r.Context(), taskID, actor)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TimerHandler) StopTimer(w http.ResponseWriter, r *http.Request) {
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

	var request struct {
		PagesCompleted *int64  `json:"pagesCompleted"`
		Remarks        *string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && err != io.EOF {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}
	if request.PagesCompleted != nil && *request.PagesCompleted < 0 {
		respondError(w, errs.BadRequest("pagesCompleted cannot be negative"))
		return
	}

	task, err := h.service.StopTimer(r.Context(), taskID, actor, services.StopOptions{
		PagesCompleted: request.PagesCompleted,
		Remarks:        request.Remarks,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TimerHandler) StopAllTimers(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	workspaceID, err := parseObjectID(mux.Vars(r)["workspaceId"], "workspace ID")
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.service.StopAllTimers(r.Context(), workspaceID, actor)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
