package handlers

import (
	"encoding/json"
	"net/http"

	"workhub-project/backend/errs"
	"workhub-project/backend/models"
	"workhub-project/backend/services"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}

	created, err := h.service.RegisterUser(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}

	user, token, err := h.service.LoginUser(r.Context(), request.Username, request.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}
