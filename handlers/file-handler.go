package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"workhub-project/backend/errs"
	"workhub-project/backend/logging"
	"workhub-project/backend/models"
	"workhub-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileHandler struct {
	service *services.FileService
	roles   *services.RoleService
}

func NewFileHandler(service *services.FileService, roles *services.RoleService) *FileHandler {
	return &FileHandler{service: service, roles: roles}
}

// authorizeMember resolves the workspace id from the route and checks the
// caller is a member carrying the required permission.
func (h *FileHandler) authorizeMember(r *http.Request, required ...string) (primitive.ObjectID, primitive.ObjectID, error) {
	actor, err := currentUser(r)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	workspaceID, err := parseObjectID(mux.Vars(r)["id"], "workspace ID")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	if _, err := h.roles.Authorize(r.Context(), actor, workspaceID, required...); err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return workspaceID, actor, nil
}

func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	workspaceID, actor, err := h.authorizeMember(r, models.PermViewWorkspace)
	if err != nil {
		respondError(w, err)
		return
	}

	entries, err := h.service.ListDirectory(r.Context(), workspaceID, actor, r.URL.Query().Get("path"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *FileHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	workspaceID, actor, err := h.authorizeMember(r, models.PermManageFiles)
	if err != nil {
		respondError(w, err)
		return
	}

	// Full bodies are buffered before writing; 32MB stays in memory, the
	// rest spills to temp files.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, errs.BadRequest("invalid multipart payload"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	stored, err := h.service.UploadFiles(r.Context(), workspaceID, actor, r.URL.Query().Get("path"), files)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"uploaded": stored})
}

func (h *FileHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	workspaceID, actor, err := h.authorizeMember(r, models.PermManageFiles)
	if err != nil {
		respondError(w, err)
		return
	}

	var request struct {
		Path string `json:"path"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, errs.BadRequest("invalid request payload"))
		return
	}

	if err := h.service.CreateFolder(r.Context(), workspaceID, actor, request.Path, request.Name); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "folder created"})
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workspaceID, actor, err := h.authorizeMember(r, models.PermManageFiles)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), workspaceID, actor, r.URL.Query().Get("path")); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	workspaceID, actor, err := h.authorizeMember(r, models.PermViewWorkspace)
	if err != nil {
		respondError(w, err)
		return
	}

	f, info, err := h.service.OpenForDownload(r.Context(), workspaceID, actor, r.URL.Query().Get("path"))
	if err != nil {
		respondError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(info.Name())))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))

	if _, err := io.Copy(w, f); err != nil {
		logging.Logger.Warnf("Event ID: FILE_DOWNLOAD_INTERRUPTED, Description: Download of %s interrupted: %v", info.Name(), err)
	}
}

func (h *FileHandler) Activity(w http.ResponseWriter, r *http.Request) {
	workspaceID, _, err := h.authorizeMember(r, models.PermManageWorkspace)
	if err != nil {
		respondError(w, err)
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 {
			respondError(w, errs.BadRequest("invalid days value"))
			return
		}
	}

	logs, err := h.service.Activity(r.Context(), workspaceID, days)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}
