package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/auth"
	"github.com/tahmid/peakbook/internal/service"
	"github.com/tahmid/peakbook/internal/upload"
)

// MountainHandler serves the mountain catalogue endpoints.
type MountainHandler struct {
	mountains     *service.MountainService
	stager        *upload.Stager
	maxImageBytes int64
	logger        *slog.Logger
}

// NewMountainHandler creates a MountainHandler.
func NewMountainHandler(mountains *service.MountainService, stager *upload.Stager, maxImageBytes int64, logger *slog.Logger) *MountainHandler {
	return &MountainHandler{
		mountains:     mountains,
		stager:        stager,
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
}

// HandleList returns the full mountain list.
//
// HTTP: GET /api/mountains (public)
func (h *MountainHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	mountains, err := h.mountains.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mountains)
}

// HandleCreate creates a mountain from a multipart form: name, height,
// country, needsEquipment, description, and 1–5 "images" files.
//
// HTTP: POST /api/mountains (authenticated)
func (h *MountainHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("not authorized"))
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid multipart form"))
		return
	}

	height, err := strconv.Atoi(r.FormValue("height"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("height", "height must be a number"))
		return
	}

	staged, err := stageAll(h.stager, formFiles(r, "images"), h.maxImageBytes, h.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	defer upload.DiscardAll(h.logger, staged)

	mountain, err := h.mountains.Create(r.Context(), callerID, service.CreateMountainInput{
		Name:           r.FormValue("name"),
		Country:        r.FormValue("country"),
		Description:    r.FormValue("description"),
		Height:         height,
		NeedsEquipment: r.FormValue("needsEquipment") == "true",
	}, staged)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, mountain, "mountain uploaded successfully")
}

// HandleDelete removes a mountain and its image files.
//
// HTTP: DELETE /api/mountains/{id} (owner or admin)
func (h *MountainHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("not authorized"))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "invalid mountain id"))
		return
	}

	if err := h.mountains.Delete(r.Context(), callerID, id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, nil, "mountain deleted successfully")
}

// HandleAddImages appends up to 5 images to a mountain.
//
// HTTP: PATCH /api/mountains/{id}/images (owner or admin)
func (h *MountainHandler) HandleAddImages(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("not authorized"))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "invalid mountain id"))
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid multipart form"))
		return
	}

	staged, err := stageAll(h.stager, formFiles(r, "images"), h.maxImageBytes, h.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	defer upload.DiscardAll(h.logger, staged)

	result, err := h.mountains.AddImages(r.Context(), callerID, id, staged)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, result, "images added successfully")
}

// HandleDeletePicture removes one image, by stored URL, from a mountain.
//
// HTTP: DELETE /api/admin/mountains/{mountainId}/pictures (admin)
// Body: {"imageUrl": "uploads/mountains/3_1.jpg"}
func (h *MountainHandler) HandleDeletePicture(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("not authorized"))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "mountainId"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("mountainId", "invalid mountain id"))
		return
	}

	var req struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	remaining, err := h.mountains.DeleteImage(r.Context(), callerID, id, req.ImageURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, remaining, "picture deleted successfully")
}
