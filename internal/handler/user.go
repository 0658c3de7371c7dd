package handler

import (
	"context"
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

// UserHandler serves public profiles, profile-picture updates, and the
// caller's wishlist and summited lists.
type UserHandler struct {
	users       *service.UserService
	stager      *upload.Stager
	maxPfpBytes int64
	logger      *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, stager *upload.Stager, maxPfpBytes int64, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:       users,
		stager:      stager,
		maxPfpBytes: maxPfpBytes,
		logger:      logger,
	}
}

// HandlePublicProfile returns a user's public profile with populated
// mountain lists.
//
// HTTP: GET /api/users/{username} (public)
func (h *UserHandler) HandlePublicProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.users.PublicProfile(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, profile)
}

// HandleUpdateProfileImage replaces the user's profile picture.
//
// HTTP: POST /api/users/{username}/pfp (owner only)
// Body: multipart form with a "pfp" file.
func (h *UserHandler) HandleUpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("not authorized"))
		return
	}
	username := chi.URLParam(r, "username")

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid multipart form"))
		return
	}

	pfp, err := stageOne(r, h.stager, "pfp", h.maxPfpBytes)
	if err != nil {
		writeError(w, err)
		return
	}
	if pfp == nil {
		writeError(w, apperror.ValidationFailed("pfp", "no profile picture file provided"))
		return
	}
	defer pfp.Discard()

	path, err := h.users.UpdateProfileImage(r.Context(), callerID, username, pfp)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, map[string]string{"pfpUrl": path},
		"profile picture updated successfully")
}

// HandleAddWishlist appends a mountain to the caller's wishlist.
//
// HTTP: POST /api/users/wishlist
// Body: {"mountainId": 1}
func (h *UserHandler) HandleAddWishlist(w http.ResponseWriter, r *http.Request) {
	h.addToList(w, r, h.users.AddWishlist, "mountain added to wishlist")
}

// HandleRemoveWishlist removes a mountain from the caller's wishlist.
//
// HTTP: DELETE /api/users/wishlist/{mountainId}
func (h *UserHandler) HandleRemoveWishlist(w http.ResponseWriter, r *http.Request) {
	h.removeFromList(w, r, h.users.RemoveWishlist, "mountain removed from wishlist")
}

// HandleAddSummited marks a mountain as summited by the caller.
//
// HTTP: POST /api/users/summited
func (h *UserHandler) HandleAddSummited(w http.ResponseWriter, r *http.Request) {
	h.addToList(w, r, h.users.AddSummited, "mountain marked as summited")
}

// HandleRemoveSummited unmarks a summited mountain.
//
// HTTP: DELETE /api/users/summited/{mountainId}
func (h *UserHandler) HandleRemoveSummited(w http.ResponseWriter, r *http.Request) {
	h.removeFromList(w, r, h.users.RemoveSummited, "mountain unmarked as summited")
}

type listOp func(ctx context.Context, callerID string, mountainID int) ([]int, error)

func (h *UserHandler) addToList(w http.ResponseWriter, r *http.Request, op listOp, message string) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("not authorized"))
		return
	}

	var req struct {
		MountainID int `json:"mountainId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	list, err := op(r.Context(), callerID, req.MountainID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, list, message)
}

func (h *UserHandler) removeFromList(w http.ResponseWriter, r *http.Request, op listOp, message string) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("not authorized"))
		return
	}

	mountainID, err := strconv.Atoi(chi.URLParam(r, "mountainId"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("mountainId", "invalid mountain id"))
		return
	}

	list, err := op(r.Context(), callerID, mountainID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, list, message)
}
