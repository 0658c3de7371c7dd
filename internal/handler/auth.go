package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/auth"
	"github.com/tahmid/peakbook/internal/service"
	"github.com/tahmid/peakbook/internal/upload"
)

// AuthHandler serves signup, login, and the caller's own profile.
type AuthHandler struct {
	auths       *service.AuthService
	stager      *upload.Stager
	maxPfpBytes int64
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auths *service.AuthService, stager *upload.Stager, maxPfpBytes int64, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auths:       auths,
		stager:      stager,
		maxPfpBytes: maxPfpBytes,
		logger:      logger,
	}
}

// HandleSignup registers a new account.
//
// HTTP: POST /api/auth/signup
// Body: multipart form — username, password, nickname (optional),
// pfp file (optional).
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid multipart form"))
		return
	}

	pfp, err := stageOne(r, h.stager, "pfp", h.maxPfpBytes)
	if err != nil {
		writeError(w, err)
		return
	}
	if pfp != nil {
		// No-op if the service commits it; otherwise this is the cleanup
		// for every exit path, error or panic included.
		defer pfp.Discard()
	}

	result, err := h.auths.Signup(r.Context(), service.SignupInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		Nickname: r.FormValue("nickname"),
	}, pfp)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, result, "user registered successfully")
}

// HandleLogin issues a token for valid credentials.
//
// HTTP: POST /api/auth/login
// Body: {"username": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.auths.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, result)
}

// HandleMe returns the caller's own profile, freshly read from the store.
//
// HTTP: GET /api/auth/me (authenticated)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("not authorized"))
		return
	}

	profile, err := h.auths.Me(r.Context(), callerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, profile)
}
