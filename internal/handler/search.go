package handler

import (
	"log/slog"
	"net/http"

	"github.com/tahmid/peakbook/internal/service"
)

// SearchHandler serves the public substring search.
type SearchHandler struct {
	search *service.SearchService
	logger *slog.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(search *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{search: search, logger: logger}
}

// HandleSearch searches mountains and users.
//
// HTTP: GET /api/search?q=... (public)
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := h.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}
