package handler

import (
	"log/slog"
	"net/http"

	"github.com/tahmid/peakbook/internal/service"
)

// RankHandler serves the two public leaderboards.
type RankHandler struct {
	ranks  *service.RankService
	logger *slog.Logger
}

// NewRankHandler creates a RankHandler.
func NewRankHandler(ranks *service.RankService, logger *slog.Logger) *RankHandler {
	return &RankHandler{ranks: ranks, logger: logger}
}

// HandleHighestPoint ranks users by their tallest summited mountain.
//
// HTTP: GET /api/ranks/highest-point (public)
func (h *RankHandler) HandleHighestPoint(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ranks.HighestPoint(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

// HandleSummitedCount ranks users by number of summited mountains.
//
// HTTP: GET /api/ranks/summited-count (public)
func (h *RankHandler) HandleSummitedCount(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ranks.SummitedCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}
