package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/model"
	"github.com/tahmid/peakbook/internal/store"
)

// SearchService implements the substring search over mountains and users.
// Linear scan, no ranking, no pagination — the collections are small and
// re-read per request like everything else.
type SearchService struct {
	users     *store.Users
	mountains *store.Mountains
	logger    *slog.Logger
}

// NewSearchService creates a SearchService.
func NewSearchService(users *store.Users, mountains *store.Mountains, logger *slog.Logger) *SearchService {
	return &SearchService{users: users, mountains: mountains, logger: logger}
}

// SearchResult bundles both halves of a search response. Users appear with
// their minimal public fields only.
type SearchResult struct {
	Mountains []model.Mountain   `json:"mountains"`
	Users     []model.SearchUser `json:"users"`
}

// Search returns mountains whose name or country contains the query and
// users whose username or nickname contains it, case-insensitively.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, apperror.ValidationFailed("q", "search query is required")
	}

	mountains, err := s.mountains.All()
	if err != nil {
		return nil, fmt.Errorf("service/search: loading mountains: %w", err)
	}
	users, err := s.users.All()
	if err != nil {
		return nil, fmt.Errorf("service/search: loading users: %w", err)
	}

	result := &SearchResult{Mountains: []model.Mountain{}, Users: []model.SearchUser{}}
	for _, m := range mountains {
		if strings.Contains(strings.ToLower(m.Name), query) ||
			strings.Contains(strings.ToLower(m.Country), query) {
			result.Mountains = append(result.Mountains, m)
		}
	}
	for i := range users {
		if strings.Contains(strings.ToLower(users[i].Username), query) ||
			strings.Contains(strings.ToLower(users[i].Nickname), query) {
			result.Users = append(result.Users, users[i].SearchUser())
		}
	}
	return result, nil
}
