package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tahmid/peakbook/internal/model"
	"github.com/tahmid/peakbook/internal/store"
)

// RankService computes the two leaderboards. Both are pure folds over the
// full user and mountain lists, recomputed on every request — nothing is
// cached between requests.
type RankService struct {
	users     *store.Users
	mountains *store.Mountains
	logger    *slog.Logger
}

// NewRankService creates a RankService.
func NewRankService(users *store.Users, mountains *store.Mountains, logger *slog.Logger) *RankService {
	return &RankService{users: users, mountains: mountains, logger: logger}
}

// HighestPoint ranks users by the tallest mountain they have summited,
// descending. Summited ids that no longer resolve contribute nothing.
func (s *RankService) HighestPoint(ctx context.Context) ([]model.HighestPointEntry, error) {
	users, err := s.users.All()
	if err != nil {
		return nil, fmt.Errorf("service/rank: loading users: %w", err)
	}
	mountains, err := s.mountains.All()
	if err != nil {
		return nil, fmt.Errorf("service/rank: loading mountains: %w", err)
	}

	heightByID := make(map[int]int, len(mountains))
	for _, m := range mountains {
		heightByID[m.ID] = m.Height
	}

	entries := make([]model.HighestPointEntry, 0, len(users))
	for _, u := range users {
		highest := 0
		for _, id := range u.Summited {
			if h, ok := heightByID[id]; ok && h > highest {
				highest = h
			}
		}
		entries = append(entries, model.HighestPointEntry{
			Username:         u.Username,
			Nickname:         u.Nickname,
			ProfileImagePath: u.ProfileImagePath,
			HighestPoint:     highest,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].HighestPoint > entries[j].HighestPoint
	})
	return entries, nil
}

// SummitedCount ranks users by how many mountains they have summited,
// descending.
func (s *RankService) SummitedCount(ctx context.Context) ([]model.SummitedCountEntry, error) {
	users, err := s.users.All()
	if err != nil {
		return nil, fmt.Errorf("service/rank: loading users: %w", err)
	}

	entries := make([]model.SummitedCountEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, model.SummitedCountEntry{
			Username:         u.Username,
			Nickname:         u.Nickname,
			ProfileImagePath: u.ProfileImagePath,
			SummitedCount:    len(u.Summited),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SummitedCount > entries[j].SummitedCount
	})
	return entries, nil
}
