package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/rs/xid"

	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/model"
	"github.com/tahmid/peakbook/internal/store"
	"github.com/tahmid/peakbook/internal/upload"
)

// UserService handles public profiles, profile pictures, and the caller's
// wishlist and summited lists.
type UserService struct {
	users     *store.Users
	mountains *store.Mountains
	files     *upload.Root
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users *store.Users, mountains *store.Mountains, files *upload.Root, logger *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		mountains: mountains,
		files:     files,
		logger:    logger,
	}
}

// PublicProfile returns a user's public profile with the wishlist and
// summited id lists populated into full mountain records. Ids that no longer
// resolve (deleted mountains) are dropped silently.
func (s *UserService) PublicProfile(ctx context.Context, username string) (*model.PublicProfile, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, err
	}

	mountains, err := s.mountains.All()
	if err != nil {
		return nil, fmt.Errorf("service/user: loading mountains: %w", err)
	}

	byID := make(map[int]model.Mountain, len(mountains))
	for _, m := range mountains {
		byID[m.ID] = m
	}

	populate := func(ids []int) []model.Mountain {
		out := []model.Mountain{}
		for _, id := range ids {
			if m, ok := byID[id]; ok {
				out = append(out, m)
			}
		}
		return out
	}

	return &model.PublicProfile{
		ID:               user.ID,
		Username:         user.Username,
		Nickname:         user.Nickname,
		ProfileImagePath: user.ProfileImagePath,
		Bio:              user.Bio,
		Wishlist:         populate(user.Wishlist),
		Summited:         populate(user.Summited),
	}, nil
}

// UpdateProfileImage replaces a user's profile picture. Owner only — this is
// the one resource even admins don't touch. The old file is deleted
// best-effort after the record points at the new one.
func (s *UserService) UpdateProfileImage(ctx context.Context, callerID, username string, pfp *upload.File) (string, error) {
	caller, err := resolveCaller(s.users, callerID)
	if err != nil {
		return "", err
	}
	if caller.Username != username {
		return "", apperror.Forbidden("not authorized to update this user's profile picture")
	}

	name := fmt.Sprintf("%s-%s%s", username, xid.New().String(), pfp.Ext())
	committed, err := pfp.Commit(s.files, pfpURL(name))
	if err != nil {
		return "", fmt.Errorf("service/user: committing profile picture: %w", err)
	}

	var oldPath string
	_, err = s.users.UpdateByUsername(username, func(u *model.User) error {
		if u.ProfileImagePath != nil {
			oldPath = *u.ProfileImagePath
		}
		u.ProfileImagePath = &committed
		return nil
	})
	if err != nil {
		// The record update failed after the rename; don't orphan the file.
		removeFiles(s.logger, s.files, []string{committed})
		return "", err
	}

	if oldPath != "" {
		removeFiles(s.logger, s.files, []string{oldPath})
	}

	s.logger.Info("profile picture updated", slog.String("username", username))
	return committed, nil
}

// listKind selects which of the two mountain-id lists an operation targets.
// Wishlist and summited have identical semantics and no enforced exclusivity.
type listKind string

const (
	listWishlist listKind = "wishlist"
	listSummited listKind = "summited"
)

// AddWishlist appends a mountain id to the caller's wishlist. Adding an id
// already present is a Conflict; the list length grows by exactly one per
// successful call. Returns the updated list.
func (s *UserService) AddWishlist(ctx context.Context, callerID string, mountainID int) ([]int, error) {
	return s.addToList(callerID, mountainID, listWishlist)
}

// RemoveWishlist removes a mountain id from the caller's wishlist. An absent
// id is NotFound.
func (s *UserService) RemoveWishlist(ctx context.Context, callerID string, mountainID int) ([]int, error) {
	return s.removeFromList(callerID, mountainID, listWishlist)
}

// AddSummited appends a mountain id to the caller's summited list.
func (s *UserService) AddSummited(ctx context.Context, callerID string, mountainID int) ([]int, error) {
	return s.addToList(callerID, mountainID, listSummited)
}

// RemoveSummited removes a mountain id from the caller's summited list.
func (s *UserService) RemoveSummited(ctx context.Context, callerID string, mountainID int) ([]int, error) {
	return s.removeFromList(callerID, mountainID, listSummited)
}

func (s *UserService) addToList(callerID string, mountainID int, kind listKind) ([]int, error) {
	if mountainID <= 0 {
		return nil, apperror.ValidationFailed("mountainId", "a valid mountain id is required")
	}

	if _, err := resolveCaller(s.users, callerID); err != nil {
		return nil, err
	}

	// The mountain must exist at the time of the add; a dangling id would
	// only be dropped later at display time.
	if _, err := s.mountains.FindByID(mountainID); err != nil {
		return nil, err
	}

	var result []int
	_, err := s.users.UpdateByID(callerID, func(u *model.User) error {
		list := s.list(u, kind)
		if slices.Contains(*list, mountainID) {
			// The caller gets the current list back along with the rejection.
			return apperror.Conflict(string(kind)+" entry", strconv.Itoa(mountainID)).
				WithData(slices.Clone(*list))
		}
		*list = append(*list, mountainID)
		result = slices.Clone(*list)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("list entry added",
		slog.String("list", string(kind)),
		slog.String("userID", callerID),
		slog.Int("mountainID", mountainID),
	)
	return result, nil
}

func (s *UserService) removeFromList(callerID string, mountainID int, kind listKind) ([]int, error) {
	if _, err := resolveCaller(s.users, callerID); err != nil {
		return nil, err
	}

	var result []int
	_, err := s.users.UpdateByID(callerID, func(u *model.User) error {
		list := s.list(u, kind)
		idx := slices.Index(*list, mountainID)
		if idx < 0 {
			return apperror.NotFound(string(kind)+" entry", strconv.Itoa(mountainID)).
				WithData(slices.Clone(*list))
		}
		*list = slices.Delete(*list, idx, idx+1)
		result = slices.Clone(*list)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("list entry removed",
		slog.String("list", string(kind)),
		slog.String("userID", callerID),
		slog.Int("mountainID", mountainID),
	)
	return result, nil
}

func (s *UserService) list(u *model.User, kind listKind) *[]int {
	if kind == listSummited {
		if u.Summited == nil {
			u.Summited = []int{}
		}
		return &u.Summited
	}
	if u.Wishlist == nil {
		u.Wishlist = []int{}
	}
	return &u.Wishlist
}
