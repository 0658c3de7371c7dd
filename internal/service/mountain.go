package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/model"
	"github.com/tahmid/peakbook/internal/store"
	"github.com/tahmid/peakbook/internal/upload"
)

// MaxImagesPerRequest caps how many images one create or add-images call may
// carry.
const MaxImagesPerRequest = 5

// MountainService handles the mountain catalogue: creation with images,
// deletion, and per-image maintenance.
type MountainService struct {
	mountains *store.Mountains
	users     *store.Users
	files     *upload.Root
	logger    *slog.Logger
}

// NewMountainService creates a MountainService. files is where committed
// mountain images land.
func NewMountainService(mountains *store.Mountains, users *store.Users, files *upload.Root, logger *slog.Logger) *MountainService {
	return &MountainService{
		mountains: mountains,
		users:     users,
		files:     files,
		logger:    logger,
	}
}

// List returns the full mountain collection.
func (s *MountainService) List(ctx context.Context) ([]model.Mountain, error) {
	return s.mountains.All()
}

// Get returns one mountain by id.
func (s *MountainService) Get(ctx context.Context, id int) (*model.Mountain, error) {
	return s.mountains.FindByID(id)
}

// CreateMountainInput is the create form minus the image files.
type CreateMountainInput struct {
	Name           string
	Country        string
	Description    string
	Height         int
	NeedsEquipment bool
}

// Create validates the input and creates the mountain, committing the staged
// images to their permanent {id}_{seq}{ext} names inside the store's
// critical section (the id isn't known before then). On any failure the
// staged files stay staged — the handler's deferred Discard removes them —
// and any image committed before the failure is removed here.
func (s *MountainService) Create(ctx context.Context, callerID string, in CreateMountainInput, staged []*upload.File) (*model.Mountain, error) {
	caller, err := resolveCaller(s.users, callerID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	country := strings.TrimSpace(in.Country)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "mountain name is required")
	}
	if country == "" {
		return nil, apperror.ValidationFailed("country", "country is required")
	}
	if in.Height <= 0 {
		return nil, apperror.ValidationFailed("height", "height must be a positive number of meters")
	}
	if len(staged) == 0 {
		return nil, apperror.ValidationFailed("images", "at least one image is required")
	}
	if len(staged) > MaxImagesPerRequest {
		return nil, apperror.ValidationFailed("images",
			fmt.Sprintf("at most %d images per upload", MaxImagesPerRequest))
	}

	mountain := model.Mountain{
		Name:           name,
		Country:        country,
		Description:    strings.TrimSpace(in.Description),
		Height:         in.Height,
		NeedsEquipment: in.NeedsEquipment,
		UploadedBy:     caller.Username,
		CreatedAt:      time.Now().UTC(),
	}

	// committed survives the closure so a store failure after the images
	// were renamed into place can still be unwound.
	var committed []string
	created, err := s.mountains.Create(mountain, func(id int) ([]string, error) {
		urls, err := s.commitImages(staged, id, 0)
		if err != nil {
			return nil, err
		}
		committed = urls
		return urls, nil
	})
	if err != nil {
		removeFiles(s.logger, s.files, committed)
		return nil, err
	}

	// Bookkeeping on the creator's record; the mountain is already saved, so
	// a failure here is logged rather than unwound.
	if _, err := s.users.UpdateByID(callerID, func(u *model.User) error {
		u.UploadedMountains = append(u.UploadedMountains, created.ID)
		return nil
	}); err != nil {
		s.logger.Warn("failed to record uploaded mountain on user",
			slog.String("userID", callerID),
			slog.Int("mountainID", created.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("mountain created",
		slog.Int("id", created.ID),
		slog.String("name", created.Name),
		slog.String("uploadedBy", created.UploadedBy),
	)
	return created, nil
}

// Delete removes a mountain and purges its image files. Owner or admin only;
// on Forbidden the record and every file stay untouched.
func (s *MountainService) Delete(ctx context.Context, callerID string, id int) error {
	caller, err := resolveCaller(s.users, callerID)
	if err != nil {
		return err
	}

	mountain, err := s.mountains.FindByID(id)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(caller, mountain.UploadedBy, "delete this mountain"); err != nil {
		return err
	}

	images, err := s.mountains.Delete(id)
	if err != nil {
		return err
	}
	removeFiles(s.logger, s.files, images)

	s.logger.Info("mountain deleted",
		slog.Int("id", id),
		slog.String("deletedBy", caller.Username),
	)
	return nil
}

// AddImagesResult reports an append-images call.
type AddImagesResult struct {
	NewImageURLs []string `json:"newImageUrls"`
	TotalImages  int      `json:"totalImages"`
}

// AddImages appends up to MaxImagesPerRequest images to a mountain. Owner or
// admin only. Sequence numbers continue from the current image count, and
// the count is read inside the critical section, so two concurrent appends
// cannot collide on a name.
func (s *MountainService) AddImages(ctx context.Context, callerID string, id int, staged []*upload.File) (*AddImagesResult, error) {
	caller, err := resolveCaller(s.users, callerID)
	if err != nil {
		return nil, err
	}
	if len(staged) == 0 {
		return nil, apperror.ValidationFailed("images", "no image files provided")
	}
	if len(staged) > MaxImagesPerRequest {
		return nil, apperror.ValidationFailed("images",
			fmt.Sprintf("at most %d images per upload", MaxImagesPerRequest))
	}

	var result AddImagesResult
	var committed []string
	_, err = s.mountains.UpdateByID(id, func(m *model.Mountain) error {
		if err := requireOwnerOrAdmin(caller, m.UploadedBy, "add images to this mountain"); err != nil {
			return err
		}

		urls, err := s.commitImages(staged, id, len(m.Images))
		if err != nil {
			return err
		}
		committed = urls

		m.Images = append(m.Images, urls...)
		result = AddImagesResult{NewImageURLs: urls, TotalImages: len(m.Images)}
		return nil
	})
	if err != nil {
		// A save failure after the commits would orphan the files.
		removeFiles(s.logger, s.files, committed)
		return nil, err
	}

	s.logger.Info("mountain images added",
		slog.Int("id", id),
		slog.Int("count", len(result.NewImageURLs)),
	)
	return &result, nil
}

// DeleteImage removes one image, identified by its stored URL, from a
// mountain. Admin only. The file itself is purged after the record no longer
// references it. Returns the remaining image list.
func (s *MountainService) DeleteImage(ctx context.Context, callerID string, id int, imageURL string) ([]string, error) {
	caller, err := resolveCaller(s.users, callerID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if imageURL == "" {
		return nil, apperror.ValidationFailed("imageUrl", "image URL is required")
	}

	var remaining []string
	_, err = s.mountains.UpdateByID(id, func(m *model.Mountain) error {
		idx := slices.Index(m.Images, imageURL)
		if idx < 0 {
			return apperror.NotFound("picture", imageURL)
		}
		m.Images = slices.Delete(m.Images, idx, idx+1)
		remaining = slices.Clone(m.Images)
		return nil
	})
	if err != nil {
		return nil, err
	}

	removeFiles(s.logger, s.files, []string{imageURL})

	s.logger.Info("mountain picture deleted",
		slog.Int("id", id),
		slog.String("imageUrl", imageURL),
	)
	return remaining, nil
}

// commitImages renames each staged file to {id}_{seq}{ext}, seq starting one
// past the current image count. If a commit fails partway, the files already
// committed in this call are removed so the request leaves nothing behind.
func (s *MountainService) commitImages(staged []*upload.File, id, existingCount int) ([]string, error) {
	urls := make([]string, 0, len(staged))
	for i, f := range staged {
		name := fmt.Sprintf("%d_%d%s", id, existingCount+i+1, f.Ext())
		url, err := f.Commit(s.files, mountainImageURL(name))
		if err != nil {
			removeFiles(s.logger, s.files, urls)
			return nil, fmt.Errorf("service/mountain: committing image %s: %w", name, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
