package store

import (
	"strconv"

	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/model"
)

// Mountains is the mountain record store, keyed by integer id. Same
// whole-collection shape as Users. The store never touches image files
// itself; Delete hands the paths back for the caller to purge.
type Mountains struct {
	col *Collection[model.Mountain]
}

// NewMountains creates a mountain store backed by the given file path.
func NewMountains(path string) *Mountains {
	return &Mountains{col: NewCollection[model.Mountain](path)}
}

// All returns every mountain record.
func (s *Mountains) All() ([]model.Mountain, error) {
	return s.col.Load()
}

// FindByID returns the mountain with the given id.
// Returns apperror.ErrNotFound if no such mountain exists.
func (s *Mountains) FindByID(id int) (*model.Mountain, error) {
	mountains, err := s.col.Load()
	if err != nil {
		return nil, err
	}
	for i := range mountains {
		if mountains[i].ID == id {
			m := mountains[i]
			return &m, nil
		}
	}
	return nil, apperror.NotFound("mountain", strconv.Itoa(id))
}

// Create assigns the next id and appends the record, all inside the critical
// section so concurrent creates can never observe the same max id.
//
// commit is called with the assigned id before anything is persisted and must
// return the final image paths (this is where the upload pipeline renames
// staged files into place). An error from commit aborts the create without
// writing. A create with zero images is rejected.
func (s *Mountains) Create(m model.Mountain, commit func(id int) ([]string, error)) (*model.Mountain, error) {
	var created model.Mountain
	_, err := s.col.Update(func(mountains []model.Mountain) ([]model.Mountain, error) {
		m.ID = NextMountainID(mountains)

		images, err := commit(m.ID)
		if err != nil {
			return nil, err
		}
		if len(images) == 0 {
			return nil, apperror.ValidationFailed("images", "at least one image is required")
		}

		m.Images = images
		created = m
		return append(mountains, m), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateByID applies mutate to the mountain with the given id and persists
// the whole collection. The record passed to mutate is freshly read from disk
// inside the critical section. Returns the mutated record.
func (s *Mountains) UpdateByID(id int, mutate func(*model.Mountain) error) (*model.Mountain, error) {
	var updated model.Mountain
	_, err := s.col.Update(func(mountains []model.Mountain) ([]model.Mountain, error) {
		for i := range mountains {
			if mountains[i].ID == id {
				if err := mutate(&mountains[i]); err != nil {
					return nil, err
				}
				updated = mountains[i]
				return mountains, nil
			}
		}
		return nil, apperror.NotFound("mountain", strconv.Itoa(id))
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the mountain and returns the image paths the caller must
// now purge from file storage. Returns apperror.ErrNotFound if the id is
// absent.
func (s *Mountains) Delete(id int) ([]string, error) {
	var images []string
	_, err := s.col.Update(func(mountains []model.Mountain) ([]model.Mountain, error) {
		for i := range mountains {
			if mountains[i].ID == id {
				images = mountains[i].Images
				return append(mountains[:i], mountains[i+1:]...), nil
			}
		}
		return nil, apperror.NotFound("mountain", strconv.Itoa(id))
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
