package store

import (
	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/model"
)

// Users is the user record store. All operations are whole-collection
// load/mutate/save over the backing JSON file.
type Users struct {
	col *Collection[model.User]
}

// NewUsers creates a user store backed by the given file path.
func NewUsers(path string) *Users {
	return &Users{col: NewCollection[model.User](path)}
}

// All returns every user record.
func (s *Users) All() ([]model.User, error) {
	return s.col.Load()
}

// FindByUsername returns the user with the given username (case-sensitive).
// Returns apperror.ErrNotFound if no such user exists.
func (s *Users) FindByUsername(username string) (*model.User, error) {
	users, err := s.col.Load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			u := users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

// FindByID returns the user with the given id.
// Returns apperror.ErrNotFound if no such user exists.
func (s *Users) FindByID(id string) (*model.User, error) {
	users, err := s.col.Load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

// Insert appends a new user record. Fails with apperror.ErrConflict if the
// username already exists; the check and the append run under the same lock,
// so two concurrent signups for one username cannot both succeed.
func (s *Users) Insert(user model.User) error {
	_, err := s.col.Update(func(users []model.User) ([]model.User, error) {
		for i := range users {
			if users[i].Username == user.Username {
				return nil, apperror.Conflict("user", user.Username)
			}
		}
		return append(users, user), nil
	})
	return err
}

// UpdateByID applies mutate to the user with the given id and persists the
// whole collection. The record passed to mutate is freshly read from disk
// inside the critical section — callers must not assume any earlier snapshot
// is still current. Returns the mutated record.
func (s *Users) UpdateByID(id string, mutate func(*model.User) error) (*model.User, error) {
	return s.update(func(u *model.User) bool { return u.ID == id }, mutate, id)
}

// UpdateByUsername is UpdateByID keyed by username.
func (s *Users) UpdateByUsername(username string, mutate func(*model.User) error) (*model.User, error) {
	return s.update(func(u *model.User) bool { return u.Username == username }, mutate, username)
}

func (s *Users) update(match func(*model.User) bool, mutate func(*model.User) error, ref string) (*model.User, error) {
	var updated model.User
	_, err := s.col.Update(func(users []model.User) ([]model.User, error) {
		for i := range users {
			if match(&users[i]) {
				if err := mutate(&users[i]); err != nil {
					return nil, err
				}
				updated = users[i]
				return users, nil
			}
		}
		return nil, apperror.NotFound("user", ref)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
