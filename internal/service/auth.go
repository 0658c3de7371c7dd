package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/auth"
	"github.com/tahmid/peakbook/internal/model"
	"github.com/tahmid/peakbook/internal/store"
	"github.com/tahmid/peakbook/internal/upload"
)

// MaxUsernameLength bounds usernames; they end up in file names and URLs.
const MaxUsernameLength = 50

// AuthService handles signup, login, and caller-profile lookup.
type AuthService struct {
	users     *store.Users
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	files     *upload.Root
	logger    *slog.Logger
}

// NewAuthService creates an AuthService. files is where committed profile
// pictures land.
func NewAuthService(
	users *store.Users,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	files *upload.Root,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		files:     files,
		logger:    logger,
	}
}

// AuthResult bundles the user projection and the issued bearer token.
type AuthResult struct {
	User  model.Profile `json:"user"`
	Token string        `json:"token"`
}

// SignupInput is the signup form minus the optional picture file.
type SignupInput struct {
	Username string
	Password string
	Nickname string
}

// Signup registers a new account and issues a token.
//
// The optional staged profile picture is committed only after validation
// passes, and removed again if the insert then fails (duplicate username) —
// no request leaves a staged or orphaned file behind. The caller still owns
// the deferred Discard on pfp, which is a no-op once committed.
func (s *AuthService) Signup(ctx context.Context, in SignupInput, pfp *upload.File) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if in.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" {
		nickname = username
	}

	user := model.User{
		ID:                store.NewUserID(),
		Username:          username,
		PasswordHash:      hash,
		Nickname:          nickname,
		Role:              model.RoleUser,
		Wishlist:          []int{},
		Summited:          []int{},
		UploadedMountains: []int{},
		CreatedAt:         time.Now().UTC(),
	}

	var committedPfp string
	if pfp != nil {
		name := fmt.Sprintf("%s-%s%s", username, xid.New().String(), pfp.Ext())
		committedPfp, err = pfp.Commit(s.files, pfpURL(name))
		if err != nil {
			return nil, fmt.Errorf("service/auth: committing profile picture: %w", err)
		}
		user.ProfileImagePath = &committedPfp
	}

	if err := s.users.Insert(user); err != nil {
		if committedPfp != "" {
			removeFiles(s.logger, s.files, []string{committedPfp})
		}
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user.Profile(), Token: token}, nil
}

// Login verifies credentials and issues a token. An unknown username and a
// wrong password produce the same Unauthenticated error, so login responses
// don't reveal which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "username and password are required")
	}

	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated("invalid credentials")
		}
		return nil, err
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthenticated("invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user.Profile(), Token: token}, nil
}

// Me returns the caller's own profile, re-read from the store.
func (s *AuthService) Me(ctx context.Context, callerID string) (*model.Profile, error) {
	caller, err := resolveCaller(s.users, callerID)
	if err != nil {
		return nil, err
	}
	p := caller.Profile()
	return &p, nil
}
