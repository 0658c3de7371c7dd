package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahmid/peakbook/internal/apperror"
	"github.com/tahmid/peakbook/internal/model"
)

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.auths.Signup(context.Background(), SignupInput{
		Username: "alice",
		Password: "hunter22",
		Nickname: "Alice",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, "Alice", result.User.Nickname)
	assert.Equal(t, model.RoleUser, result.User.Role)
	assert.Equal(t, []int{}, result.User.Wishlist)
	assert.NotEmpty(t, result.Token)

	stored, err := env.users.FindByUsername("alice")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)
}

func TestSignupNicknameDefaultsToUsername(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.auths.Signup(context.Background(), SignupInput{Username: "alice", Password: "hunter22"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Nickname)
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		input SignupInput
	}{
		{name: "empty username", input: SignupInput{Password: "hunter22"}},
		{name: "blank username", input: SignupInput{Username: "   ", Password: "hunter22"}},
		{name: "empty password", input: SignupInput{Username: "alice"}},
		{name: "overlong username", input: SignupInput{Username: strings.Repeat("a", MaxUsernameLength+1), Password: "hunter22"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auths.Signup(context.Background(), tt.input, nil)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice", "hunter22")

	_, err := env.auths.Signup(context.Background(), SignupInput{Username: "alice", Password: "other"}, nil)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestSignupWithProfilePicture(t *testing.T) {
	env := newTestEnv(t)
	pfp := env.stagePNG(t, "me.png")
	defer pfp.Discard()

	result, err := env.auths.Signup(context.Background(), SignupInput{Username: "alice", Password: "hunter22"}, pfp)
	require.NoError(t, err)

	require.NotNil(t, result.User.ProfileImagePath)
	path := *result.User.ProfileImagePath
	// The stored path is the fixed URL form, not a filesystem location.
	assert.True(t, strings.HasPrefix(path, "uploads/pfp/alice-"), "got %q", path)
	assert.FileExists(t, env.files.Resolve(path))
}

func TestSignupDuplicateCleansUpCommittedPicture(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice", "hunter22")

	pfp := env.stagePNG(t, "me.png")
	defer pfp.Discard()

	_, err := env.auths.Signup(context.Background(), SignupInput{Username: "alice", Password: "other"}, pfp)
	require.ErrorIs(t, err, apperror.ErrConflict)

	// Neither a committed nor a staged copy may survive the failed signup.
	for _, dir := range []string{env.pfpDir, env.stager.Dir()} {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "directory %s should be empty", dir)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice", "hunter22")

	result, err := env.auths.Login(context.Background(), "alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	assert.NotEmpty(t, result.Token)
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice", "hunter22")

	// Unknown user and wrong password are indistinguishable.
	_, unknownErr := env.auths.Login(context.Background(), "bob", "hunter22")
	_, wrongErr := env.auths.Login(context.Background(), "alice", "wrong")

	require.ErrorIs(t, unknownErr, apperror.ErrUnauthenticated)
	require.ErrorIs(t, wrongErr, apperror.ErrUnauthenticated)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auths.Login(context.Background(), "", "hunter22")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = env.auths.Login(context.Background(), "alice", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice", "hunter22")

	profile, err := env.auths.Me(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
}

func TestMeDeletedAccount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auths.Me(context.Background(), "gone")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}
