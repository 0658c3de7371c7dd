package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tahmid/peakbook/internal/auth"
	"github.com/tahmid/peakbook/internal/model"
	"github.com/tahmid/peakbook/internal/store"
	"github.com/tahmid/peakbook/internal/upload"
)

// testEnv wires real stores and services over a temp directory. No mocks;
// the file-backed stores are fast enough to use directly.
type testEnv struct {
	users     *store.Users
	mountains *store.Mountains
	stager    *upload.Stager
	files     *upload.Root
	pfpDir    string
	auths     *AuthService
	userSvc   *UserService
	mountSvc  *MountainService
	ranks     *RankService
	search    *SearchService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()

	users := store.NewUsers(filepath.Join(root, "users.json"))
	mountains := store.NewMountains(filepath.Join(root, "mountains.json"))
	stager := upload.NewStager(filepath.Join(root, "uploads", "staging"))
	files := upload.NewRoot(filepath.Join(root, "uploads"))

	tokens, err := auth.NewTokenService("test-secret-at-least-sixteen-chars", 0)
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)
	logger := discardLogger()

	return &testEnv{
		users:     users,
		mountains: mountains,
		stager:    stager,
		files:     files,
		pfpDir:    filepath.Join(root, "uploads", "pfp"),
		auths:     NewAuthService(users, tokens, passwords, files, logger),
		userSvc:   NewUserService(users, mountains, files, logger),
		mountSvc:  NewMountainService(mountains, users, files, logger),
		ranks:     NewRankService(users, mountains, logger),
		search:    NewSearchService(users, mountains, logger),
	}
}

// signup registers a user and returns the stored record.
func (e *testEnv) signup(t *testing.T, username, password string) *model.User {
	t.Helper()
	_, err := e.auths.Signup(context.Background(), SignupInput{Username: username, Password: password}, nil)
	require.NoError(t, err)
	u, err := e.users.FindByUsername(username)
	require.NoError(t, err)
	return u
}

// signupAdmin registers a user and promotes it to admin.
func (e *testEnv) signupAdmin(t *testing.T, username string) *model.User {
	t.Helper()
	u := e.signup(t, username, "hunter22")
	promoted, err := e.users.UpdateByID(u.ID, func(u *model.User) error {
		u.Role = model.RoleAdmin
		return nil
	})
	require.NoError(t, err)
	return promoted
}

// stagePNG stages a valid 1x1 PNG upload.
func (e *testEnv) stagePNG(t *testing.T, filename string) *upload.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	f, err := e.stager.Stage(&buf, filename, 1<<20)
	require.NoError(t, err)
	return f
}

// createMountain creates a mountain with one image on behalf of callerID.
func (e *testEnv) createMountain(t *testing.T, callerID, name string, height int) *model.Mountain {
	t.Helper()
	staged := []*upload.File{e.stagePNG(t, name+".png")}
	m, err := e.mountSvc.Create(context.Background(), callerID, CreateMountainInput{
		Name:    name,
		Country: "Switzerland",
		Height:  height,
	}, staged)
	require.NoError(t, err)
	return m
}
