package session

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profilecli/internal/client/api"
	"profilecli/internal/client/models"
	"profilecli/internal/client/repositories/localstore"
	"profilecli/internal/common"
	"profilecli/internal/filex"
	"profilecli/internal/logging"

	_ "modernc.org/sqlite"
)

type fakeAPI struct {
	loginFn         func(ctx context.Context, email, password string) (*api.AuthResponse, error)
	signupFn        func(ctx context.Context, req *api.SignupRequest) (*api.AuthResponse, error)
	getProfileFn    func(ctx context.Context, token string) (*models.UserProfile, error)
	updateProfileFn func(ctx context.Context, token string, u *models.UserProfile) error
	updateImageFn   func(ctx context.Context, token string, f *filex.Attachment) (string, error)
	updateCVFn      func(ctx context.Context, token string, f *filex.Attachment) (string, error)

	getProfileCalls int
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeAPI) Signup(ctx context.Context, req *api.SignupRequest) (*api.AuthResponse, error) {
	return f.signupFn(ctx, req)
}

func (f *fakeAPI) GetProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	f.getProfileCalls++
	return f.getProfileFn(ctx, token)
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, token string, u *models.UserProfile) error {
	return f.updateProfileFn(ctx, token, u)
}

func (f *fakeAPI) UpdateImage(ctx context.Context, token string, file *filex.Attachment) (string, error) {
	return f.updateImageFn(ctx, token, file)
}

func (f *fakeAPI) UpdateCV(ctx context.Context, token string, file *filex.Attachment) (string, error) {
	return f.updateCVFn(ctx, token, file)
}

type navRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (n *navRecorder) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *navRecorder) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE storage (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return NewStore(localstore.NewSQLiteRepository(db))
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newManager(t *testing.T, a api.Client, nav Navigator, loginDelay, signupDelay time.Duration) (*Manager, *Store) {
	t.Helper()
	store := setupStore(t)
	m := NewManager(a, store, nav, testLogger(), loginDelay, signupDelay)
	t.Cleanup(m.Close)
	return m, store
}

func TestLogin_PersistsSessionAndSchedulesNavigation(t *testing.T) {
	a := &fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*api.AuthResponse, error) {
			return &api.AuthResponse{Token: "tok-1", User: &models.UserProfile{Email: email}}, nil
		},
	}
	nav := &navRecorder{}
	m, store := newManager(t, a, nav, 10*time.Millisecond, time.Second)

	sess, err := m.Login(context.Background(), "ada@example.com", "abc123!")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored.Token)
	assert.Equal(t, "ada@example.com", stored.User.Email)

	require.Eventually(t, func() bool {
		routes := nav.all()
		return len(routes) == 1 && routes[0] == RouteProfile
	}, time.Second, 5*time.Millisecond)
}

func TestLogin_FailureLeavesSessionUnchanged(t *testing.T) {
	a := &fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*api.AuthResponse, error) {
			return nil, &api.ServerError{Message: "Invalid email or password"}
		},
	}
	nav := &navRecorder{}
	m, store := newManager(t, a, nav, 10*time.Millisecond, time.Second)

	_, err := m.Login(context.Background(), "ada@example.com", "bad")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSession)

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, nav.all())
}

func TestSignup_SchedulesLoginRedirect(t *testing.T) {
	a := &fakeAPI{
		signupFn: func(ctx context.Context, req *api.SignupRequest) (*api.AuthResponse, error) {
			return &api.AuthResponse{Token: "tok-s", User: &req.Profile}, nil
		},
	}
	nav := &navRecorder{}
	m, store := newManager(t, a, nav, time.Second, 10*time.Millisecond)

	_, err := m.Signup(context.Background(), &api.SignupRequest{Profile: models.UserProfile{Email: "a@b.co"}})
	require.NoError(t, err)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-s", stored.Token)

	require.Eventually(t, func() bool {
		routes := nav.all()
		return len(routes) == 1 && routes[0] == RouteLogin
	}, time.Second, 5*time.Millisecond)
}

func TestLoad_NoSession(t *testing.T) {
	m, _ := newManager(t, &fakeAPI{}, &navRecorder{}, 0, 0)
	_, err := m.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSession)
}

func TestLoad_ExpiredJWTClearsSession(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	token, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)

	m, store := newManager(t, &fakeAPI{}, &navRecorder{}, 0, 0)
	require.NoError(t, store.Save(context.Background(), token, &models.UserProfile{Email: "a@b.co"}))

	_, err = m.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSession)

	stored, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestLoad_OpaqueTokenIsAccepted(t *testing.T) {
	m, store := newManager(t, &fakeAPI{}, &navRecorder{}, 0, 0)
	require.NoError(t, store.Save(context.Background(), "opaque-token", nil))

	sess, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", sess.Token)
}

func TestFetchProfile_ErrorTearsDownSession(t *testing.T) {
	a := &fakeAPI{
		getProfileFn: func(ctx context.Context, token string) (*models.UserProfile, error) {
			return nil, common.ErrUnauthorized
		},
	}
	nav := &navRecorder{}
	m, store := newManager(t, a, nav, 0, 0)
	require.NoError(t, store.Save(context.Background(), "tok", &models.UserProfile{Email: "a@b.co"}))

	_, err := m.FetchProfile(context.Background())
	assert.ErrorIs(t, err, common.ErrSessionInvalid)

	// both slots cleared, redirect signalled
	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSession)
	assert.Equal(t, []string{RouteLogin}, nav.all())
}

func TestFetchProfile_SuccessReplacesSnapshot(t *testing.T) {
	a := &fakeAPI{
		getProfileFn: func(ctx context.Context, token string) (*models.UserProfile, error) {
			return &models.UserProfile{Email: "a@b.co", ProfilePicture: "uploads/canonical.png"}, nil
		},
	}
	m, store := newManager(t, a, &navRecorder{}, 0, 0)
	require.NoError(t, store.Save(context.Background(), "tok", &models.UserProfile{Email: "a@b.co"}))

	u, err := m.FetchProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "uploads/canonical.png", u.ProfilePicture)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "uploads/canonical.png", stored.User.ProfilePicture)
}

func TestFetchProfile_StaleResponseDiscarded(t *testing.T) {
	var store *Store
	a := &fakeAPI{
		getProfileFn: func(ctx context.Context, token string) (*models.UserProfile, error) {
			// the session changes while the request is in flight
			require.NoError(t, store.Save(ctx, "other-token", &models.UserProfile{Email: "new@b.co"}))
			return &models.UserProfile{Email: "a@b.co", FirstName: "Stale"}, nil
		},
	}
	var m *Manager
	m, store = newManager(t, a, &navRecorder{}, 0, 0)
	require.NoError(t, store.Save(context.Background(), "tok", &models.UserProfile{Email: "a@b.co"}))

	_, err := m.FetchProfile(context.Background())
	assert.ErrorIs(t, err, common.ErrSessionInvalid)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new@b.co", stored.User.Email, "stale response must not overwrite the newer snapshot")
}

func TestLogout_CancelsPendingNavigation(t *testing.T) {
	a := &fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*api.AuthResponse, error) {
			return &api.AuthResponse{Token: "tok", User: &models.UserProfile{}}, nil
		},
	}
	nav := &navRecorder{}
	m, store := newManager(t, a, nav, 50*time.Millisecond, time.Second)

	_, err := m.Login(context.Background(), "a@b.co", "x")
	require.NoError(t, err)

	require.NoError(t, m.Logout(context.Background()))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{RouteLogin}, nav.all(), "deferred profile navigation must not fire after logout")

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSession)
}

func TestUpdateProfile_ServerErrorKeepsSession(t *testing.T) {
	a := &fakeAPI{
		updateProfileFn: func(ctx context.Context, token string, u *models.UserProfile) error {
			return &api.ServerError{Message: "Failed to update profile"}
		},
	}
	m, store := newManager(t, a, &navRecorder{}, 0, 0)
	require.NoError(t, store.Save(context.Background(), "tok", &models.UserProfile{Email: "a@b.co"}))

	err := m.UpdateProfile(context.Background(), &models.UserProfile{Email: "a@b.co", FirstName: "X"})
	require.Error(t, err)
	var se *api.ServerError
	assert.ErrorAs(t, err, &se)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", stored.Token)
}

func TestUpdateProfile_UnauthorizedTearsDown(t *testing.T) {
	a := &fakeAPI{
		updateProfileFn: func(ctx context.Context, token string, u *models.UserProfile) error {
			return common.ErrUnauthorized
		},
	}
	nav := &navRecorder{}
	m, store := newManager(t, a, nav, 0, 0)
	require.NoError(t, store.Save(context.Background(), "tok", &models.UserProfile{}))

	err := m.UpdateProfile(context.Background(), &models.UserProfile{})
	assert.ErrorIs(t, err, common.ErrSessionInvalid)
	assert.Equal(t, []string{RouteLogin}, nav.all())
}

func TestUpdateAvatar_UploadsThenRefetches(t *testing.T) {
	a := &fakeAPI{
		updateImageFn: func(ctx context.Context, token string, f *filex.Attachment) (string, error) {
			return "uploads/new.png", nil
		},
		getProfileFn: func(ctx context.Context, token string) (*models.UserProfile, error) {
			return &models.UserProfile{Email: "a@b.co", ProfilePicture: "uploads/new.png"}, nil
		},
	}
	m, store := newManager(t, a, &navRecorder{}, 0, 0)
	require.NoError(t, store.Save(context.Background(), "tok", &models.UserProfile{Email: "a@b.co"}))

	ref, refreshed, err := m.UpdateAvatar(context.Background(), &filex.Attachment{Name: "new.png"})
	require.NoError(t, err)
	assert.Equal(t, "uploads/new.png", ref)
	require.NotNil(t, refreshed)
	assert.Equal(t, "uploads/new.png", refreshed.ProfilePicture)
	assert.Equal(t, 1, a.getProfileCalls, "upload success must trigger a full profile re-fetch")
}

func TestUpdateCV_UnavailableIsNotTeardown(t *testing.T) {
	a := &fakeAPI{
		updateCVFn: func(ctx context.Context, token string, f *filex.Attachment) (string, error) {
			return "", errors.New("network down")
		},
	}
	nav := &navRecorder{}
	m, store := newManager(t, a, nav, 0, 0)
	require.NoError(t, store.Save(context.Background(), "tok", &models.UserProfile{}))

	_, _, err := m.UpdateCV(context.Background(), &filex.Attachment{Name: "cv.pdf"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrSessionInvalid)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", stored.Token)
	assert.Empty(t, nav.all())
}
