// Package session owns the authenticated session: the persisted token and
// user snapshot, every authenticated request, the logout/teardown
// transition, and the deferred navigation after login/signup.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"profilecli/internal/client/api"
	"profilecli/internal/client/models"
	"profilecli/internal/common"
	"profilecli/internal/filex"
	"profilecli/internal/logging"
)

// Manager mediates all authenticated traffic. Any authorization failure on
// an authenticated request escalates to a full teardown: persisted state is
// cleared and the navigator is pointed at the login route. It is never
// surfaced as just a message.
type Manager struct {
	api   api.Client
	store *Store
	nav   Navigator
	log   logging.Logger

	loginDelay  time.Duration
	signupDelay time.Duration

	// navTimer is the pending deferred navigation, cancelled on
	// logout/Close so a stale redirect can't fire after the session changed.
	mu       sync.Mutex
	navTimer *time.Timer
}

func NewManager(apiClient api.Client, store *Store, nav Navigator, log logging.Logger, loginDelay, signupDelay time.Duration) *Manager {
	return &Manager{
		api:         apiClient,
		store:       store,
		nav:         nav,
		log:         log.With("component", "session"),
		loginDelay:  loginDelay,
		signupDelay: signupDelay,
	}
}

// Store exposes the underlying session store, used by the edit controller
// to read the cached snapshot.
func (m *Manager) Store() *Store { return m.store }

// Login authenticates and, on success, persists the session and schedules
// navigation to the profile view after the configured delay (so the success
// message can render first). On failure the session state is unchanged and
// the returned error carries the server's text verbatim.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.log.Warn(ctx, "login failed", "err", err)
		return nil, err
	}

	sess := &Session{Token: resp.Token, User: resp.User}
	if err := m.store.Save(ctx, sess.Token, sess.User); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	m.log.Info(ctx, "login successful", "email", email)
	m.scheduleNavigate(RouteProfile, m.loginDelay)
	return sess, nil
}

// Signup creates the account. All profile fields except the password
// confirmation are forwarded, files as binary attachments. Success schedules
// navigation to the login route after the (longer) signup delay; when the
// server already issued a token it is persisted as well.
func (m *Manager) Signup(ctx context.Context, req *api.SignupRequest) (*api.AuthResponse, error) {
	resp, err := m.api.Signup(ctx, req)
	if err != nil {
		m.log.Warn(ctx, "signup failed", "err", err)
		return nil, err
	}

	if resp.Token != "" {
		if err := m.store.Save(ctx, resp.Token, resp.User); err != nil {
			return nil, fmt.Errorf("persisting session: %w", err)
		}
	}

	m.log.Info(ctx, "signup successful", "email", req.Profile.Email)
	m.scheduleNavigate(RouteLogin, m.signupDelay)
	return resp, nil
}

// Load reads the persisted session. A missing token, or a stored JWT whose
// expiry has already passed, yields common.ErrNoSession; in the latter case
// the stale slots are cleared first. Callers redirect to login on
// ErrNoSession without attempting a profile fetch.
func (m *Manager) Load(ctx context.Context) (*Session, error) {
	sess, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if tokenExpired(sess.Token) {
		m.log.Info(ctx, "stored token expired, clearing session")
		_ = m.store.Clear(ctx)
		return nil, common.ErrNoSession
	}
	return sess, nil
}

// tokenExpired reports whether token is a JWT with an exp claim in the
// past. Tokens that don't parse as JWTs are treated as opaque and assumed
// live; the server remains the authority either way.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// FetchProfile performs the authenticated profile fetch. Any error,
// including an explicit error payload, is treated as session-invalid: the
// persisted state is cleared and the caller gets common.ErrSessionInvalid
// together with a login redirect. A stale profile view is never shown.
func (m *Manager) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	sess, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}

	u, err := m.api.GetProfile(ctx, sess.Token)
	if err != nil {
		m.log.Warn(ctx, "profile fetch failed, tearing down session", "err", err)
		m.teardown(ctx)
		return nil, fmt.Errorf("%w: %v", common.ErrSessionInvalid, err)
	}

	if !m.tokenStillCurrent(ctx, sess.Token) {
		// the session changed while the request was in flight
		return nil, common.ErrSessionInvalid
	}
	if err := m.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile sends the full edited record. Authorization failures tear
// the session down; other server errors are returned for display with the
// session unchanged. On success the cached snapshot is replaced.
func (m *Manager) UpdateProfile(ctx context.Context, u *models.UserProfile) error {
	sess, err := m.Load(ctx)
	if err != nil {
		return err
	}

	if err := m.api.UpdateProfile(ctx, sess.Token, u); err != nil {
		if isUnauthorized(err) {
			m.teardown(ctx)
			return fmt.Errorf("%w: %v", common.ErrSessionInvalid, err)
		}
		return err
	}

	if !m.tokenStillCurrent(ctx, sess.Token) {
		return common.ErrSessionInvalid
	}
	return m.store.SaveUser(ctx, u)
}

// UpdateAvatar uploads a replacement profile picture and then re-fetches
// the profile so the snapshot reflects server-computed fields (e.g. the
// canonical stored path), not just the immediate response. Returns the new
// file reference and the refreshed snapshot.
func (m *Manager) UpdateAvatar(ctx context.Context, file *filex.Attachment) (string, *models.UserProfile, error) {
	return m.uploadAndRefresh(ctx, file, m.api.UpdateImage)
}

// UpdateCV uploads a replacement CV document; behavior mirrors UpdateAvatar.
func (m *Manager) UpdateCV(ctx context.Context, file *filex.Attachment) (string, *models.UserProfile, error) {
	return m.uploadAndRefresh(ctx, file, m.api.UpdateCV)
}

func (m *Manager) uploadAndRefresh(
	ctx context.Context,
	file *filex.Attachment,
	upload func(ctx context.Context, token string, file *filex.Attachment) (string, error),
) (string, *models.UserProfile, error) {
	sess, err := m.Load(ctx)
	if err != nil {
		return "", nil, err
	}

	ref, err := upload(ctx, sess.Token, file)
	if err != nil {
		if isUnauthorized(err) {
			m.teardown(ctx)
			return "", nil, fmt.Errorf("%w: %v", common.ErrSessionInvalid, err)
		}
		return "", nil, err
	}

	refreshed, err := m.FetchProfile(ctx)
	if err != nil {
		return "", nil, err
	}
	return ref, refreshed, nil
}

// Logout clears the persisted session and navigates to login. Pending
// deferred navigation is cancelled first; no network call is made.
func (m *Manager) Logout(ctx context.Context) error {
	m.cancelNavigate()
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.log.Info(ctx, "logged out")
	m.nav.Navigate(RouteLogin)
	return nil
}

// Close cancels any pending deferred navigation.
func (m *Manager) Close() {
	m.cancelNavigate()
}

// teardown clears persisted state and signals the login redirect. Used for
// every authorization failure.
func (m *Manager) teardown(ctx context.Context) {
	m.cancelNavigate()
	_ = m.store.Clear(ctx)
	m.nav.Navigate(RouteLogin)
}

// tokenStillCurrent is the applicability check for in-flight responses: a
// response is applied only if the token it was issued under is still the
// stored one.
func (m *Manager) tokenStillCurrent(ctx context.Context, token string) bool {
	current, err := m.store.Token(ctx)
	return err == nil && current == token
}

func (m *Manager) scheduleNavigate(route string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.navTimer != nil {
		m.navTimer.Stop()
	}
	m.navTimer = time.AfterFunc(delay, func() {
		m.nav.Navigate(route)
	})
}

func (m *Manager) cancelNavigate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.navTimer != nil {
		m.navTimer.Stop()
		m.navTimer = nil
	}
}

func isUnauthorized(err error) bool {
	return errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrTokenExpired)
}
