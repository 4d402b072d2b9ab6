package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/notify"
)

const (
	LoginRoute = "/login"
	loginPath  = "/auth/login"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrMissingCredentials = errors.New("email and password are required")
)

// Profile is the operator identity returned by /auth/me.
type Profile struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Authenticator is the backend side of the session lifecycle.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, cred auth.Credential) (Profile, error)
}

// Manager is the single owner of the operator token. Every outgoing request reads the
// credential from it and every 401 is reported back to it.
type Manager struct {
	mu        sync.RWMutex
	token     string
	profile   *Profile
	api       Authenticator
	store     Store
	validator auth.TokenValidator
	navigator notify.Navigator
	logger    *slog.Logger
	onEnd     []func()
}

func NewManager(api Authenticator, store Store, validator auth.TokenValidator, navigator notify.Navigator, logger *slog.Logger) *Manager {
	if store == nil {
		store = NewMemoryStore("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:       api,
		store:     store,
		validator: validator,
		navigator: navigator,
		logger:    logger.With(slog.String("component", "session")),
	}
}

// Credential implements auth.CredentialSource.
func (m *Manager) Credential() auth.Credential {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return auth.Credential{Token: m.token}
}

func (m *Manager) Profile() (Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile == nil {
		return Profile{}, false
	}
	return *m.profile, true
}

func (m *Manager) Authenticated() bool {
	_, ok := m.Profile()
	return ok
}

// Login exchanges credentials for a token, resolves the profile and persists the token.
// A failure leaves no session behind.
func (m *Manager) Login(ctx context.Context, email, password string) (Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Profile{}, ErrMissingCredentials
	}
	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		return Profile{}, fmt.Errorf("login: %w", err)
	}
	if err := m.checkToken(token); err != nil {
		return Profile{}, fmt.Errorf("login token: %w", err)
	}
	profile, err := m.api.Me(ctx, auth.Credential{Token: token})
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if err := m.store.Save(ctx, token); err != nil {
		m.logger.Warn("persist token failed", slog.Any("error", err))
	}

	m.mu.Lock()
	m.token = token
	m.profile = &profile
	m.mu.Unlock()

	m.logger.Info("operator logged in", slog.Int64("userId", profile.UserID), slog.String("role", profile.Role))
	return profile, nil
}

// Restore resumes a persisted session. A token that is expired or rejected by /auth/me
// is dropped from the store.
func (m *Manager) Restore(ctx context.Context) (Profile, bool, error) {
	token, err := m.store.Load(ctx)
	if errors.Is(err, ErrNoToken) {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, fmt.Errorf("load token: %w", err)
	}

	if err := m.checkToken(token); err != nil {
		m.logger.Info("stored token discarded", slog.Any("error", err))
		m.clearStore(ctx)
		return Profile{}, false, nil
	}

	profile, err := m.api.Me(ctx, auth.Credential{Token: token})
	if err != nil {
		m.logger.Info("stored token rejected", slog.Any("error", err))
		m.clearStore(ctx)
		return Profile{}, false, nil
	}

	m.mu.Lock()
	m.token = token
	m.profile = &profile
	m.mu.Unlock()
	return profile, true, nil
}

// Logout drops the session and sends the operator to the login route.
func (m *Manager) Logout(ctx context.Context) error {
	m.reset()
	m.ended()
	err := m.store.Clear(ctx)
	m.navigate()
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Invalidate drops the session after the backend refused the credential.
func (m *Manager) Invalidate(reason string) {
	m.logger.Warn("session invalidated", slog.String("reason", reason))
	m.reset()
	m.ended()
	m.clearStore(context.Background())
	m.navigate()
}

// HandleUnauthorized is the hook for 401 responses. The login request itself is exempt,
// as is any 401 received while no token is held.
func (m *Manager) HandleUnauthorized(path string) {
	if strings.Contains(path, loginPath) {
		return
	}
	m.mu.RLock()
	held := m.token != ""
	m.mu.RUnlock()
	if !held {
		return
	}
	m.Invalidate("unauthorized response from " + path)
}

func (m *Manager) checkToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return auth.ErrMissingToken
	}
	if m.validator == nil {
		return nil
	}
	_, err := m.validator.Validate(token)
	return err
}

// OnEnd registers fn to run whenever the session ends by logout or invalidation.
func (m *Manager) OnEnd(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = append(m.onEnd, fn)
}

func (m *Manager) ended() {
	m.mu.RLock()
	hooks := append([]func(){}, m.onEnd...)
	m.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

func (m *Manager) reset() {
	m.mu.Lock()
	m.token = ""
	m.profile = nil
	m.mu.Unlock()
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("clear token failed", slog.Any("error", err))
	}
}

func (m *Manager) navigate() {
	if m.navigator != nil {
		m.navigator.Navigate(LoginRoute)
	}
}

var _ auth.CredentialSource = (*Manager)(nil)
