package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/notify"
)

type fakeAuthenticator struct {
	token    string
	loginErr error
	meErr    error
	meCalls  []string
}

func (f *fakeAuthenticator) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeAuthenticator) Me(ctx context.Context, cred auth.Credential) (Profile, error) {
	f.meCalls = append(f.meCalls, cred.Token)
	if f.meErr != nil {
		return Profile{}, f.meErr
	}
	return Profile{UserID: 7, Email: "ana@example.com", Role: "ADMIN"}, nil
}

func testToken(t *testing.T, exp time.Time) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 7, "exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestLoginStoresTokenAndProfile(t *testing.T) {
	t.Parallel()

	token := testToken(t, time.Now().Add(time.Hour))
	api := &fakeAuthenticator{token: token}
	store := NewMemoryStore("")
	manager := NewManager(api, store, auth.NewJWTValidator(""), nil, nil)

	profile, err := manager.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if profile.UserID != 7 || !manager.Authenticated() {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if manager.Credential().Token != token {
		t.Fatalf("credential not set")
	}
	if stored, _ := store.Load(context.Background()); stored != token {
		t.Fatalf("token not persisted")
	}
	if len(api.meCalls) != 1 || api.meCalls[0] != token {
		t.Fatalf("expected /auth/me with new token, got %v", api.meCalls)
	}
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	t.Parallel()

	api := &fakeAuthenticator{loginErr: errors.New("bad credentials")}
	manager := NewManager(api, nil, nil, nil, nil)

	if _, err := manager.Login(context.Background(), "ana@example.com", "nope"); err == nil {
		t.Fatalf("expected error")
	}
	if manager.Authenticated() || manager.Credential().Present() {
		t.Fatalf("expected no session")
	}
	if _, err := manager.Login(context.Background(), "", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestRestore(t *testing.T) {
	t.Parallel()

	valid := testToken(t, time.Now().Add(time.Hour))
	expired := testToken(t, time.Now().Add(-time.Hour))

	cases := []struct {
		name      string
		stored    string
		meErr     error
		restored  bool
		keepToken bool
	}{
		{name: "empty store", stored: ""},
		{name: "valid token", stored: valid, restored: true, keepToken: true},
		{name: "expired token", stored: expired},
		{name: "rejected by backend", stored: valid, meErr: errors.New("401")},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			store := NewMemoryStore(tc.stored)
			manager := NewManager(&fakeAuthenticator{meErr: tc.meErr}, store, auth.NewJWTValidator(""), nil, nil)

			_, ok, err := manager.Restore(context.Background())
			if err != nil {
				t.Fatalf("restore: %v", err)
			}
			if ok != tc.restored {
				t.Fatalf("expected restored=%v, got %v", tc.restored, ok)
			}
			_, loadErr := store.Load(context.Background())
			if tc.keepToken != (loadErr == nil) {
				t.Fatalf("expected token kept=%v, load err %v", tc.keepToken, loadErr)
			}
		})
	}
}

func TestHandleUnauthorized(t *testing.T) {
	t.Parallel()

	token := testToken(t, time.Now().Add(time.Hour))
	recorder := &notify.Recorder{}
	store := NewMemoryStore("")
	manager := NewManager(&fakeAuthenticator{token: token}, store, nil, recorder, nil)
	ended := 0
	manager.OnEnd(func() { ended++ })

	manager.HandleUnauthorized("/clients")
	if len(recorder.Paths()) != 0 {
		t.Fatalf("no token held: expected no navigation")
	}

	if _, err := manager.Login(context.Background(), "ana@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	manager.HandleUnauthorized("/auth/login")
	if !manager.Authenticated() {
		t.Fatalf("login request must not invalidate the session")
	}

	manager.HandleUnauthorized("/appointments?page=1")
	if manager.Authenticated() || manager.Credential().Present() {
		t.Fatalf("expected session invalidated")
	}
	if paths := recorder.Paths(); len(paths) != 1 || paths[0] != LoginRoute {
		t.Fatalf("expected navigation to login, got %v", paths)
	}
	if ended != 1 {
		t.Fatalf("expected end hooks run once, got %d", ended)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected store cleared, got %v", err)
	}
}

func TestLogoutNavigatesToLogin(t *testing.T) {
	t.Parallel()

	recorder := &notify.Recorder{}
	manager := NewManager(&fakeAuthenticator{token: "opaque"}, nil, nil, recorder, nil)
	ended := 0
	manager.OnEnd(func() { ended++ })
	if _, err := manager.Login(context.Background(), "ana@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := manager.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if manager.Authenticated() || ended != 1 {
		t.Fatalf("expected logged out with end hooks run, ended=%d", ended)
	}
	if paths := recorder.Paths(); len(paths) != 1 || paths[0] != LoginRoute {
		t.Fatalf("unexpected navigation %v", paths)
	}
}

func TestBoltStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.Load(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if err := store.Save(ctx, "abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if token, err := store.Load(ctx); err != nil || token != "abc" {
		t.Fatalf("expected abc, got %q %v", token, err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken after clear, got %v", err)
	}
}
