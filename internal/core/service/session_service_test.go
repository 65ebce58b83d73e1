package service

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

type stubAuthAPI struct {
	loginFn       func(ctx context.Context, form domain.LoginForm) (domain.Token, error)
	currentUserFn func(ctx context.Context) (domain.User, error)
}

func (s *stubAuthAPI) Login(ctx context.Context, form domain.LoginForm) (domain.Token, error) {
	return s.loginFn(ctx, form)
}

func (s *stubAuthAPI) CurrentUser(ctx context.Context) (domain.User, error) {
	return s.currentUserFn(ctx)
}

type stubTokenHolder struct {
	token string
}

func (h *stubTokenHolder) SetToken(token string) { h.token = token }
func (h *stubTokenHolder) Clear()                { h.token = "" }

type stubCredentialStore struct {
	saved   *domain.RememberedCredentials
	cleared bool
}

func (s *stubCredentialStore) Load(context.Context) (domain.RememberedCredentials, error) {
	if s.saved == nil {
		return domain.RememberedCredentials{}, nil
	}
	return *s.saved, nil
}

func (s *stubCredentialStore) Save(_ context.Context, c domain.RememberedCredentials) error {
	s.saved = &c
	return nil
}

func (s *stubCredentialStore) Clear(context.Context) error {
	s.saved = nil
	s.cleared = true
	return nil
}

func okAuth() *stubAuthAPI {
	return &stubAuthAPI{
		loginFn: func(_ context.Context, form domain.LoginForm) (domain.Token, error) {
			return domain.Token{AccessToken: "tok-" + form.Username, TokenType: "bearer"}, nil
		},
		currentUserFn: func(context.Context) (domain.User, error) {
			return domain.User{ID: 1, Username: "ada"}, nil
		},
	}
}

func TestSessionService_Login_Remember(t *testing.T) {
	holder := &stubTokenHolder{}
	store := &stubCredentialStore{}
	svc := NewSessionService(okAuth(), holder, store)

	user, err := svc.Login(context.Background(), domain.LoginForm{Username: "ada", Password: "pw"}, true)
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.Username != "ada" || holder.token != "tok-ada" {
		t.Fatalf("unexpected state: user=%+v token=%q", user, holder.token)
	}
	if store.saved == nil || *store.saved != (domain.RememberedCredentials{Username: "ada", Password: "pw", Remember: true}) {
		t.Fatalf("expected credentials to be saved, got %+v", store.saved)
	}

	remembered, _ := svc.Remembered(context.Background())
	if remembered.Username != "ada" || !remembered.Remember {
		t.Fatalf("unexpected remembered credentials: %+v", remembered)
	}
}

func TestSessionService_Login_ForgetsWithoutRemember(t *testing.T) {
	store := &stubCredentialStore{saved: &domain.RememberedCredentials{Username: "old", Remember: true}}
	svc := NewSessionService(okAuth(), &stubTokenHolder{}, store)

	if _, err := svc.Login(context.Background(), domain.LoginForm{Username: "ada", Password: "pw"}, false); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !store.cleared || store.saved != nil {
		t.Fatalf("expected remembered credentials to be cleared")
	}
}

func TestSessionService_Login_InvalidCredentials(t *testing.T) {
	auth := okAuth()
	auth.loginFn = func(context.Context, domain.LoginForm) (domain.Token, error) {
		return domain.Token{}, domain.ErrInvalidCredentials
	}
	holder := &stubTokenHolder{}
	store := &stubCredentialStore{}
	svc := NewSessionService(auth, holder, store)

	if _, err := svc.Login(context.Background(), domain.LoginForm{Username: "ada"}, true); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if holder.token != "" || store.saved != nil {
		t.Fatalf("failed login must not change state")
	}
}

func TestSessionService_Login_CurrentUserFailureClearsToken(t *testing.T) {
	auth := okAuth()
	auth.currentUserFn = func(context.Context) (domain.User, error) {
		return domain.User{}, domain.ErrUnknown
	}
	holder := &stubTokenHolder{}
	svc := NewSessionService(auth, holder, nil)

	if _, err := svc.Login(context.Background(), domain.LoginForm{Username: "ada"}, false); !errors.Is(err, domain.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	if holder.token != "" {
		t.Fatalf("token must be cleared, got %q", holder.token)
	}
}

func TestSessionService_Logout(t *testing.T) {
	holder := &stubTokenHolder{token: "tok"}
	store := &stubCredentialStore{saved: &domain.RememberedCredentials{Username: "ada", Remember: true}}
	svc := NewSessionService(okAuth(), holder, store)

	svc.Logout()
	if holder.token != "" {
		t.Fatalf("expected token to be cleared")
	}
	if store.saved == nil {
		t.Fatalf("logout must keep remembered credentials")
	}
}

func TestSessionService_RememberedWithoutStore(t *testing.T) {
	svc := NewSessionService(okAuth(), &stubTokenHolder{}, nil)
	creds, err := svc.Remembered(context.Background())
	if err != nil || creds != (domain.RememberedCredentials{}) {
		t.Fatalf("unexpected result: %+v %v", creds, err)
	}
}
