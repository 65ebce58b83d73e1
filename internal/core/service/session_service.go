package service

import (
	"context"
	"fmt"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

// SessionService runs the client-side login and logout flows.
type SessionService struct {
	auth  ports.AuthAPI
	token ports.TokenHolder
	store ports.CredentialStore
}

// NewSessionService wires the flows. store may be nil, which disables
// "remember me".
func NewSessionService(auth ports.AuthAPI, token ports.TokenHolder, store ports.CredentialStore) *SessionService {
	return &SessionService{auth: auth, token: token, store: store}
}

// Login exchanges credentials for a token, keeps it in the session and
// returns the account it belongs to. With remember set the credentials are
// saved for the next login form; otherwise any saved ones are forgotten.
func (s *SessionService) Login(ctx context.Context, form domain.LoginForm, remember bool) (domain.User, error) {
	token, err := s.auth.Login(ctx, form)
	if err != nil {
		return domain.User{}, err
	}
	s.token.SetToken(token.AccessToken)

	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		s.token.Clear()
		return domain.User{}, err
	}

	if s.store != nil {
		if remember {
			err = s.store.Save(ctx, domain.RememberedCredentials{
				Username: form.Username,
				Password: form.Password,
				Remember: true,
			})
		} else {
			err = s.store.Clear(ctx)
		}
		if err != nil {
			return user, fmt.Errorf("remembered credentials: %w", err)
		}
	}
	return user, nil
}

// Logout forgets the session token. Remembered credentials are kept.
func (s *SessionService) Logout() {
	s.token.Clear()
}

// Remembered returns the saved login form values, or the zero value when
// nothing was saved.
func (s *SessionService) Remembered(ctx context.Context) (domain.RememberedCredentials, error) {
	if s.store == nil {
		return domain.RememberedCredentials{}, nil
	}
	return s.store.Load(ctx)
}
