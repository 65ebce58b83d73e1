package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
	"github.com/segmentation-fault/forum/internal/pkg/metrics"
)

// ErrUnknownEmail is returned by ForgotPassword for an unregistered address.
var ErrUnknownEmail = fmt.Errorf("there is no user with this email: %w", domain.ErrNotFound)

// AuthConfig holds the settings of AuthService.
type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	OneTimeTTL     time.Duration
	FrontendURL    string
	Log            zerolog.Logger
	Metrics        *metrics.Server
}

// AuthService implements login, registration and password recovery.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.OneTimeTokenStore
	notifier ports.Notifier
	cfg      AuthConfig
	now      func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.UserRepository, tokens ports.OneTimeTokenStore, notifier ports.Notifier, cfg AuthConfig) *AuthService {
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 24 * time.Hour
	}
	if cfg.OneTimeTTL <= 0 {
		cfg.OneTimeTTL = 24 * time.Hour
	}
	return &AuthService{users: users, tokens: tokens, notifier: notifier, cfg: cfg, now: time.Now}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Token, error) {
	if username == "" || password == "" {
		return domain.Token{}, domain.ErrInvalidCredentials
	}

	account, err := s.users.AccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Token{}, domain.ErrInvalidCredentials
		}
		return domain.Token{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return domain.Token{}, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(account.Username)
	if err != nil {
		return domain.Token{}, err
	}
	return domain.Token{AccessToken: token, TokenType: "bearer"}, nil
}

// SignUp registers an account, issues an email verification token and
// queues the welcome message.
func (s *AuthService) SignUp(ctx context.Context, user domain.UserCreate) (domain.User, error) {
	if !ValidPassword(user.Password) {
		return domain.User{}, domain.ErrInvalidPassword
	}

	created, err := createAccount(ctx, s.users, user)
	if err != nil {
		return domain.User{}, err
	}

	token, err := s.issue(ctx, created.ID, domain.OneTimeEmailVerification)
	if err != nil {
		return domain.User{}, err
	}
	s.notify(ctx, welcomeNotification(s.cfg.FrontendURL, created, token))
	return created, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	t, err := s.tokens.Redeem(ctx, token, domain.OneTimeEmailVerification)
	if err != nil {
		return err
	}
	if err := s.users.SetVerified(ctx, t.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	return nil
}

// ForgotPassword replaces any outstanding reset token of the account owning
// email and queues a reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.users.AccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUnknownEmail
		}
		return err
	}

	if err := s.tokens.Revoke(ctx, account.ID, domain.OneTimePasswordReset); err != nil {
		return fmt.Errorf("revoke reset tokens: %w", err)
	}
	token, err := s.issue(ctx, account.ID, domain.OneTimePasswordReset)
	if err != nil {
		return err
	}
	s.notify(ctx, passwordResetNotification(s.cfg.FrontendURL, account.User, token))
	return nil
}

// ResetPassword sets the password of the user the reset token was issued
// to. An invalid password leaves the token redeemable.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if !ValidPassword(password) {
		return domain.ErrInvalidPassword
	}
	t, err := s.tokens.Redeem(ctx, token, domain.OneTimePasswordReset)
	if err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if _, err := s.users.UpdateAccount(ctx, t.UserID, ports.AccountUpdate{PasswordHash: &hash}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, username string) (domain.User, error) {
	account, err := s.users.AccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	return account.User, nil
}

func (s *AuthService) generateToken(username string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.AccessTokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) issue(ctx context.Context, userID int64, kind domain.OneTimeKind) (string, error) {
	token := domain.OneTimeToken{
		Value:   uuid.NewString(),
		UserID:  userID,
		Kind:    kind,
		Expires: s.now().Add(s.cfg.OneTimeTTL),
	}
	if err := s.tokens.Issue(ctx, token); err != nil {
		return "", fmt.Errorf("issue %s token: %w", kind, err)
	}
	return token.Value, nil
}

// notify queues n. Delivery problems never fail the request that caused
// them.
func (s *AuthService) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.cfg.Log.Warn().Err(err).Str("kind", string(n.Kind)).Msg("notification not queued")
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrInvalidPassword
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func createAccount(ctx context.Context, users ports.UserRepository, user domain.UserCreate) (domain.User, error) {
	hash, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	account, err := users.CreateAccount(ctx, domain.Account{
		User: domain.User{
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, err
	}
	s.cfg.Metrics.SignUp()
	return account.User, nil
}
