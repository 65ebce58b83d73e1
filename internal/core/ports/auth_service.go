package ports

import (
	"context"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

// AuthService covers login, registration and password recovery on the
// server side.
type AuthService interface {
	Login(ctx context.Context, username, password string) (domain.Token, error)
	SignUp(ctx context.Context, user domain.UserCreate) (domain.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	// Authenticate resolves the subject of a verified access token.
	Authenticate(ctx context.Context, username string) (domain.User, error)
}
