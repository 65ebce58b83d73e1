package ports

import (
	"context"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

// AuthAPI is the client-side view of the auth endpoints.
type AuthAPI interface {
	Login(ctx context.Context, credentials domain.LoginForm) (domain.Token, error)
	CurrentUser(ctx context.Context) (domain.User, error)
}

// PostAPI is the subset of the posts client the vote flow needs.
type PostAPI interface {
	Get(ctx context.Context, id int64) (domain.Post, error)
	CastVote(ctx context.Context, id int64, vote domain.Vote) error
}

// CommentAPI is the subset of the comments client the vote flow needs.
type CommentAPI interface {
	Get(ctx context.Context, id int64) (domain.Comment, error)
	CastVote(ctx context.Context, id int64, vote domain.Vote) error
}

// TokenHolder keeps the bearer token of the current session.
type TokenHolder interface {
	SetToken(token string)
	Clear()
}

// CredentialStore persists the "remember me" choice between runs.
type CredentialStore interface {
	Load(ctx context.Context) (domain.RememberedCredentials, error)
	Save(ctx context.Context, creds domain.RememberedCredentials) error
	Clear(ctx context.Context) error
}
