package ports

import (
	"context"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

// AccountUpdate is a partial account change. PasswordHash replaces the
// stored hash when non-nil.
type AccountUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
}

// UserRepository persists accounts. Create and Update return
// domain.ErrConflict when the username or email is taken.
type UserRepository interface {
	CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error)
	AccountByID(ctx context.Context, id int64) (domain.Account, error)
	AccountByUsername(ctx context.Context, username string) (domain.Account, error)
	AccountByEmail(ctx context.Context, email string) (domain.Account, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateAccount(ctx context.Context, id int64, update AccountUpdate) (domain.Account, error)
	// DeleteAccount also removes the user's posts, comments and votes.
	DeleteAccount(ctx context.Context, id int64) error
	SetVerified(ctx context.Context, id int64) error
	SetImage(ctx context.Context, id int64, image domain.Image) error
	Image(ctx context.Context, id int64) (domain.Image, error)
}

// PostRepository persists posts. Lists are newest first.
type PostRepository interface {
	ListPosts(ctx context.Context) ([]domain.Post, error)
	GetPost(ctx context.Context, id int64) (domain.Post, error)
	CreatePost(ctx context.Context, author int64, post domain.PostCreate) (domain.Post, error)
	UpdatePost(ctx context.Context, id int64, update domain.PostUpdate) (domain.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// CommentRepository persists comments. Lists are newest first.
type CommentRepository interface {
	ListComments(ctx context.Context) ([]domain.Comment, error)
	PostComments(ctx context.Context, postID int64) ([]domain.Comment, error)
	GetComment(ctx context.Context, id int64) (domain.Comment, error)
	CreateComment(ctx context.Context, author int64, comment domain.CommentCreate) (domain.Comment, error)
	UpdateComment(ctx context.Context, id int64, update domain.CommentUpdate) (domain.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// VoteRepository stores at most one vote per user and record.
type VoteRepository interface {
	// Score is upvotes minus downvotes.
	Score(ctx context.Context, target domain.VoteTarget, id int64) (int, error)
	UserVote(ctx context.Context, target domain.VoteTarget, id, userID int64) (domain.Vote, error)
	// CastVote replaces the user's previous vote. VoteNone removes it.
	CastVote(ctx context.Context, target domain.VoteTarget, id, userID int64, vote domain.Vote) error
}

// ForumRepository is the full storage surface of the development server.
// Lookups of missing records return a *domain.NotFoundError.
type ForumRepository interface {
	UserRepository
	PostRepository
	CommentRepository
	VoteRepository
}
