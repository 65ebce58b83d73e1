package ports

import (
	"context"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

// UserService manages accounts. actor is the authenticated caller.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, error)
	Create(ctx context.Context, user domain.UserCreate) (domain.User, error)
	Update(ctx context.Context, actor domain.User, id int64, update domain.UserUpdate) (domain.User, error)
	Delete(ctx context.Context, actor domain.User, id int64) error
	Image(ctx context.Context, id int64) (domain.Image, error)
	UploadImage(ctx context.Context, actor domain.User, id int64, image domain.Image) error
}

// PostService manages posts and their votes.
type PostService interface {
	List(ctx context.Context) ([]domain.Post, error)
	Get(ctx context.Context, id int64) (domain.Post, error)
	Comments(ctx context.Context, id int64) ([]domain.Comment, error)
	Create(ctx context.Context, actor domain.User, post domain.PostCreate) (domain.Post, error)
	Update(ctx context.Context, actor domain.User, id int64, update domain.PostUpdate) (domain.Post, error)
	Delete(ctx context.Context, actor domain.User, id int64) error
	Votes(ctx context.Context, id int64) (int, error)
	Vote(ctx context.Context, actor domain.User, id int64) (domain.Vote, error)
	CastVote(ctx context.Context, actor domain.User, id int64, vote domain.Vote) error
}

// CommentService manages comments and their votes.
type CommentService interface {
	List(ctx context.Context) ([]domain.Comment, error)
	Get(ctx context.Context, id int64) (domain.Comment, error)
	Create(ctx context.Context, actor domain.User, comment domain.CommentCreate) (domain.Comment, error)
	Update(ctx context.Context, actor domain.User, id int64, update domain.CommentUpdate) (domain.Comment, error)
	Delete(ctx context.Context, actor domain.User, id int64) error
	Votes(ctx context.Context, id int64) (int, error)
	Vote(ctx context.Context, actor domain.User, id int64) (domain.Vote, error)
	CastVote(ctx context.Context, actor domain.User, id int64, vote domain.Vote) error
}
