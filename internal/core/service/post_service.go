package service

import (
	"context"
	"fmt"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
	"github.com/segmentation-fault/forum/internal/pkg/metrics"
)

// PostService implements the post endpoints.
type PostService struct {
	repo   ports.ForumRepository
	ballot ballot
}

var _ ports.PostService = (*PostService)(nil)

func NewPostService(repo ports.ForumRepository, m *metrics.Server) *PostService {
	return &PostService{repo: repo, ballot: ballot{votes: repo, target: domain.VoteOnPost, metrics: m}}
}

func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	return s.repo.ListPosts(ctx)
}

func (s *PostService) Get(ctx context.Context, id int64) (domain.Post, error) {
	return s.repo.GetPost(ctx, id)
}

func (s *PostService) Comments(ctx context.Context, id int64) ([]domain.Comment, error) {
	return s.repo.PostComments(ctx, id)
}

func (s *PostService) Create(ctx context.Context, actor domain.User, post domain.PostCreate) (domain.Post, error) {
	return s.repo.CreatePost(ctx, actor.ID, post)
}

func (s *PostService) Update(ctx context.Context, actor domain.User, id int64, update domain.PostUpdate) (domain.Post, error) {
	if err := s.authorOf(ctx, actor, id); err != nil {
		return domain.Post{}, err
	}
	return s.repo.UpdatePost(ctx, id, update)
}

func (s *PostService) Delete(ctx context.Context, actor domain.User, id int64) error {
	if err := s.authorOf(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.DeletePost(ctx, id)
}

func (s *PostService) Votes(ctx context.Context, id int64) (int, error) {
	return s.ballot.score(ctx, id)
}

func (s *PostService) Vote(ctx context.Context, actor domain.User, id int64) (domain.Vote, error) {
	return s.ballot.vote(ctx, actor, id)
}

func (s *PostService) CastVote(ctx context.Context, actor domain.User, id int64, vote domain.Vote) error {
	return s.ballot.cast(ctx, actor, id, vote)
}

func (s *PostService) authorOf(ctx context.Context, actor domain.User, id int64) error {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.Author != actor.ID && !actor.Super {
		return fmt.Errorf("you are not the author of this post: %w", domain.ErrForbidden)
	}
	return nil
}
