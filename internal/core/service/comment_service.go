package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
	"github.com/segmentation-fault/forum/internal/pkg/metrics"
)

// CommentService implements the comment endpoints and notifies post authors
// of new replies.
type CommentService struct {
	repo        ports.ForumRepository
	notifier    ports.Notifier
	frontendURL string
	ballot      ballot
	log         zerolog.Logger
}

var _ ports.CommentService = (*CommentService)(nil)

func NewCommentService(repo ports.ForumRepository, notifier ports.Notifier, frontendURL string, log zerolog.Logger, m *metrics.Server) *CommentService {
	return &CommentService{
		repo:        repo,
		notifier:    notifier,
		frontendURL: frontendURL,
		ballot:      ballot{votes: repo, target: domain.VoteOnComment, metrics: m},
		log:         log,
	}
}

func (s *CommentService) List(ctx context.Context) ([]domain.Comment, error) {
	return s.repo.ListComments(ctx)
}

func (s *CommentService) Get(ctx context.Context, id int64) (domain.Comment, error) {
	return s.repo.GetComment(ctx, id)
}

func (s *CommentService) Create(ctx context.Context, actor domain.User, comment domain.CommentCreate) (domain.Comment, error) {
	created, err := s.repo.CreateComment(ctx, actor.ID, comment)
	if err != nil {
		return domain.Comment{}, err
	}
	s.notifyPostAuthor(ctx, actor, created)
	return created, nil
}

func (s *CommentService) Update(ctx context.Context, actor domain.User, id int64, update domain.CommentUpdate) (domain.Comment, error) {
	if err := s.authorOf(ctx, actor, id); err != nil {
		return domain.Comment{}, err
	}
	return s.repo.UpdateComment(ctx, id, update)
}

func (s *CommentService) Delete(ctx context.Context, actor domain.User, id int64) error {
	if err := s.authorOf(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.DeleteComment(ctx, id)
}

func (s *CommentService) Votes(ctx context.Context, id int64) (int, error) {
	return s.ballot.score(ctx, id)
}

func (s *CommentService) Vote(ctx context.Context, actor domain.User, id int64) (domain.Vote, error) {
	return s.ballot.vote(ctx, actor, id)
}

func (s *CommentService) CastVote(ctx context.Context, actor domain.User, id int64, vote domain.Vote) error {
	return s.ballot.cast(ctx, actor, id, vote)
}

func (s *CommentService) authorOf(ctx context.Context, actor domain.User, id int64) error {
	comment, err := s.repo.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if comment.Author != actor.ID && !actor.Super {
		return fmt.Errorf("you are not the author of this comment: %w", domain.ErrForbidden)
	}
	return nil
}

func (s *CommentService) notifyPostAuthor(ctx context.Context, commenter domain.User, comment domain.Comment) {
	if s.notifier == nil {
		return
	}
	log := s.log.With().Int64("comment_id", comment.ID).Logger()

	post, err := s.repo.GetPost(ctx, comment.Post)
	if err != nil {
		log.Warn().Err(err).Msg("comment notification: post lookup failed")
		return
	}
	author, err := s.repo.AccountByID(ctx, post.Author)
	if err != nil {
		log.Warn().Err(err).Msg("comment notification: author lookup failed")
		return
	}
	if err := s.notifier.Notify(ctx, commentNotification(s.frontendURL, author.User, commenter, post)); err != nil {
		log.Warn().Err(err).Msg("comment notification not queued")
	}
}
