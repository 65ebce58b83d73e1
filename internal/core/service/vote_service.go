package service

import (
	"context"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

// VoteService applies the vote button policy: pressing the active direction
// again withdraws the vote.
type VoteService struct {
	posts    ports.PostAPI
	comments ports.CommentAPI
}

func NewVoteService(posts ports.PostAPI, comments ports.CommentAPI) *VoteService {
	return &VoteService{posts: posts, comments: comments}
}

// TogglePostVote submits the vote that results from pressing pressed on
// post and returns the refreshed post.
func (s *VoteService) TogglePostVote(ctx context.Context, post domain.Post, pressed domain.Vote) (domain.Post, error) {
	if err := s.posts.CastVote(ctx, post.ID, post.Vote.Toggle(pressed)); err != nil {
		return domain.Post{}, err
	}
	return s.posts.Get(ctx, post.ID)
}

func (s *VoteService) ToggleCommentVote(ctx context.Context, comment domain.Comment, pressed domain.Vote) (domain.Comment, error) {
	if err := s.comments.CastVote(ctx, comment.ID, comment.Vote.Toggle(pressed)); err != nil {
		return domain.Comment{}, err
	}
	return s.comments.Get(ctx, comment.ID)
}
