package service

import (
	"context"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
	"github.com/segmentation-fault/forum/internal/pkg/metrics"
)

// ballot serves the vote endpoints of one record kind.
type ballot struct {
	votes   ports.VoteRepository
	target  domain.VoteTarget
	metrics *metrics.Server
}

func (b ballot) score(ctx context.Context, id int64) (int, error) {
	return b.votes.Score(ctx, b.target, id)
}

func (b ballot) vote(ctx context.Context, actor domain.User, id int64) (domain.Vote, error) {
	return b.votes.UserVote(ctx, b.target, id, actor.ID)
}

func (b ballot) cast(ctx context.Context, actor domain.User, id int64, vote domain.Vote) error {
	if !vote.Valid() {
		return domain.ErrInvalidVote
	}
	if err := b.votes.CastVote(ctx, b.target, id, actor.ID, vote); err != nil {
		return err
	}
	b.metrics.VoteCast(b.target, vote)
	return nil
}
