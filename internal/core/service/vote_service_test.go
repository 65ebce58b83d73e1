package service

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

// stubVotable records cast votes and serves the last one back.
type stubVotable struct {
	votes map[int64]domain.Vote
	cast  []domain.Vote
	err   error
}

func newStubVotable() *stubVotable {
	return &stubVotable{votes: make(map[int64]domain.Vote)}
}

func (s *stubVotable) CastVote(_ context.Context, id int64, vote domain.Vote) error {
	if s.err != nil {
		return s.err
	}
	s.cast = append(s.cast, vote)
	s.votes[id] = vote
	return nil
}

type stubPostAPI struct{ *stubVotable }

func (s stubPostAPI) Get(_ context.Context, id int64) (domain.Post, error) {
	return domain.Post{ID: id, Vote: s.votes[id], Votes: int(s.votes[id])}, nil
}

type stubCommentAPI struct{ *stubVotable }

func (s stubCommentAPI) Get(_ context.Context, id int64) (domain.Comment, error) {
	return domain.Comment{ID: id, Vote: s.votes[id], Votes: int(s.votes[id])}, nil
}

func TestVoteService_TogglePostVote(t *testing.T) {
	posts := stubPostAPI{newStubVotable()}
	svc := NewVoteService(posts, stubCommentAPI{newStubVotable()})
	ctx := context.Background()

	post := domain.Post{ID: 3}
	post, err := svc.TogglePostVote(ctx, post, domain.VoteUp)
	if err != nil || post.Vote != domain.VoteUp || post.Votes != 1 {
		t.Fatalf("first press: %+v %v", post, err)
	}
	post, _ = svc.TogglePostVote(ctx, post, domain.VoteUp)
	if post.Vote != domain.VoteNone {
		t.Fatalf("second press should clear, got %v", post.Vote)
	}
	post, _ = svc.TogglePostVote(ctx, post, domain.VoteDown)
	post, _ = svc.TogglePostVote(ctx, post, domain.VoteUp)
	if post.Vote != domain.VoteUp {
		t.Fatalf("switching direction should replace, got %v", post.Vote)
	}

	want := []domain.Vote{domain.VoteUp, domain.VoteNone, domain.VoteDown, domain.VoteUp}
	if len(posts.cast) != len(want) {
		t.Fatalf("unexpected submissions: %v", posts.cast)
	}
	for i := range want {
		if posts.cast[i] != want[i] {
			t.Fatalf("submission %d: got %v want %v", i, posts.cast[i], want[i])
		}
	}
}

func TestVoteService_ToggleCommentVote_Error(t *testing.T) {
	comments := stubCommentAPI{newStubVotable()}
	comments.err = domain.NewNotFound("Comment", 8)
	svc := NewVoteService(stubPostAPI{newStubVotable()}, comments)

	_, err := svc.ToggleCommentVote(context.Background(), domain.Comment{ID: 8}, domain.VoteDown)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
