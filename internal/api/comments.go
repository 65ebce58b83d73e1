package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/segmentation-fault/forum/internal/api/metrics"
	"github.com/segmentation-fault/forum/internal/api/transport"
	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
)

const (
	commentsPrefix  = "/comments"
	commentResource = "Comment"
)

// CommentClient manages comments and their votes.
type CommentClient struct {
	c *Client
}

func commentPath(id int64) string {
	return fmt.Sprintf("%s/%d", commentsPrefix, id)
}

func (cc *CommentClient) List(ctx context.Context) ([]domain.Comment, error) {
	resp, err := cc.c.transport.Get(ctx, cc.c.session, commentsPrefix+"/")
	comments, err := decodeChecked[[]wire.Comment](resp, err, cc.c.ok(http.StatusOK))
	if err != nil {
		return nil, err
	}
	return internaliseEach(ctx, cc.c.log, cc.c.fanOut, comments, cc.internalise)
}

func (cc *CommentClient) Create(ctx context.Context, comment domain.CommentCreate) (domain.Comment, error) {
	body, err := transport.JSONBody(externaliseCommentCreate(comment))
	if err != nil {
		return domain.Comment{}, err
	}
	resp, err := cc.c.transport.Post(ctx, cc.c.session, commentsPrefix+"/", body)
	created, err := decodeChecked[wire.Comment](resp, err, cc.c.ok(http.StatusCreated))
	if err != nil {
		return domain.Comment{}, err
	}
	return cc.internalise(ctx, created)
}

func (cc *CommentClient) Get(ctx context.Context, id int64) (domain.Comment, error) {
	resp, err := cc.c.transport.Get(ctx, cc.c.session, commentPath(id))
	comment, err := decodeChecked[wire.Comment](resp, err, cc.c.ok(http.StatusOK).notFound(commentResource, id))
	if err != nil {
		return domain.Comment{}, err
	}
	return cc.internalise(ctx, comment)
}

func (cc *CommentClient) Update(ctx context.Context, id int64, update domain.CommentUpdate) (domain.Comment, error) {
	body, err := transport.JSONBody(externaliseCommentUpdate(update))
	if err != nil {
		return domain.Comment{}, err
	}
	resp, err := cc.c.transport.Put(ctx, cc.c.session, commentPath(id), body)
	comment, err := decodeChecked[wire.Comment](resp, err, cc.c.ok(http.StatusOK).notFound(commentResource, id))
	if err != nil {
		return domain.Comment{}, err
	}
	return cc.internalise(ctx, comment)
}

func (cc *CommentClient) Delete(ctx context.Context, id int64) error {
	resp, err := cc.c.transport.Delete(ctx, cc.c.session, commentPath(id))
	return classify(resp, err, cc.c.ok(http.StatusOK).notFound(commentResource, id))
}

func (cc *CommentClient) Votes(ctx context.Context, id int64) (int, error) {
	metrics.ClientFanOutTotal.WithLabelValues("votes").Inc()
	resp, err := cc.c.transport.Get(ctx, cc.c.session, commentPath(id)+"/votes")
	return decodeChecked[int](resp, err, cc.c.ok(http.StatusOK).notFound(commentResource, id))
}

func (cc *CommentClient) Vote(ctx context.Context, id int64) (domain.Vote, error) {
	metrics.ClientFanOutTotal.WithLabelValues("vote").Inc()
	resp, err := cc.c.transport.Get(ctx, cc.c.session, commentPath(id)+"/vote")
	raw, err := decodeChecked[json.RawMessage](resp, err, cc.c.ok(http.StatusOK).notFound(commentResource, id))
	if err != nil {
		return domain.VoteNone, err
	}
	return internaliseVote(raw)
}

func (cc *CommentClient) CastVote(ctx context.Context, id int64, vote domain.Vote) error {
	resp, err := cc.c.transport.Post(ctx, cc.c.session, commentPath(id)+"/vote", nil,
		transport.WithQuery("type", vote.String()))
	return classify(resp, err, cc.c.ok(http.StatusCreated).notFound(commentResource, id))
}

func (cc *CommentClient) internalise(ctx context.Context, comment wire.Comment) (domain.Comment, error) {
	created, updated, err := internaliseTimes(comment.Created, comment.Updated)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("comment %d: %w", comment.ID, err)
	}
	votes, vote, err := voteLookup{resource: commentResource, votes: cc.Votes, vote: cc.Vote, log: cc.c.log}.fetch(ctx, comment.ID)
	if err != nil {
		return domain.Comment{}, err
	}
	return domain.Comment{
		ID:      comment.ID,
		Created: created,
		Updated: updated,
		Author:  comment.Author,
		Content: comment.Content,
		Post:    comment.Post,
		Votes:   votes,
		Vote:    vote,
	}, nil
}
