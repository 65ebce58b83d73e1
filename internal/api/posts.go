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
	postsPrefix  = "/posts"
	postResource = "Post"
)

// PostClient manages posts, their comments and votes.
type PostClient struct {
	c *Client
}

func postPath(id int64) string {
	return fmt.Sprintf("%s/%d", postsPrefix, id)
}

// List returns every post, newest first, with vote data for each.
func (p *PostClient) List(ctx context.Context) ([]domain.Post, error) {
	resp, err := p.c.transport.Get(ctx, p.c.session, postsPrefix+"/")
	posts, err := decodeChecked[[]wire.Post](resp, err, p.c.ok(http.StatusOK))
	if err != nil {
		return nil, err
	}
	return internaliseEach(ctx, p.c.log, p.c.fanOut, posts, p.internalise)
}

func (p *PostClient) Create(ctx context.Context, post domain.PostCreate) (domain.Post, error) {
	body, err := transport.JSONBody(externalisePostCreate(post))
	if err != nil {
		return domain.Post{}, err
	}
	resp, err := p.c.transport.Post(ctx, p.c.session, postsPrefix+"/", body)
	created, err := decodeChecked[wire.Post](resp, err, p.c.ok(http.StatusCreated))
	if err != nil {
		return domain.Post{}, err
	}
	return p.internalise(ctx, created)
}

func (p *PostClient) Get(ctx context.Context, id int64) (domain.Post, error) {
	resp, err := p.c.transport.Get(ctx, p.c.session, postPath(id))
	post, err := decodeChecked[wire.Post](resp, err, p.c.ok(http.StatusOK).notFound(postResource, id))
	if err != nil {
		return domain.Post{}, err
	}
	return p.internalise(ctx, post)
}

func (p *PostClient) Update(ctx context.Context, id int64, update domain.PostUpdate) (domain.Post, error) {
	body, err := transport.JSONBody(externalisePostUpdate(update))
	if err != nil {
		return domain.Post{}, err
	}
	resp, err := p.c.transport.Put(ctx, p.c.session, postPath(id), body)
	post, err := decodeChecked[wire.Post](resp, err, p.c.ok(http.StatusOK).notFound(postResource, id))
	if err != nil {
		return domain.Post{}, err
	}
	return p.internalise(ctx, post)
}

func (p *PostClient) Delete(ctx context.Context, id int64) error {
	resp, err := p.c.transport.Delete(ctx, p.c.session, postPath(id))
	return classify(resp, err, p.c.ok(http.StatusOK).notFound(postResource, id))
}

// Comments returns the comments attached to a post.
func (p *PostClient) Comments(ctx context.Context, id int64) ([]domain.Comment, error) {
	resp, err := p.c.transport.Get(ctx, p.c.session, postPath(id)+"/comments")
	comments, err := decodeChecked[[]wire.Comment](resp, err, p.c.ok(http.StatusOK).notFound(postResource, id))
	if err != nil {
		return nil, err
	}
	return internaliseEach(ctx, p.c.log, p.c.fanOut, comments, p.c.Comments.internalise)
}

// Votes returns the aggregate score (upvotes minus downvotes).
func (p *PostClient) Votes(ctx context.Context, id int64) (int, error) {
	metrics.ClientFanOutTotal.WithLabelValues("votes").Inc()
	resp, err := p.c.transport.Get(ctx, p.c.session, postPath(id)+"/votes")
	return decodeChecked[int](resp, err, p.c.ok(http.StatusOK).notFound(postResource, id))
}

// Vote returns the session user's vote on a post.
func (p *PostClient) Vote(ctx context.Context, id int64) (domain.Vote, error) {
	metrics.ClientFanOutTotal.WithLabelValues("vote").Inc()
	resp, err := p.c.transport.Get(ctx, p.c.session, postPath(id)+"/vote")
	raw, err := decodeChecked[json.RawMessage](resp, err, p.c.ok(http.StatusOK).notFound(postResource, id))
	if err != nil {
		return domain.VoteNone, err
	}
	return internaliseVote(raw)
}

// CastVote replaces the session user's vote; VoteNone withdraws it.
func (p *PostClient) CastVote(ctx context.Context, id int64, vote domain.Vote) error {
	resp, err := p.c.transport.Post(ctx, p.c.session, postPath(id)+"/vote", nil,
		transport.WithQuery("type", vote.String()))
	return classify(resp, err, p.c.ok(http.StatusCreated).notFound(postResource, id))
}

// internalise converts a wire post and fetches its vote data.
func (p *PostClient) internalise(ctx context.Context, post wire.Post) (domain.Post, error) {
	created, updated, err := internaliseTimes(post.Created, post.Updated)
	if err != nil {
		return domain.Post{}, fmt.Errorf("post %d: %w", post.ID, err)
	}
	votes, vote, err := voteLookup{resource: postResource, votes: p.Votes, vote: p.Vote, log: p.c.log}.fetch(ctx, post.ID)
	if err != nil {
		return domain.Post{}, err
	}
	return domain.Post{
		ID:      post.ID,
		Created: created,
		Updated: updated,
		Author:  post.Author,
		Title:   post.Title,
		Content: post.Content,
		Votes:   votes,
		Vote:    vote,
	}, nil
}
