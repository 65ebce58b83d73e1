package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
)

// --- Wire → domain ---

func internaliseToken(t wire.Token) domain.Token {
	return domain.Token{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
	}
}

func internaliseUser(u wire.User) (domain.User, error) {
	created, updated, err := internaliseTimes(u.Created, u.Updated)
	if err != nil {
		return domain.User{}, fmt.Errorf("user %d: %w", u.ID, err)
	}
	return domain.User{
		ID:        u.ID,
		Created:   created,
		Updated:   updated,
		Username:  u.Username,
		Email:     u.Email,
		Super:     u.Super,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}, nil
}

func internaliseUsers(in []wire.User) ([]domain.User, error) {
	out := make([]domain.User, 0, len(in))
	for _, u := range in {
		user, err := internaliseUser(u)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, nil
}

func internaliseValidationError(e wire.HTTPValidationError) domain.HTTPValidationError {
	detail := make([]domain.ValidationError, 0, len(e.Detail))
	for _, d := range e.Detail {
		detail = append(detail, domain.ValidationError{Loc: d.Loc, Msg: d.Msg, Type: d.Type})
	}
	return domain.HTTPValidationError{Detail: detail}
}

// internaliseDate maps an absent timestamp to nil.
func internaliseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := wire.ParseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func internaliseTimes(created string, updated *string) (time.Time, *time.Time, error) {
	c, err := wire.ParseTime(created)
	if err != nil {
		return time.Time{}, nil, err
	}
	u, err := internaliseDate(updated)
	if err != nil {
		return time.Time{}, nil, err
	}
	return c, u, nil
}

// internaliseVote decodes the current-vote body, which is a JSON string
// holding "true", "false" or "null". A bare JSON literal is accepted too.
func internaliseVote(raw json.RawMessage) (domain.Vote, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	return domain.ParseVote(s)
}

// --- Domain → wire ---

// ExternaliseUser is the inverse of the user conversion. Timestamps are
// rendered in UTC, so a round trip yields instants that are Equal but carry
// the UTC location. A zero Updated means "never updated" and becomes null,
// the same as a nil one.
func ExternaliseUser(u domain.User) wire.User {
	return wire.User{
		ID:        u.ID,
		Created:   wire.FormatTime(u.Created),
		Updated:   wire.FormatOptionalTime(u.Updated),
		Username:  u.Username,
		Email:     u.Email,
		Super:     u.Super,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func externaliseUserCreate(u domain.UserCreate) wire.UserCreate {
	return wire.UserCreate{
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func externaliseUserUpdate(u domain.UserUpdate) wire.UserUpdate {
	return wire.UserUpdate{
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func externalisePostCreate(p domain.PostCreate) wire.PostCreate {
	return wire.PostCreate{Title: p.Title, Content: p.Content}
}

func externalisePostUpdate(p domain.PostUpdate) wire.PostUpdate {
	return wire.PostUpdate{Title: p.Title, Content: p.Content}
}

func externaliseCommentCreate(c domain.CommentCreate) wire.CommentCreate {
	return wire.CommentCreate{Content: c.Content, Post: c.Post}
}

func externaliseCommentUpdate(c domain.CommentUpdate) wire.CommentUpdate {
	return wire.CommentUpdate{Content: c.Content}
}

func externaliseForgotPasswordForm(f domain.ForgotPasswordForm) wire.ForgotPasswordForm {
	return wire.ForgotPasswordForm{Email: f.Email}
}

func externaliseResetPasswordForm(f domain.ResetPasswordForm) wire.ResetPasswordForm {
	return wire.ResetPasswordForm{Token: f.Token, Password: f.Password}
}

// --- Vote fan-out ---

// voteLookup fetches the aggregate count and the caller's vote for one
// record.
type voteLookup struct {
	resource string
	votes    func(ctx context.Context, id int64) (int, error)
	vote     func(ctx context.Context, id int64) (domain.Vote, error)
	log      zerolog.Logger
}

// fetch issues both sub-requests concurrently. Either failure fails the
// whole lookup.
func (l voteLookup) fetch(ctx context.Context, id int64) (int, domain.Vote, error) {
	var (
		votes int
		vote  domain.Vote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := l.votes(gctx, id)
		votes = n
		return err
	})
	g.Go(func() error {
		v, err := l.vote(gctx, id)
		vote = v
		return err
	})
	if err := g.Wait(); err != nil {
		l.log.Debug().Err(err).Str("resource", l.resource).Int64("id", id).Msg("vote lookup failed")
		return 0, domain.VoteNone, err
	}
	return votes, vote, nil
}

// internaliseEach converts items concurrently, at most limit at a time, and
// keeps their order.
func internaliseEach[W, D any](ctx context.Context, log zerolog.Logger, limit int, items []W, fn func(context.Context, W) (D, error)) ([]D, error) {
	out := make([]D, len(items))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			d, err := fn(gctx, item)
			if err != nil {
				log.Debug().Err(err).Int("index", i).Int("items", len(items)).Msg("list item conversion failed")
				return err
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
