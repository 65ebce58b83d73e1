package handler

import (
	"github.com/segmentation-fault/forum/internal/api"
	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
)

// --- Domain → response ---

// toWireUser renders users the way the access layer externalises them.
func toWireUser(u domain.User) wire.User {
	return api.ExternaliseUser(u)
}

func toWirePost(p domain.Post) wire.Post {
	return wire.Post{
		ID:      p.ID,
		Created: wire.FormatTime(p.Created),
		Updated: wire.FormatOptionalTime(p.Updated),
		Author:  p.Author,
		Title:   p.Title,
		Content: p.Content,
	}
}

func toWireComment(c domain.Comment) wire.Comment {
	return wire.Comment{
		ID:      c.ID,
		Created: wire.FormatTime(c.Created),
		Updated: wire.FormatOptionalTime(c.Updated),
		Author:  c.Author,
		Content: c.Content,
		Post:    c.Post,
	}
}

func mapAll[D, W any](in []D, fn func(D) W) []W {
	out := make([]W, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

// --- Request → domain ---

func fromUserCreate(u wire.UserCreate) domain.UserCreate {
	return domain.UserCreate{
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func fromUserUpdate(u wire.UserUpdate) domain.UserUpdate {
	return domain.UserUpdate{
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
