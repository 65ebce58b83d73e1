package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

// PostHandler handles HTTP requests for posts and their votes.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List handles GET /posts/.
//
// @Summary      List posts, newest first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   wire.Post
// @Failure      401  {object}  ErrorResponse
// @Router       /posts/ [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapAll(posts, toWirePost))
}

// Get handles GET /posts/:post_id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        post_id  path      int  true  "Post id"
// @Success      200      {object}  wire.Post
// @Failure      404      {object}  ErrorResponse
// @Router       /posts/{post_id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c, "post_id")
	if err != nil {
		return err
	}
	post, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWirePost(post))
}

// Comments handles GET /posts/:post_id/comments.
//
// @Summary      List the comments of a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        post_id  path      int  true  "Post id"
// @Success      200      {array}   wire.Comment
// @Failure      404      {object}  ErrorResponse
// @Router       /posts/{post_id}/comments [get]
func (h *PostHandler) Comments(c echo.Context) error {
	id, err := pathID(c, "post_id")
	if err != nil {
		return err
	}
	comments, err := h.service.Comments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapAll(comments, toWireComment))
}

// Create handles POST /posts/. The caller becomes the author.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      wire.PostCreate  true  "Post"
// @Success      201   {object}  wire.Post
// @Failure      422   {object}  wire.HTTPValidationError
// @Router       /posts/ [post]
func (h *PostHandler) Create(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req wire.PostCreate
	if err := bindValid(c, &req); err != nil {
		return err
	}
	post, err := h.service.Create(c.Request().Context(), actor, domain.PostCreate{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toWirePost(post))
}

// Update handles PUT /posts/:post_id.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        post_id  path      int              true  "Post id"
// @Param        body     body      wire.PostUpdate  true  "Post"
// @Success      200      {object}  wire.Post
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /posts/{post_id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "post_id")
	if err != nil {
		return err
	}
	var req wire.PostUpdate
	if err := bindValid(c, &req); err != nil {
		return err
	}
	post, err := h.service.Update(c.Request().Context(), actor, id, domain.PostUpdate{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWirePost(post))
}

// Delete handles DELETE /posts/:post_id.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        post_id  path  int  true  "Post id"
// @Success      200
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /posts/{post_id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "post_id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nil)
}

// Votes handles GET /posts/:post_id/votes.
//
// @Summary      Post score (upvotes minus downvotes)
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        post_id  path      int  true  "Post id"
// @Success      200      {integer}  int
// @Failure      404      {object}   ErrorResponse
// @Router       /posts/{post_id}/votes [get]
func (h *PostHandler) Votes(c echo.Context) error {
	id, err := pathID(c, "post_id")
	if err != nil {
		return err
	}
	score, err := h.service.Votes(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, score)
}

// Vote handles GET /posts/:post_id/vote.
//
// @Summary      The caller's vote on a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        post_id  path      int  true  "Post id"
// @Success      200      {string}  string  "\"true\", \"false\" or \"null\""
// @Failure      404      {object}  ErrorResponse
// @Router       /posts/{post_id}/vote [get]
func (h *PostHandler) Vote(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "post_id")
	if err != nil {
		return err
	}
	vote, err := h.service.Vote(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vote.String())
}

// CastVote handles POST /posts/:post_id/vote?type=true|false|null.
//
// @Summary      Vote on a post
// @Tags         posts
// @Security     BearerAuth
// @Param        post_id  path   int     true   "Post id"
// @Param        type     query  string  false  "true, false or null"
// @Success      201
// @Failure      404      {object}  ErrorResponse
// @Failure      422      {object}  wire.HTTPValidationError
// @Router       /posts/{post_id}/vote [post]
func (h *PostHandler) CastVote(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "post_id")
	if err != nil {
		return err
	}
	vote, err := voteParam(c)
	if err != nil {
		return err
	}
	if err := h.service.CastVote(c.Request().Context(), actor, id, vote); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, nil)
}
