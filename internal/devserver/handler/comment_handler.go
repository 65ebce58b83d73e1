package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// List handles GET /comments/.
//
// @Summary      List comments, newest first
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  wire.Comment
// @Router       /comments/ [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapAll(comments, toWireComment))
}

// Get handles GET /comments/:comment_id.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        comment_id  path      int  true  "Comment id"
// @Success      200         {object}  wire.Comment
// @Failure      404         {object}  ErrorResponse
// @Router       /comments/{comment_id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "comment_id")
	if err != nil {
		return err
	}
	comment, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWireComment(comment))
}

// Create handles POST /comments/ and notifies the post's author.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      wire.CommentCreate  true  "Comment"
// @Success      201   {object}  wire.Comment
// @Failure      404   {object}  ErrorResponse
// @Failure      422   {object}  wire.HTTPValidationError
// @Router       /comments/ [post]
func (h *CommentHandler) Create(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req wire.CommentCreate
	if err := bindValid(c, &req); err != nil {
		return err
	}
	comment, err := h.service.Create(c.Request().Context(), actor, domain.CommentCreate{Content: req.Content, Post: req.Post})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toWireComment(comment))
}

// Update handles PUT /comments/:comment_id.
//
// @Summary      Update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        comment_id  path      int                 true  "Comment id"
// @Param        body        body      wire.CommentUpdate  true  "Comment"
// @Success      200         {object}  wire.Comment
// @Failure      403         {object}  ErrorResponse
// @Failure      404         {object}  ErrorResponse
// @Router       /comments/{comment_id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "comment_id")
	if err != nil {
		return err
	}
	var req wire.CommentUpdate
	if err := bindValid(c, &req); err != nil {
		return err
	}
	comment, err := h.service.Update(c.Request().Context(), actor, id, domain.CommentUpdate{Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWireComment(comment))
}

// Delete handles DELETE /comments/:comment_id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        comment_id  path  int  true  "Comment id"
// @Success      200
// @Failure      403         {object}  ErrorResponse
// @Failure      404         {object}  ErrorResponse
// @Router       /comments/{comment_id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "comment_id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nil)
}

// Votes handles GET /comments/:comment_id/votes.
//
// @Summary      Comment score (upvotes minus downvotes)
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        comment_id  path       int  true  "Comment id"
// @Success      200         {integer}  int
// @Failure      404         {object}   ErrorResponse
// @Router       /comments/{comment_id}/votes [get]
func (h *CommentHandler) Votes(c echo.Context) error {
	id, err := pathID(c, "comment_id")
	if err != nil {
		return err
	}
	score, err := h.service.Votes(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, score)
}

// Vote handles GET /comments/:comment_id/vote.
//
// @Summary      The caller's vote on a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        comment_id  path      int  true  "Comment id"
// @Success      200         {string}  string  "\"true\", \"false\" or \"null\""
// @Failure      404         {object}  ErrorResponse
// @Router       /comments/{comment_id}/vote [get]
func (h *CommentHandler) Vote(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "comment_id")
	if err != nil {
		return err
	}
	vote, err := h.service.Vote(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vote.String())
}

// CastVote handles POST /comments/:comment_id/vote?type=true|false|null.
//
// @Summary      Vote on a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        comment_id  path   int     true   "Comment id"
// @Param        type        query  string  false  "true, false or null"
// @Success      201
// @Failure      404         {object}  ErrorResponse
// @Failure      422         {object}  wire.HTTPValidationError
// @Router       /comments/{comment_id}/vote [post]
func (h *CommentHandler) CastVote(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "comment_id")
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
