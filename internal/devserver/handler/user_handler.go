package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

// maxImageBytes caps profile image uploads.
const maxImageBytes = 5 << 20

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users/.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   wire.User
// @Failure      401  {object}  ErrorResponse
// @Router       /users/ [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapAll(users, toWireUser))
}

// Get handles GET /users/:user_id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      int  true  "User id"
// @Success      200      {object}  wire.User
// @Failure      401      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /users/{user_id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWireUser(user))
}

// Create handles POST /users/. No authentication is required.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      wire.UserCreate  true  "Account details"
// @Success      201   {object}  wire.User
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  wire.HTTPValidationError
// @Router       /users/ [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req wire.UserCreate
	if err := bindValid(c, &req); err != nil {
		return err
	}
	user, err := h.service.Create(c.Request().Context(), fromUserCreate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toWireUser(user))
}

// Update handles PUT /users/:user_id. Omitted fields are left unchanged.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      int              true  "User id"
// @Param        body     body      wire.UserUpdate  true  "Fields to change"
// @Success      200      {object}  wire.User
// @Failure      400      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /users/{user_id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	var req wire.UserUpdate
	if err := bindValid(c, &req); err != nil {
		return err
	}
	user, err := h.service.Update(c.Request().Context(), actor, id, fromUserUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWireUser(user))
}

// Delete handles DELETE /users/:user_id.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        user_id  path  int  true  "User id"
// @Success      200
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /users/{user_id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nil)
}

// Image handles GET /users/:user_id/image. No authentication is required.
//
// @Summary      Get a profile image
// @Tags         users
// @Produce      image/png,image/jpeg,image/gif,image/webp
// @Param        user_id  path  int  true  "User id"
// @Success      200
// @Failure      404      {object}  ErrorResponse
// @Router       /users/{user_id}/image [get]
func (h *UserHandler) Image(c echo.Context) error {
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	img, err := h.service.Image(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}

// UploadImage handles POST /users/:user_id/image with a multipart field
// named "image".
//
// @Summary      Upload a profile image
// @Tags         users
// @Accept       multipart/form-data
// @Security     BearerAuth
// @Param        user_id  path      int   true  "User id"
// @Param        image    formData  file  true  "Image file"
// @Success      200
// @Failure      400      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /users/{user_id}/image [post]
func (h *UserHandler) UploadImage(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return invalid(missing("body", "image"))
	}
	if fh.Size > maxImageBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("image exceeds %d bytes", maxImageBytes))
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := h.service.UploadImage(c.Request().Context(), actor, id, domain.Image{Data: data}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nil)
}
