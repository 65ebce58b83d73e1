package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/segmentation-fault/forum/internal/api/transport"
	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
)

const (
	usersPrefix  = "/users"
	userResource = "User"
)

// UserClient manages accounts and profile images.
type UserClient struct {
	c *Client
}

func userPath(id int64) string {
	return fmt.Sprintf("%s/%d", usersPrefix, id)
}

func (u *UserClient) List(ctx context.Context) ([]domain.User, error) {
	resp, err := u.c.transport.Get(ctx, u.c.session, usersPrefix+"/")
	users, err := decodeChecked[[]wire.User](resp, err, u.c.ok(http.StatusOK))
	if err != nil {
		return nil, err
	}
	return internaliseUsers(users)
}

func (u *UserClient) Create(ctx context.Context, user domain.UserCreate) (domain.User, error) {
	body, err := transport.JSONBody(externaliseUserCreate(user))
	if err != nil {
		return domain.User{}, err
	}
	resp, err := u.c.transport.Post(ctx, u.c.session, usersPrefix+"/", body)
	created, err := decodeChecked[wire.User](resp, err, u.c.ok(http.StatusCreated))
	if err != nil {
		return domain.User{}, err
	}
	return internaliseUser(created)
}

func (u *UserClient) Get(ctx context.Context, id int64) (domain.User, error) {
	resp, err := u.c.transport.Get(ctx, u.c.session, userPath(id))
	user, err := decodeChecked[wire.User](resp, err, u.c.ok(http.StatusOK).notFound(userResource, id))
	if err != nil {
		return domain.User{}, err
	}
	return internaliseUser(user)
}

// Update changes only the fields set in update.
func (u *UserClient) Update(ctx context.Context, id int64, update domain.UserUpdate) (domain.User, error) {
	body, err := transport.JSONBody(externaliseUserUpdate(update))
	if err != nil {
		return domain.User{}, err
	}
	resp, err := u.c.transport.Put(ctx, u.c.session, userPath(id), body)
	user, err := decodeChecked[wire.User](resp, err, u.c.ok(http.StatusOK).notFound(userResource, id))
	if err != nil {
		return domain.User{}, err
	}
	return internaliseUser(user)
}

func (u *UserClient) Delete(ctx context.Context, id int64) error {
	resp, err := u.c.transport.Delete(ctx, u.c.session, userPath(id))
	return classify(resp, err, u.c.ok(http.StatusOK).notFound(userResource, id))
}

// ImageURL is the address of a user's profile image. No request is made.
func (u *UserClient) ImageURL(id int64) string {
	return u.c.transport.URL(userPath(id)+"/image", nil)
}

// Image downloads a user's profile image.
func (u *UserClient) Image(ctx context.Context, id int64) ([]byte, error) {
	resp, err := u.c.transport.Get(ctx, u.c.session, userPath(id)+"/image")
	if err := classify(resp, err, u.c.ok(http.StatusOK).notFound(userResource, id)); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// UploadImage replaces a user's profile image with the contents of image,
// sent as the "image" field of a multipart form.
func (u *UserClient) UploadImage(ctx context.Context, id int64, filename string, image io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return fmt.Errorf("build image form: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("build image form: %w", err)
	}

	resp, err := u.c.transport.Post(ctx, u.c.session, userPath(id)+"/image", &buf,
		transport.WithoutJSONContentType(),
		transport.WithHeader("Content-Type", mw.FormDataContentType()),
	)
	return classify(resp, err, u.c.ok(http.StatusOK).notFound(userResource, id))
}
