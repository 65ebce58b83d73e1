package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("username or email already taken")
	ErrUnknown            = errors.New("unknown error")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidPassword    = errors.New("invalid password")

	// ErrRedirected is returned instead of a result when an unauthorized
	// response sent the session back to the login screen.
	ErrRedirected = errors.New("redirected to login")
)

// NotFoundError names the resource and id a lookup failed for.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%d' not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFound builds a NotFoundError for resource and id.
func NewNotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ErrInvalidImage rejects uploads that are not recognisable images.
var ErrInvalidImage = errors.New("uploaded file is not an image")
