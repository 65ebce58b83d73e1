package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

// UserService implements account management for authenticated callers.
type UserService struct {
	users ports.UserRepository
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	account, err := s.users.AccountByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return account.User, nil
}

func (s *UserService) Create(ctx context.Context, user domain.UserCreate) (domain.User, error) {
	return createAccount(ctx, s.users, user)
}

// Update applies a partial change. Only the account owner or a super user
// may change an account.
func (s *UserService) Update(ctx context.Context, actor domain.User, id int64, update domain.UserUpdate) (domain.User, error) {
	if err := s.authorize(ctx, actor, id); err != nil {
		return domain.User{}, err
	}

	change := ports.AccountUpdate{
		Username:  update.Username,
		Email:     update.Email,
		FirstName: update.FirstName,
		LastName:  update.LastName,
	}
	if update.Password != nil {
		if !ValidPassword(*update.Password) {
			return domain.User{}, domain.ErrInvalidPassword
		}
		hash, err := hashPassword(*update.Password)
		if err != nil {
			return domain.User{}, err
		}
		change.PasswordHash = &hash
	}

	account, err := s.users.UpdateAccount(ctx, id, change)
	if err != nil {
		return domain.User{}, err
	}
	return account.User, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.User, id int64) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.users.DeleteAccount(ctx, id)
}

func (s *UserService) Image(ctx context.Context, id int64) (domain.Image, error) {
	return s.users.Image(ctx, id)
}

// UploadImage stores image as the profile picture of id. The content type
// is sniffed from the data.
func (s *UserService) UploadImage(ctx context.Context, actor domain.User, id int64, image domain.Image) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	contentType := http.DetectContentType(image.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return domain.ErrInvalidImage
	}
	image.ContentType = contentType
	return s.users.SetImage(ctx, id, image)
}

// authorize reports a missing account before a permission problem, so
// callers see 404 for ids that do not exist.
func (s *UserService) authorize(ctx context.Context, actor domain.User, id int64) error {
	if _, err := s.users.AccountByID(ctx, id); err != nil {
		return err
	}
	if actor.ID != id && !actor.Super {
		return fmt.Errorf("you may only change your own account: %w", domain.ErrForbidden)
	}
	return nil
}
