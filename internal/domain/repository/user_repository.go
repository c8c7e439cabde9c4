package repository

import (
	"context"
	"errors"

	"github.com/soundvault/vinylstore/internal/domain/entity"
)

// ErrNotFound is returned by all repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// UserRepository defines user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id int64, password string) error
	List(ctx context.Context) ([]entity.User, error)
	Delete(ctx context.Context, id int64) error
}
