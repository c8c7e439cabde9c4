package repository

import (
	"context"

	"github.com/soundvault/vinylstore/internal/domain/entity"
)

// CartRepository is the durable side of the cart: one row per (user, vinyl)
// pair. GetByUser returns entries hydrated with current vinyl snapshots.
type CartRepository interface {
	GetByUser(ctx context.Context, userID int64) ([]entity.CartItem, error)
	ReplaceForUser(ctx context.Context, userID int64, items []entity.CartItem) error
	DeleteForUser(ctx context.Context, userID int64) error
}
