package repository

import (
	"context"

	"github.com/soundvault/vinylstore/internal/domain/entity"
)

// OrderRepository persists order snapshots. Lines are stored as JSON text
// and decoded back with an empty-slice fallback on parse failure.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	ListByUser(ctx context.Context, userID int64) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
