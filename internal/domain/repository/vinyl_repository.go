package repository

import (
	"context"

	"github.com/soundvault/vinylstore/internal/domain/entity"
)

// VinylRepository defines catalog database operations. UpdateStock is the
// single stock-mutation primitive shared by the cart (advisory) and checkout
// (authoritative) paths; it rejects negative values.
type VinylRepository interface {
	Create(ctx context.Context, v *entity.Vinyl) error
	GetByID(ctx context.Context, id int64) (*entity.Vinyl, error)
	List(ctx context.Context) ([]entity.Vinyl, error)
	ListAvailable(ctx context.Context) ([]entity.Vinyl, error)
	Update(ctx context.Context, v *entity.Vinyl) error
	UpdateStock(ctx context.Context, id int64, newStock int) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	Delete(ctx context.Context, id int64) error
}
