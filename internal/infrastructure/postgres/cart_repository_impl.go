package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetByUser hydrates cart rows with current vinyl snapshots. Rows whose
// vinyl has been deleted from the catalog are silently skipped.
func (r *CartRepository) GetByUser(ctx context.Context, userID int64) ([]entity.CartItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.quantity,
		       v.id, v.title, v.artist, v.image, v.description, v.tracklist,
		       v.stock, v.price, v.is_available
		FROM carts c
		JOIN vinyls v ON v.id = c.vinyl_id
		WHERE c.user_id = $1
		ORDER BY c.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []entity.CartItem{}
	for rows.Next() {
		var it entity.CartItem
		var desc, tracks string
		if err := rows.Scan(&it.Quantity,
			&it.Vinyl.ID, &it.Vinyl.Title, &it.Vinyl.Artist, &it.Vinyl.Image, &desc, &tracks,
			&it.Vinyl.Stock, &it.Vinyl.Price, &it.Vinyl.IsAvailable); err != nil {
			return nil, err
		}
		it.Vinyl.Description = decodeStrings(desc)
		it.Vinyl.Tracklist = decodeStrings(tracks)
		items = append(items, it)
	}
	return items, rows.Err()
}

// ReplaceForUser rewrites the user's rows as individual statements, matching
// the store's statement-level serialization; there is no surrounding
// transaction for the cart/stock/order triad.
func (r *CartRepository) ReplaceForUser(ctx context.Context, userID int64, items []entity.CartItem) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := r.pool.Exec(ctx, `
			INSERT INTO carts (user_id, vinyl_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, vinyl_id) DO UPDATE SET quantity = EXCLUDED.quantity
		`, userID, it.Vinyl.ID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *CartRepository) DeleteForUser(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}

var _ repository.CartRepository = (*CartRepository)(nil)
