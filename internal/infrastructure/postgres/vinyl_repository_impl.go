package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
)

// ErrNegativeStock is returned by UpdateStock for values below zero.
var ErrNegativeStock = errors.New("stock must not be negative")

type VinylRepository struct {
	pool *pgxpool.Pool
}

func NewVinylRepository(pool *pgxpool.Pool) *VinylRepository {
	return &VinylRepository{pool: pool}
}

// description and tracklist live as JSON text columns; a row that fails to
// parse degrades to an empty slice instead of erroring the whole read.
func decodeStrings(raw string) []string {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func encodeStrings(in []string) string {
	if in == nil {
		in = []string{}
	}
	b, _ := json.Marshal(in)
	return string(b)
}

func (r *VinylRepository) Create(ctx context.Context, v *entity.Vinyl) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO vinyls (title, artist, image, description, tracklist, stock, price, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, v.Title, v.Artist, v.Image, encodeStrings(v.Description), encodeStrings(v.Tracklist),
		v.Stock, v.Price, v.IsAvailable)

	return row.Scan(&v.ID)
}

func (r *VinylRepository) GetByID(ctx context.Context, id int64) (*entity.Vinyl, error) {
	v := &entity.Vinyl{}
	var desc, tracks string

	row := r.pool.QueryRow(ctx, `
		SELECT id, title, artist, image, description, tracklist, stock, price, is_available
		FROM vinyls
		WHERE id = $1
	`, id)

	if err := row.Scan(&v.ID, &v.Title, &v.Artist, &v.Image, &desc, &tracks,
		&v.Stock, &v.Price, &v.IsAvailable); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	v.Description = decodeStrings(desc)
	v.Tracklist = decodeStrings(tracks)
	return v, nil
}

func (r *VinylRepository) List(ctx context.Context) ([]entity.Vinyl, error) {
	return r.list(ctx, `
		SELECT id, title, artist, image, description, tracklist, stock, price, is_available
		FROM vinyls
		ORDER BY id
	`)
}

func (r *VinylRepository) ListAvailable(ctx context.Context) ([]entity.Vinyl, error) {
	return r.list(ctx, `
		SELECT id, title, artist, image, description, tracklist, stock, price, is_available
		FROM vinyls
		WHERE is_available
		ORDER BY id
	`)
}

func (r *VinylRepository) list(ctx context.Context, query string) ([]entity.Vinyl, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vinyls := []entity.Vinyl{}
	for rows.Next() {
		var v entity.Vinyl
		var desc, tracks string
		if err := rows.Scan(&v.ID, &v.Title, &v.Artist, &v.Image, &desc, &tracks,
			&v.Stock, &v.Price, &v.IsAvailable); err != nil {
			return nil, err
		}
		v.Description = decodeStrings(desc)
		v.Tracklist = decodeStrings(tracks)
		vinyls = append(vinyls, v)
	}
	return vinyls, rows.Err()
}

func (r *VinylRepository) Update(ctx context.Context, v *entity.Vinyl) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE vinyls
		SET title = $1, artist = $2, image = $3, description = $4, tracklist = $5,
		    stock = $6, price = $7, is_available = $8
		WHERE id = $9
	`, v.Title, v.Artist, v.Image, encodeStrings(v.Description), encodeStrings(v.Tracklist),
		v.Stock, v.Price, v.IsAvailable, v.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *VinylRepository) UpdateStock(ctx context.Context, id int64, newStock int) error {
	if newStock < 0 {
		return ErrNegativeStock
	}
	res, err := r.pool.Exec(ctx, `UPDATE vinyls SET stock = $1 WHERE id = $2`, newStock, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *VinylRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	res, err := r.pool.Exec(ctx, `UPDATE vinyls SET is_available = $1 WHERE id = $2`, available, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *VinylRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM vinyls WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.VinylRepository = (*VinylRepository)(nil)
