package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func decodeLines(raw string) []entity.OrderLine {
	var lines []entity.OrderLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil || lines == nil {
		return []entity.OrderLine{}
	}
	return lines
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	if o.Lines == nil {
		o.Lines = []entity.OrderLine{}
	}
	details, err := json.Marshal(o.Lines)
	if err != nil {
		return err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total_amount, order_details, payment_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, o.UserID, o.Status, o.TotalAmount, string(details), o.PaymentMethod)

	return row.Scan(&o.ID, &o.CreatedAt)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, created_at, status, total_amount, order_details, payment_method
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []entity.Order{}
	for rows.Next() {
		var o entity.Order
		var details string
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt, &o.Status,
			&o.TotalAmount, &details, &o.PaymentMethod); err != nil {
			return nil, err
		}
		o.Lines = decodeLines(details)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.pool.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
