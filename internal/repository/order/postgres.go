package order

import (
	"context"

	"storefront-client/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var out domain.Order
	err = tx.QueryRow(ctx, `
INSERT INTO orders (customer_id, currency, total_cents)
VALUES ($1, $2, $3)
RETURNING id::text, customer_id::text, currency, total_cents, created_at
`, o.CustomerID, o.Currency, o.TotalCents).Scan(
		&out.ID, &out.CustomerID, &out.Currency, &out.TotalCents, &out.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, line := range o.Lines {
		var lineID string
		err = tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, product_id, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`, out.ID, line.ProductID, line.Quantity, line.UnitPriceCents, line.UnitPriceCents*int64(line.Quantity)).Scan(&lineID)
		if err != nil {
			return nil, err
		}
		line.ID = lineID
		line.TotalCents = line.UnitPriceCents * int64(line.Quantity)
		out.Lines = append(out.Lines, line)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, customer_id::text, currency, total_cents, created_at
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Currency, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		lines, err := r.fetchLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (r *postgresRepo) fetchLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const q = `
SELECT id::text, product_id::text, quantity, unit_price_cents, total_cents
FROM order_lines
WHERE order_id = $1
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.OrderLine{}
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Quantity, &line.UnitPriceCents, &line.TotalCents); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
