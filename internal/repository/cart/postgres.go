package cart

import (
	"context"

	"storefront-client/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetOrCreateByCustomer(ctx context.Context, customerID, currency string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (customer_id, currency)
VALUES ($1, $2)
ON CONFLICT (customer_id) DO UPDATE SET customer_id = EXCLUDED.customer_id
RETURNING id::text, customer_id::text, currency, created_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, customerID, currency).Scan(
		&cart.ID, &cart.CustomerID, &cart.Currency, &cart.CreatedAt,
	); err != nil {
		return nil, err
	}

	lines, total, err := r.fetchLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Lines = lines
	cart.TotalCents = total
	return &cart, nil
}

// fetchLines joins products so each line carries the current stock
// ceiling, which the client uses when clamping during reconciliation.
func (r *postgresRepo) fetchLines(ctx context.Context, cartID string) ([]domain.CartLine, int64, error) {
	const q = `
SELECT cl.id::text, cl.product_id::text, cl.quantity, cl.unit_price_cents, p.stock
FROM cart_lines cl
JOIN products p ON p.id = cl.product_id
WHERE cl.cart_id = $1
ORDER BY cl.created_at
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	var total int64
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ServerLineID, &line.ProductID, &line.Quantity, &line.UnitPriceCents, &line.Stock); err != nil {
			return nil, 0, err
		}
		total += line.UnitPriceCents * int64(line.Quantity)
		lines = append(lines, line)
	}
	return lines, total, rows.Err()
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID string, product domain.Product, quantity int) error {
	const q = `
INSERT INTO cart_lines (cart_id, product_id, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity
`
	_, err := r.pool.Exec(ctx, q, cartID, product.ID, quantity, product.PriceCents)
	return err
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE id = $2 AND cart_id = $3
`, quantity, lineID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteLine(ctx context.Context, cartID, lineID string) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`, lineID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ClearLines(ctx context.Context, cartID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	return err
}
