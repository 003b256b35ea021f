package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	Stock       int
}

// Apply inserts catalog seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			SKU:         "SKU-TSHIRT",
			Name:        "Storefront T-Shirt",
			Description: "Soft cotton tee",
			PriceCents:  1999,
			Currency:    "USD",
			Stock:       25,
		},
		{
			SKU:         "SKU-MUG",
			Name:        "Storefront Mug",
			Description: "Ceramic mug, 350ml",
			PriceCents:  1299,
			Currency:    "USD",
			Stock:       40,
		},
		{
			SKU:         "SKU-STICKERS",
			Name:        "Sticker Pack",
			Description: "Assorted vinyl stickers",
			PriceCents:  499,
			Currency:    "USD",
			Stock:       3,
		},
		{
			SKU:         "SKU-POSTER",
			Name:        "Launch Poster",
			Description: "Limited edition print",
			PriceCents:  2499,
			Currency:    "USD",
			Stock:       0,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (sku, name, description, price_cents, currency, stock)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (sku) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    stock = EXCLUDED.stock
`
	_, err := pool.Exec(ctx, q, p.SKU, p.Name, p.Description, p.PriceCents, p.Currency, p.Stock)
	return err
}
