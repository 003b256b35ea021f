package customer

import (
	"context"
	"errors"

	"storefront-client/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (email, password_hash, first_name, last_name)
VALUES ($1, $2, $3, $4)
RETURNING id::text, email, password_hash, first_name, last_name, created_at
`
	var out domain.Customer
	err := r.pool.QueryRow(ctx, q, c.Email, c.PasswordHash, c.FirstName, c.LastName).Scan(
		&out.ID, &out.Email, &out.PasswordHash, &out.FirstName, &out.LastName, &out.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.fetch(ctx, `
SELECT id::text, email, password_hash, first_name, last_name, created_at
FROM customers
WHERE email = $1
`, email)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.fetch(ctx, `
SELECT id::text, email, password_hash, first_name, last_name, created_at
FROM customers
WHERE id = $1
`, id)
}

func (r *postgresRepo) fetch(ctx context.Context, q, arg string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.pool.QueryRow(ctx, q, arg).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.FirstName, &c.LastName, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
