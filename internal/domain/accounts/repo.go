package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tapinhq/tapin/internal/domain/faults"
)

// Directory is the account-directory surface the core reads and writes.
// Find* return (nil, nil) when no record exists; any non-nil error means the
// store itself failed and wraps faults.ErrUnavailable.
type Directory interface {
	FindOwner(ctx context.Context, id string) (*OwnerAccount, error)
	FindCustomer(ctx context.Context, id string) (*CustomerAccount, error)
	// LookupKinds reports which account tables hold the id, in one round trip.
	LookupKinds(ctx context.Context, id string) (owner, customer bool, err error)
	InsertOwner(ctx context.Context, rec OwnerAccount) error
	InsertCustomer(ctx context.Context, rec CustomerAccount) error
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) FindOwner(ctx context.Context, id string) (*OwnerAccount, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, phone, created_at FROM owners WHERE id = $1
	`, id)

	var a OwnerAccount
	if err := row.Scan(&a.ID, &a.Phone, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("owners select", err)
	}
	return &a, nil
}

func (r *Repo) FindCustomer(ctx context.Context, id string) (*CustomerAccount, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, phone, created_at FROM customers WHERE id = $1
	`, id)

	var a CustomerAccount
	if err := row.Scan(&a.ID, &a.Phone, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("customers select", err)
	}
	return &a, nil
}

func (r *Repo) LookupKinds(ctx context.Context, id string) (bool, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM owners WHERE id = $1),
		       EXISTS (SELECT 1 FROM customers WHERE id = $1)
	`, id)

	var owner, customer bool
	if err := row.Scan(&owner, &customer); err != nil {
		return false, false, unavailable("kind lookup", err)
	}
	return owner, customer, nil
}

func (r *Repo) InsertOwner(ctx context.Context, rec OwnerAccount) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO owners (id, phone) VALUES ($1, $2)
	`, rec.ID, rec.Phone)
	return insertErr("owners insert", err)
}

func (r *Repo) InsertCustomer(ctx context.Context, rec CustomerAccount) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (id, phone) VALUES ($1, $2)
	`, rec.ID, rec.Phone)
	return insertErr("customers insert", err)
}

func insertErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, faults.ErrConflict)
	}
	return unavailable(op, err)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(faults.ErrUnavailable, err))
}
