package shops

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tapinhq/tapin/internal/domain/faults"
)

// Store is the shop/plan slice of the account directory. Find/Get return
// (nil, nil) for no record; infra failures wrap faults.ErrUnavailable.
type Store interface {
	GetByID(ctx context.Context, id string) (*Shop, error)
	FindByOwner(ctx context.Context, ownerID string) (*Shop, error)
	InsertShop(ctx context.Context, s Shop) error
	InsertPlan(ctx context.Context, p Plan) error
	DeleteShop(ctx context.Context, id string) error
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const shopColumns = `id, owner_id, name, shop_code, location, shop_status, active_member_count, created_at`

func (r *Repo) GetByID(ctx context.Context, id string) (*Shop, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+shopColumns+` FROM shops WHERE id = $1`, id)
	return scanShop(row, "shops select")
}

func (r *Repo) FindByOwner(ctx context.Context, ownerID string) (*Shop, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+shopColumns+` FROM shops WHERE owner_id = $1`, ownerID)
	return scanShop(row, "shops select by owner")
}

func scanShop(row pgx.Row, op string) (*Shop, error) {
	var s Shop
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Code, &s.Location, &s.Status, &s.ActiveMemberCount, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable(op, err)
	}
	return &s, nil
}

func (r *Repo) InsertShop(ctx context.Context, s Shop) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO shops (id, owner_id, name, shop_code, location, shop_status, active_member_count, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, s.ID, s.OwnerID, s.Name, s.Code, s.Location, s.Status, s.ActiveMemberCount, s.CreatedAt)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == "shops_shop_code_key":
			return fmt.Errorf("shops insert: %w", faults.ErrDuplicateShopCode)
		case pgErr.Code == "23505" && pgErr.ConstraintName == "shops_owner_id_key":
			return fmt.Errorf("shops insert: %w", faults.ErrOwnerHasShop)
		case pgErr.Code == "23505":
			return fmt.Errorf("shops insert: %w", faults.ErrConflict)
		case pgErr.Code == "23503":
			// FK to owners: onboarding has not created the owner account yet.
			return fmt.Errorf("shops insert: owner account missing: %w", faults.ErrValidation)
		}
	}
	return unavailable("shops insert", err)
}

func (r *Repo) InsertPlan(ctx context.Context, p Plan) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO shop_plans (id, shop_id, name, price, validity_days, daily_limit, total_credits, shop_plan_status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, p.ID, p.ShopID, p.Name, p.Price, p.ValidityDays, p.DailyLimit, p.TotalCredits, p.Status, p.CreatedAt)
	if err != nil {
		return unavailable("shop_plans insert", err)
	}
	return nil
}

func (r *Repo) DeleteShop(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return unavailable("shops delete", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(faults.ErrUnavailable, err))
}
