// Package attendance reads aggregate counts from the scan log. The log is
// written by the scanning flow, which lives outside this service.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tapinhq/tapin/internal/domain/faults"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// CountBetween counts scans for the shop with scan_time in [from, to).
func (r *Repo) CountBetween(ctx context.Context, shopID string, from, to time.Time) (int, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance_logs
		WHERE shop_id = $1 AND scan_time >= $2 AND scan_time < $3
	`, shopID, from, to)

	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("attendance count: %w", errors.Join(faults.ErrUnavailable, err))
	}
	return n, nil
}
