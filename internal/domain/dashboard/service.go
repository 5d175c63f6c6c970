package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/tapinhq/tapin/internal/domain/faults"
	"github.com/tapinhq/tapin/internal/domain/shops"
)

type ShopGetter interface {
	GetByID(ctx context.Context, id string) (*shops.Shop, error)
}

type AttendanceCounter interface {
	CountBetween(ctx context.Context, shopID string, from, to time.Time) (int, error)
}

type Summary struct {
	ServedToday   int
	ActiveMembers int
}

type Service struct {
	shops ShopGetter
	logs  AttendanceCounter
	loc   *time.Location
}

// NewService takes the reference location used for day boundaries. The
// "served today" window is [midnight, next midnight) in that zone for every
// shop; a per-shop timezone is deliberately not modeled yet.
func NewService(store ShopGetter, logs AttendanceCounter, loc *time.Location) *Service {
	return &Service{shops: store, logs: logs, loc: loc}
}

func (s *Service) Summarize(ctx context.Context, shopID string, asOf time.Time) (*Summary, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		// Not an exception path: the owner exists but setup is unfinished,
		// so the caller routes back to shop setup.
		return nil, fmt.Errorf("%w: %s", faults.ErrShopNotFound, shopID)
	}

	from, to := dayWindow(asOf, s.loc)
	served, err := s.logs.CountBetween(ctx, shopID, from, to)
	if err != nil {
		return nil, err
	}

	return &Summary{
		ServedToday:   served,
		ActiveMembers: shop.ActiveMemberCount,
	}, nil
}

func dayWindow(asOf time.Time, loc *time.Location) (time.Time, time.Time) {
	t := asOf.In(loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}
