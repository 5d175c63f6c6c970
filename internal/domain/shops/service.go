package shops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tapinhq/tapin/internal/domain/faults"
	"github.com/tapinhq/tapin/internal/infra/metrics"
)

type CreateInput struct {
	Name     string
	Code     string
	Location string
}

// Alerter receives ops notifications for new shops.
type Alerter interface {
	ShopCreated(ctx context.Context, name, code string)
}

type Service struct {
	store Store
	log   *slog.Logger
	alert Alerter
}

func NewService(store Store, log *slog.Logger, alert Alerter) *Service {
	return &Service{store: store, log: log, alert: alert}
}

// Create sets up a shop together with its default plan. The two writes are
// all-or-nothing from the caller's perspective: if the plan insert fails the
// shop insert is compensated with a delete, run on a detached context so an
// abandoned request still converges to a consistent end state.
//
// The 1:1 owner:shop invariant is checked up front for a clean error, and
// enforced for real by the owner_id unique key underneath.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*Shop, error) {
	name := strings.TrimSpace(in.Name)
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if name == "" || code == "" {
		return nil, fmt.Errorf("%w: name and code are required", faults.ErrValidation)
	}

	existing, err := s.store.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: shop %s", faults.ErrOwnerHasShop, existing.Code)
	}

	now := time.Now().UTC()
	shop := Shop{
		ID:                uuid.NewString(),
		OwnerID:           ownerID,
		Name:              name,
		Code:              code,
		Location:          strings.TrimSpace(in.Location),
		Status:            StatusOpen,
		ActiveMemberCount: 0,
		CreatedAt:         now,
	}
	if err := s.store.InsertShop(ctx, shop); err != nil {
		if errors.Is(err, faults.ErrDuplicateShopCode) {
			metrics.DuplicateShopCodeTotal.Inc()
		}
		return nil, err
	}

	plan := Plan{
		ID:           uuid.NewString(),
		ShopID:       shop.ID,
		Name:         defaultPlanName,
		Price:        defaultPlanPrice,
		ValidityDays: defaultValidityDays,
		DailyLimit:   defaultDailyLimit,
		TotalCredits: defaultTotalCredits,
		Status:       PlanActive,
		CreatedAt:    now,
	}
	if err := s.store.InsertPlan(ctx, plan); err != nil {
		// A shop without a plan must never stay reachable. Compensate even if
		// the caller has gone away.
		cleanup := context.WithoutCancel(ctx)
		if delErr := s.store.DeleteShop(cleanup, shop.ID); delErr != nil {
			s.log.Error("shop left without plan, compensation failed",
				"shop_id", shop.ID, "plan_err", err, "delete_err", delErr)
			return nil, fmt.Errorf("shop setup inconsistent, manual cleanup needed for shop %s: %w", shop.ID, errors.Join(err, delErr))
		}
		s.log.Warn("plan insert failed, shop rolled back", "shop_id", shop.ID, "err", err)
		return nil, err
	}

	s.log.Info("shop created", "shop_id", shop.ID, "code", shop.Code, "owner_id", ownerID)
	metrics.ShopsCreatedTotal.Inc()
	s.alert.ShopCreated(ctx, shop.Name, shop.Code)
	return &shop, nil
}
