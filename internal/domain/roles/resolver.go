package roles

import (
	"context"
	"log/slog"

	"github.com/tapinhq/tapin/internal/domain/accounts"
	"github.com/tapinhq/tapin/internal/domain/identity"
	"github.com/tapinhq/tapin/internal/infra/metrics"
)

type RoleState string

const (
	Unresolved RoleState = "unresolved"
	Owner      RoleState = "owner"
	Customer   RoleState = "customer"
)

// Alerter receives data-integrity fault notifications. A no-op implementation
// is fine when ops alerts are not configured.
type Alerter interface {
	RoleIntegrityFault(ctx context.Context, identityID string)
}

type Resolver struct {
	dir   accounts.Directory
	log   *slog.Logger
	alert Alerter
}

func NewResolver(dir accounts.Directory, log *slog.Logger, alert Alerter) *Resolver {
	return &Resolver{dir: dir, log: log, alert: alert}
}

// Resolve determines which account kind the identity holds, in a single
// directory round trip. A store failure is returned as-is (it wraps
// faults.ErrUnavailable) and must never be read as Unresolved: that would
// send an existing user back through onboarding.
func (r *Resolver) Resolve(ctx context.Context, id identity.Identity) (RoleState, error) {
	owner, customer, err := r.dir.LookupKinds(ctx, id.ID)
	if err != nil {
		return Unresolved, err
	}

	switch {
	case owner && customer:
		// Violates the one-kind-per-identity invariant. Pick Owner
		// deterministically and flag it loudly rather than guessing silently.
		r.log.Error("identity present in both account tables", "identity_id", id.ID)
		metrics.RoleIntegrityFaultTotal.Inc()
		r.alert.RoleIntegrityFault(ctx, id.ID)
		return Owner, nil
	case owner:
		return Owner, nil
	case customer:
		return Customer, nil
	default:
		return Unresolved, nil
	}
}
