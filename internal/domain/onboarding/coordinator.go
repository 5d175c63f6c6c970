package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ttacon/libphonenumber"

	"github.com/tapinhq/tapin/internal/domain/accounts"
	"github.com/tapinhq/tapin/internal/domain/faults"
	"github.com/tapinhq/tapin/internal/domain/identity"
	"github.com/tapinhq/tapin/internal/domain/roles"
	"github.com/tapinhq/tapin/internal/infra/metrics"
)

const defaultPhoneRegion = "IN"

type Coordinator struct {
	dir      accounts.Directory
	resolver *roles.Resolver
	log      *slog.Logger
}

func NewCoordinator(dir accounts.Directory, resolver *roles.Resolver, log *slog.Logger) *Coordinator {
	return &Coordinator{dir: dir, resolver: resolver, log: log}
}

// ChooseRole performs the one-time role selection: a minimal insert of
// {id, phone} into the chosen account table. The UI has already seen
// Unresolved, but we re-verify here so two concurrent attempts for the same
// identity cannot both write; the table's primary key is the final arbiter
// and its conflict maps to ErrAlreadyOnboarded.
func (c *Coordinator) ChooseRole(ctx context.Context, id identity.Identity, role roles.RoleState) (roles.RoleState, error) {
	if role != roles.Owner && role != roles.Customer {
		return roles.Unresolved, fmt.Errorf("%w: role must be owner or customer", faults.ErrValidation)
	}
	if err := checkPhone(id.Phone); err != nil {
		return roles.Unresolved, err
	}

	current, err := c.resolver.Resolve(ctx, id)
	if err != nil {
		return roles.Unresolved, err
	}
	if current != roles.Unresolved {
		return current, fmt.Errorf("%w: already %s", faults.ErrAlreadyOnboarded, current)
	}

	switch role {
	case roles.Owner:
		err = c.dir.InsertOwner(ctx, accounts.OwnerAccount{ID: id.ID, Phone: id.Phone})
	case roles.Customer:
		err = c.dir.InsertCustomer(ctx, accounts.CustomerAccount{ID: id.ID, Phone: id.Phone})
	}
	if err != nil {
		if errors.Is(err, faults.ErrConflict) {
			// Lost the race to a concurrent attempt.
			return roles.Unresolved, fmt.Errorf("%w: %v", faults.ErrAlreadyOnboarded, err)
		}
		return roles.Unresolved, err
	}

	c.log.Info("role chosen", "identity_id", id.ID, "role", role)
	metrics.OnboardingTotal.WithLabelValues(string(role)).Inc()
	return role, nil
}

// checkPhone allows an empty phone (the provider does not always supply one;
// the record stores "" like the rest of the product expects) but rejects a
// malformed non-empty value.
func checkPhone(phone string) error {
	if phone == "" {
		return nil
	}
	num, err := libphonenumber.Parse(phone, defaultPhoneRegion)
	if err != nil {
		return fmt.Errorf("%w: phone: %v", faults.ErrValidation, err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return fmt.Errorf("%w: phone %q is not a valid number", faults.ErrValidation, phone)
	}
	return nil
}
