package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OnboardingTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tapin_onboarding_total",
		Help: "Completed role choices by role.",
	}, []string{"role"})

	ShopsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapin_shops_created_total",
		Help: "Shops created together with their default plan.",
	})

	DuplicateShopCodeTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapin_duplicate_shop_code_total",
		Help: "Shop setup attempts rejected on a taken code.",
	})

	RoleIntegrityFaultTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapin_role_integrity_fault_total",
		Help: "Identities found in both account tables.",
	})
)
