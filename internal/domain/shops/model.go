package shops

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShopStatus string

const StatusOpen ShopStatus = "open"

type Shop struct {
	ID                string
	OwnerID           string
	Name              string
	Code              string // uppercase-normalized, unique across all shops
	Location          string
	Status            ShopStatus
	ActiveMemberCount int // denormalized, maintained by membership flows
	CreatedAt         time.Time
}

type PlanStatus string

const PlanActive PlanStatus = "active"

type Plan struct {
	ID           string
	ShopID       string
	Name         string
	Price        decimal.Decimal
	ValidityDays int
	DailyLimit   int
	TotalCredits int
	Status       PlanStatus
	CreatedAt    time.Time
}

// Default plan policy: every new shop gets one sellable plan immediately.
// Business constants, not computed.
const (
	defaultPlanName     = "Standard Monthly"
	defaultValidityDays = 30
	defaultDailyLimit   = 2
	defaultTotalCredits = 60
)

var defaultPlanPrice = decimal.NewFromInt(2500)
