package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Agent struct {
	ID               string
	ReferredBy       *string
	SalesEarnings    decimal.Decimal
	ReferralEarnings decimal.Decimal
	TotalEarnings    decimal.Decimal
	SalesPortfolio   decimal.Decimal
	ReferralRewarded bool
	NINVerified      bool
	EmailVerified    bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Business struct {
	ID        string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BalanceChange is the before/after snapshot of an additive increment.
type BalanceChange struct {
	Prev decimal.Decimal
	New  decimal.Decimal
}
