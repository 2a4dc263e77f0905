package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerDirection string

const (
	Credit LedgerDirection = "credit"
	Debit  LedgerDirection = "debit"
)

type LedgerService string

const (
	ServiceSale               LedgerService = "sale"
	ServiceSalesCommission    LedgerService = "sales_commission"
	ServiceReferralCommission LedgerService = "referral_commission"
	ServiceReferralBonus      LedgerService = "referral_bonus"
)

type LedgerStatus string

const (
	LedgerSuccessful LedgerStatus = "successful"
	LedgerPending    LedgerStatus = "pending"
	LedgerCancelled  LedgerStatus = "cancelled"
	LedgerFailed     LedgerStatus = "failed"
)

type LedgerRole string

const (
	RoleProperty    LedgerRole = "property"
	RoleSubProperty LedgerRole = "subProperty"
	RoleAgent       LedgerRole = "agent"
	RoleReferrer    LedgerRole = "referrer"
)

// LedgerEntry is append-only. Corrections are new offsetting entries.
type LedgerEntry struct {
	ID            string
	Reference     string
	AgentID       *string
	BusinessID    string
	PropertyID    string
	SubPropertyID *string
	Direction     LedgerDirection
	Service       LedgerService
	Amount        decimal.Decimal
	Status        LedgerStatus
	Role          LedgerRole
	PrevBalance   decimal.Decimal
	NewBalance    decimal.Decimal
	CreatedAt     time.Time
}
