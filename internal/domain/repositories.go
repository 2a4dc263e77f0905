package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type ListingRepository interface {
	CreateProperty(ctx context.Context, property *Listing) error
	CreateSubProperty(ctx context.Context, sub *Listing) error

	// ...ForUpdate variants take a row lock held until the surrounding
	// transaction ends. Ownership is compared by the caller.
	GetPropertyForUpdate(ctx context.Context, propertyID string) (*Listing, error)
	GetSubPropertyForUpdate(ctx context.Context, subPropertyID string) (*Listing, error)

	GetProperty(ctx context.Context, propertyID string) (*Listing, error)
	GetSubProperty(ctx context.Context, subPropertyID string) (*Listing, error)
	ListSubProperties(ctx context.Context, propertyID string) ([]*Listing, error)
	CountUnpaidSubProperties(ctx context.Context, propertyID string) (int64, error)

	SaveSettlementState(ctx context.Context, listing *Listing) error
	SettleSubProperties(ctx context.Context, propertyID string, agentID, buyerRef *string) (int64, error)
	UpdateSubPropertyPrice(ctx context.Context, subPropertyID string, price decimal.Decimal) error
	SavePriceAggregate(ctx context.Context, propertyID string, agg PriceAggregate) error
}

// AgentTree resolves the direct referrer of an agent.
type AgentTree interface {
	ReferrerOf(ctx context.Context, agentID string) (string, bool, error)
}

type AgentRepository interface {
	AgentTree
	CreateAgent(ctx context.Context, agent *Agent) error
	GetAgent(ctx context.Context, agentID string) (*Agent, error)
	GetAgentForUpdate(ctx context.Context, agentID string) (*Agent, error)

	AddSalesEarnings(ctx context.Context, agentID string, amount decimal.Decimal) (BalanceChange, error)
	AddReferralEarnings(ctx context.Context, agentID string, amount decimal.Decimal) (BalanceChange, error)
	AddSalesPortfolio(ctx context.Context, agentID string, amount decimal.Decimal) error
	MarkReferralRewarded(ctx context.Context, agentID string) error
}

type BusinessRepository interface {
	CreateBusiness(ctx context.Context, business *Business) error
	GetBusiness(ctx context.Context, businessID string) (*Business, error)
	CreditBalance(ctx context.Context, businessID string, amount decimal.Decimal) (BalanceChange, error)
}

// LedgerAppender is the only write path to the ledger. There is no update or
// delete.
type LedgerAppender interface {
	Append(ctx context.Context, entry *LedgerEntry) error
}

type LedgerReader interface {
	CountByAgent(ctx context.Context, agentID string, service LedgerService) (int64, error)
	FirstByAgent(ctx context.Context, agentID string, service LedgerService) (*LedgerEntry, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*LedgerEntry, error)
}

type LedgerRepository interface {
	LedgerAppender
	LedgerReader
}

// Store bundles repositories bound to one database handle, usually a transaction.
type Store interface {
	Listings() ListingRepository
	Agents() AgentRepository
	Businesses() BusinessRepository
	Ledger() LedgerRepository
}

type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
