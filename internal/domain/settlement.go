package domain

import "github.com/shopspring/decimal"

type SettleInput struct {
	PropertyID    string
	SubPropertyID string
	BusinessID    string
	AgentID       string
	BuyerRef      string
	Amount        decimal.Decimal
}

func (in SettleInput) IsSubProperty() bool {
	return in.SubPropertyID != ""
}

type SettlementResult struct {
	Property    *Listing
	SubProperty *Listing
	Transaction *LedgerEntry
	Commissions []*LedgerEntry
	// Sub-properties marked sold by a whole-property sale
	SweptSubProperties int64
}

// Target is the listing actually paid for.
func (r *SettlementResult) Target() *Listing {
	if r.SubProperty != nil {
		return r.SubProperty
	}
	return r.Property
}
