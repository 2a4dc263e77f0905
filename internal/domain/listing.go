package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentInstallment PaymentStatus = "installment"
	PaymentPaid        PaymentStatus = "paid"
)

type ListingStatus string

const (
	ListingUnavailable ListingStatus = "unavailable"
	ListingAvailable   ListingStatus = "available"
	ListingSold        ListingStatus = "sold"
)

type ListingKind string

const (
	KindProperty    ListingKind = "property"
	KindSubProperty ListingKind = "subProperty"
)

// Listing is either a property or one of its sub-properties. BasePrice and
// the aggregate fields are only meaningful for properties, ParentID only for
// sub-properties.
type Listing struct {
	ID         string
	Kind       ListingKind
	BusinessID string
	AgentID    *string
	ParentID   *string

	Price      decimal.Decimal
	BasePrice  decimal.Decimal
	PaidAmount decimal.Decimal
	PriceStart decimal.Decimal
	PriceEnd   decimal.Decimal
	TotalPrice decimal.Decimal

	PaymentStatus PaymentStatus
	ListingStatus ListingStatus
	SoldTo        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l *Listing) IsPaid() bool {
	return l.PaymentStatus == PaymentPaid
}

// MarkPaid moves the listing into its terminal state. paidAmount equals price
// at the moment of transition.
func (l *Listing) MarkPaid(buyerRef *string) {
	l.PaidAmount = l.Price
	l.PaymentStatus = PaymentPaid
	l.ListingStatus = ListingSold
	if buyerRef != nil {
		l.SoldTo = buyerRef
	}
}

// PriceAggregate is the composite price of a property computed from its
// base price and its sub-properties.
type PriceAggregate struct {
	PriceStart decimal.Decimal
	PriceEnd   decimal.Decimal
	TotalPrice decimal.Decimal
}
