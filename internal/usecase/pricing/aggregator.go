package pricing

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type Aggregator struct {
	Money domain.MoneyContext
}

func NewAggregator(money domain.MoneyContext) *Aggregator {
	return &Aggregator{Money: money}
}

// Aggregate computes the composite price from a property's base price and its
// sub-properties. With no sub-properties the range collapses to the base price.
func (a *Aggregator) Aggregate(basePrice decimal.Decimal, subs []*domain.Listing) domain.PriceAggregate {
	if len(subs) == 0 {
		base := a.Money.Round(basePrice)
		return domain.PriceAggregate{PriceStart: base, PriceEnd: base, TotalPrice: base}
	}

	start, end := subs[0].Price, subs[0].Price
	total := basePrice
	for _, sub := range subs {
		if sub.Price.LessThan(start) {
			start = sub.Price
		}
		if sub.Price.GreaterThan(end) {
			end = sub.Price
		}
		total = total.Add(sub.Price)
	}

	return domain.PriceAggregate{
		PriceStart: a.Money.Round(start),
		PriceEnd:   a.Money.Round(end),
		TotalPrice: a.Money.Round(total),
	}
}

// RecalculateParentPrice recomputes and persists the parent's aggregate
// through listings, which must be bound to the caller's transaction.
func (a *Aggregator) RecalculateParentPrice(ctx context.Context, listings domain.ListingRepository, propertyID string) (domain.PriceAggregate, error) {
	property, err := listings.GetProperty(ctx, propertyID)
	if err != nil {
		return domain.PriceAggregate{}, err
	}
	subs, err := listings.ListSubProperties(ctx, propertyID)
	if err != nil {
		return domain.PriceAggregate{}, err
	}

	agg := a.Aggregate(property.BasePrice, subs)
	if err := listings.SavePriceAggregate(ctx, propertyID, agg); err != nil {
		return domain.PriceAggregate{}, fmt.Errorf("recalculate price of %s: %w", propertyID, err)
	}
	return agg, nil
}
