package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogUsecase interface {
	CreateProperty(ctx context.Context, in CreatePropertyInput) (*domain.Listing, error)
	AddSubProperty(ctx context.Context, businessID, propertyID string, price decimal.Decimal) (*Result, error)
	UpdateSubPropertyPrice(ctx context.Context, businessID, subPropertyID string, price decimal.Decimal) (*Result, error)
}

type CreatePropertyInput struct {
	BusinessID string
	AgentID    string
	BasePrice  decimal.Decimal
}

type Result struct {
	Property    *domain.Listing
	SubProperty *domain.Listing
}

// DefaultCatalogUsecase is the listing edit path. Unlike settlement, every
// change here recomputes the parent price from scratch.
type DefaultCatalogUsecase struct {
	TxManager  domain.TxManager
	Aggregator *pricing.Aggregator
	Money      domain.MoneyContext
	Metrics    *metrics.SettlementMetrics
}

func NewDefaultCatalogUsecase(txManager domain.TxManager, aggregator *pricing.Aggregator, money domain.MoneyContext, m *metrics.SettlementMetrics) *DefaultCatalogUsecase {
	return &DefaultCatalogUsecase{TxManager: txManager, Aggregator: aggregator, Money: money, Metrics: m}
}

func (uc *DefaultCatalogUsecase) checkPrice(price decimal.Decimal, allowZero bool) error {
	if price.IsNegative() || (!allowZero && price.IsZero()) {
		return domain.NewError(domain.CodeInvalidInput, "price must be positive, got "+price.String(), nil)
	}
	if !uc.Money.IsRepresentable(price) {
		return domain.NewError(domain.CodeInvalidInput,
			fmt.Sprintf("price %s has more than %d decimal places", price, uc.Money.Scale), nil)
	}
	return nil
}

func (uc *DefaultCatalogUsecase) CreateProperty(ctx context.Context, in CreatePropertyInput) (*domain.Listing, error) {
	if err := uc.checkPrice(in.BasePrice, true); err != nil {
		return nil, err
	}

	property := &domain.Listing{
		ID:            uuid.New().String(),
		Kind:          domain.KindProperty,
		BusinessID:    in.BusinessID,
		Price:         in.BasePrice,
		BasePrice:     in.BasePrice,
		PaidAmount:    decimal.Zero,
		PriceStart:    in.BasePrice,
		PriceEnd:      in.BasePrice,
		TotalPrice:    in.BasePrice,
		PaymentStatus: domain.PaymentPending,
		ListingStatus: domain.ListingAvailable,
	}
	if in.AgentID != "" {
		agentID := in.AgentID
		property.AgentID = &agentID
	}

	err := uc.TxManager.WithinTx(ctx, func(ctx context.Context, store domain.Store) error {
		if _, err := store.Businesses().GetBusiness(ctx, in.BusinessID); err != nil {
			return err
		}
		if property.AgentID != nil {
			if _, err := store.Agents().GetAgent(ctx, *property.AgentID); err != nil {
				return err
			}
		}
		if err := store.Listings().CreateProperty(ctx, property); err != nil {
			return err
		}
		created, err := store.Listings().GetProperty(ctx, property.ID)
		if err != nil {
			return err
		}
		property = created
		return nil
	})
	if err != nil {
		uc.Metrics.RecordError("create_property", err)
		return nil, err
	}
	return property, nil
}

func (uc *DefaultCatalogUsecase) AddSubProperty(ctx context.Context, businessID, propertyID string, price decimal.Decimal) (*Result, error) {
	if err := uc.checkPrice(price, false); err != nil {
		return nil, err
	}

	var result *Result
	err := uc.TxManager.WithinTx(ctx, func(ctx context.Context, store domain.Store) error {
		property, err := uc.lockOwnedProperty(ctx, store, businessID, propertyID)
		if err != nil {
			return err
		}

		parentID := property.ID
		sub := &domain.Listing{
			ID:            uuid.New().String(),
			Kind:          domain.KindSubProperty,
			BusinessID:    businessID,
			ParentID:      &parentID,
			Price:         price,
			PaidAmount:    decimal.Zero,
			PaymentStatus: domain.PaymentPending,
			ListingStatus: domain.ListingAvailable,
			CreatedAt:     time.Now(),
		}
		if err := store.Listings().CreateSubProperty(ctx, sub); err != nil {
			return err
		}

		result, err = uc.reprice(ctx, store, property.ID, sub.ID)
		return err
	})
	if err != nil {
		uc.Metrics.RecordError("add_sub_property", err)
		return nil, err
	}
	uc.Metrics.RecordRepricing("sub_property_added")
	slog.Info("sub-property added", "property_id", propertyID, "sub_property_id", result.SubProperty.ID,
		"price", uc.Money.Format(price), "total_price", uc.Money.Format(result.Property.TotalPrice))
	return result, nil
}

func (uc *DefaultCatalogUsecase) UpdateSubPropertyPrice(ctx context.Context, businessID, subPropertyID string, price decimal.Decimal) (*Result, error) {
	if err := uc.checkPrice(price, false); err != nil {
		return nil, err
	}

	var result *Result
	err := uc.TxManager.WithinTx(ctx, func(ctx context.Context, store domain.Store) error {
		listings := store.Listings()

		// Unlocked read to find the parent; the parent is locked first below.
		current, err := listings.GetSubProperty(ctx, subPropertyID)
		if err != nil {
			return err
		}
		if current.ParentID == nil {
			return domain.NewError(domain.CodeInternal, "sub-property "+subPropertyID+" has no parent", nil)
		}
		property, err := uc.lockOwnedProperty(ctx, store, businessID, *current.ParentID)
		if err != nil {
			return err
		}

		sub, err := listings.GetSubPropertyForUpdate(ctx, subPropertyID)
		if err != nil {
			return err
		}
		if sub.IsPaid() {
			return domain.NewError(domain.CodeAlreadyPaid, "sub-property "+sub.ID+" is already paid", nil)
		}
		if err := listings.UpdateSubPropertyPrice(ctx, sub.ID, price); err != nil {
			return err
		}

		result, err = uc.reprice(ctx, store, property.ID, sub.ID)
		return err
	})
	if err != nil {
		uc.Metrics.RecordError("update_sub_property_price", err)
		return nil, err
	}
	uc.Metrics.RecordRepricing("sub_property_price_changed")
	slog.Info("sub-property repriced", "sub_property_id", subPropertyID,
		"price", uc.Money.Format(price), "total_price", uc.Money.Format(result.Property.TotalPrice))
	return result, nil
}

func (uc *DefaultCatalogUsecase) lockOwnedProperty(ctx context.Context, store domain.Store, businessID, propertyID string) (*domain.Listing, error) {
	property, err := store.Listings().GetPropertyForUpdate(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.BusinessID != businessID {
		return nil, domain.NewError(domain.CodeUnauthorized,
			fmt.Sprintf("property %s is not owned by business %s", propertyID, businessID), nil)
	}
	if property.IsPaid() {
		return nil, domain.NewError(domain.CodeAlreadyPaid, "property "+propertyID+" is already paid", nil)
	}
	return property, nil
}

func (uc *DefaultCatalogUsecase) reprice(ctx context.Context, store domain.Store, propertyID, subPropertyID string) (*Result, error) {
	listings := store.Listings()
	if _, err := uc.Aggregator.RecalculateParentPrice(ctx, listings, propertyID); err != nil {
		return nil, err
	}

	property, err := listings.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	sub, err := listings.GetSubProperty(ctx, subPropertyID)
	if err != nil {
		return nil, err
	}
	return &Result{Property: property, SubProperty: sub}, nil
}
