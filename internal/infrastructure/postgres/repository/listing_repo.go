package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultListingRepository struct {
	DB *gorm.DB
}

func NewDefaultListingRepository(db *gorm.DB) *DefaultListingRepository {
	return &DefaultListingRepository{DB: db}
}

func (r *DefaultListingRepository) CreateProperty(ctx context.Context, property *domain.Listing) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMProperty(property)).Error; err != nil {
		return fmt.Errorf("create property: %w", err)
	}
	return nil
}

func (r *DefaultListingRepository) CreateSubProperty(ctx context.Context, sub *domain.Listing) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMSubProperty(sub)).Error; err != nil {
		return fmt.Errorf("create sub-property: %w", err)
	}
	return nil
}

func (r *DefaultListingRepository) GetPropertyForUpdate(ctx context.Context, propertyID string) (*domain.Listing, error) {
	var model models.PropertyModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", propertyID).Error; err != nil {
		return nil, wrapErr(err, "property")
	}
	return mappers.ToDomainProperty(&model), nil
}

func (r *DefaultListingRepository) GetSubPropertyForUpdate(ctx context.Context, subPropertyID string) (*domain.Listing, error) {
	var model models.SubPropertyModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", subPropertyID).Error; err != nil {
		return nil, wrapErr(err, "sub-property")
	}
	return mappers.ToDomainSubProperty(&model), nil
}

func (r *DefaultListingRepository) GetProperty(ctx context.Context, propertyID string) (*domain.Listing, error) {
	var model models.PropertyModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", propertyID).Error; err != nil {
		return nil, wrapErr(err, "property")
	}
	return mappers.ToDomainProperty(&model), nil
}

func (r *DefaultListingRepository) GetSubProperty(ctx context.Context, subPropertyID string) (*domain.Listing, error) {
	var model models.SubPropertyModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", subPropertyID).Error; err != nil {
		return nil, wrapErr(err, "sub-property")
	}
	return mappers.ToDomainSubProperty(&model), nil
}

func (r *DefaultListingRepository) ListSubProperties(ctx context.Context, propertyID string) ([]*domain.Listing, error) {
	var subModels []models.SubPropertyModel
	if err := r.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("list sub-properties: %w", err)
	}

	subs := make([]*domain.Listing, len(subModels))
	for i := range subModels {
		subs[i] = mappers.ToDomainSubProperty(&subModels[i])
	}
	return subs, nil
}

func (r *DefaultListingRepository) CountUnpaidSubProperties(ctx context.Context, propertyID string) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).
		Model(&models.SubPropertyModel{}).
		Where("property_id = ? AND payment_status <> ?", propertyID, domain.PaymentPaid).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count unpaid sub-properties: %w", err)
	}
	return count, nil
}

// SaveSettlementState writes the fields a settlement mutates and nothing else.
func (r *DefaultListingRepository) SaveSettlementState(ctx context.Context, listing *domain.Listing) error {
	updates := map[string]interface{}{
		"price":          listing.Price,
		"paid_amount":    listing.PaidAmount,
		"payment_status": listing.PaymentStatus,
		"listing_status": listing.ListingStatus,
		"sold_to":        listing.SoldTo,
		"agent_id":       listing.AgentID,
	}

	var model interface{} = &models.PropertyModel{}
	if listing.Kind == domain.KindSubProperty {
		model = &models.SubPropertyModel{}
	}

	res := r.DB.WithContext(ctx).Model(model).Where("id = ?", listing.ID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("save %s settlement state: %w", listing.Kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, string(listing.Kind)+" not found", nil)
	}
	return nil
}

// SettleSubProperties marks every unpaid sub-property of propertyID as sold.
// agentID and buyerRef are stamped only when set.
func (r *DefaultListingRepository) SettleSubProperties(ctx context.Context, propertyID string, agentID, buyerRef *string) (int64, error) {
	updates := map[string]interface{}{
		"paid_amount":    gorm.Expr("price"),
		"payment_status": domain.PaymentPaid,
		"listing_status": domain.ListingSold,
	}
	if agentID != nil {
		updates["agent_id"] = *agentID
	}
	if buyerRef != nil {
		updates["sold_to"] = *buyerRef
	}

	res := r.DB.WithContext(ctx).
		Model(&models.SubPropertyModel{}).
		Where("property_id = ? AND payment_status <> ?", propertyID, domain.PaymentPaid).
		Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("settle sub-properties: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *DefaultListingRepository) UpdateSubPropertyPrice(ctx context.Context, subPropertyID string, price decimal.Decimal) error {
	res := r.DB.WithContext(ctx).
		Model(&models.SubPropertyModel{}).
		Where("id = ?", subPropertyID).
		Update("price", price)
	if res.Error != nil {
		return fmt.Errorf("update sub-property price: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, "sub-property not found", nil)
	}
	return nil
}

// SavePriceAggregate persists the aggregate and resets price to the catalog
// total.
func (r *DefaultListingRepository) SavePriceAggregate(ctx context.Context, propertyID string, agg domain.PriceAggregate) error {
	res := r.DB.WithContext(ctx).
		Model(&models.PropertyModel{}).
		Where("id = ?", propertyID).
		Updates(map[string]interface{}{
			"price_start": agg.PriceStart,
			"price_end":   agg.PriceEnd,
			"total_price": agg.TotalPrice,
			"price":       agg.TotalPrice,
		})
	if res.Error != nil {
		return fmt.Errorf("save price aggregate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, "property not found", nil)
	}
	return nil
}
