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

type DefaultBusinessRepository struct {
	DB *gorm.DB
}

func NewDefaultBusinessRepository(db *gorm.DB) *DefaultBusinessRepository {
	return &DefaultBusinessRepository{DB: db}
}

func (r *DefaultBusinessRepository) CreateBusiness(ctx context.Context, business *domain.Business) error {
	model := &models.BusinessModel{
		ID:      business.ID,
		Balance: business.Balance,
	}
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("create business: %w", err)
	}
	return nil
}

func (r *DefaultBusinessRepository) GetBusiness(ctx context.Context, businessID string) (*domain.Business, error) {
	var model models.BusinessModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", businessID).Error; err != nil {
		return nil, wrapErr(err, "business")
	}
	return mappers.ToDomainBusiness(&model), nil
}

func (r *DefaultBusinessRepository) CreditBalance(ctx context.Context, businessID string, amount decimal.Decimal) (domain.BalanceChange, error) {
	if err := checkDelta(amount); err != nil {
		return domain.BalanceChange{}, err
	}

	var model models.BusinessModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", businessID).Error; err != nil {
		return domain.BalanceChange{}, wrapErr(err, "business")
	}

	change := domain.BalanceChange{Prev: model.Balance, New: model.Balance.Add(amount)}
	if err := r.DB.WithContext(ctx).
		Model(&models.BusinessModel{}).
		Where("id = ?", businessID).
		Update("balance", change.New).Error; err != nil {
		return domain.BalanceChange{}, fmt.Errorf("credit business balance: %w", err)
	}
	return change, nil
}
