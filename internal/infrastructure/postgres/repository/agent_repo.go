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

type DefaultAgentRepository struct {
	DB *gorm.DB
}

func NewDefaultAgentRepository(db *gorm.DB) *DefaultAgentRepository {
	return &DefaultAgentRepository{DB: db}
}

func (r *DefaultAgentRepository) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMAgent(agent)).Error; err != nil {
		return fmt.Errorf("create agent: %w", err)
	}
	return nil
}

func (r *DefaultAgentRepository) GetAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	var model models.AgentModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", agentID).Error; err != nil {
		return nil, wrapErr(err, "agent")
	}
	return mappers.ToDomainAgent(&model), nil
}

func (r *DefaultAgentRepository) GetAgentForUpdate(ctx context.Context, agentID string) (*domain.Agent, error) {
	var model models.AgentModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", agentID).Error; err != nil {
		return nil, wrapErr(err, "agent")
	}
	return mappers.ToDomainAgent(&model), nil
}

func (r *DefaultAgentRepository) ReferrerOf(ctx context.Context, agentID string) (string, bool, error) {
	var model models.AgentModel
	if err := r.DB.WithContext(ctx).
		Select("id", "referred_by").
		First(&model, "id = ?", agentID).Error; err != nil {
		return "", false, wrapErr(err, "agent")
	}
	if model.ReferredBy == nil || *model.ReferredBy == "" {
		return "", false, nil
	}
	return *model.ReferredBy, true, nil
}

// AddSalesEarnings adds to sales and total earnings. The returned change is
// the agent's total earnings before and after.
func (r *DefaultAgentRepository) AddSalesEarnings(ctx context.Context, agentID string, amount decimal.Decimal) (domain.BalanceChange, error) {
	return r.addEarnings(ctx, agentID, "sales_earnings", amount)
}

// AddReferralEarnings adds to referral and total earnings. The returned change
// is the agent's total earnings before and after.
func (r *DefaultAgentRepository) AddReferralEarnings(ctx context.Context, agentID string, amount decimal.Decimal) (domain.BalanceChange, error) {
	return r.addEarnings(ctx, agentID, "referral_earnings", amount)
}

func (r *DefaultAgentRepository) addEarnings(ctx context.Context, agentID, column string, amount decimal.Decimal) (domain.BalanceChange, error) {
	if err := checkDelta(amount); err != nil {
		return domain.BalanceChange{}, err
	}

	var model models.AgentModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", agentID).Error; err != nil {
		return domain.BalanceChange{}, wrapErr(err, "agent")
	}

	current := model.SalesEarnings
	if column == "referral_earnings" {
		current = model.ReferralEarnings
	}
	change := domain.BalanceChange{
		Prev: model.TotalEarnings,
		New:  model.TotalEarnings.Add(amount),
	}

	if err := r.DB.WithContext(ctx).
		Model(&models.AgentModel{}).
		Where("id = ?", agentID).
		Updates(map[string]interface{}{
			column:           current.Add(amount),
			"total_earnings": change.New,
		}).Error; err != nil {
		return domain.BalanceChange{}, fmt.Errorf("add %s: %w", column, err)
	}
	return change, nil
}

func (r *DefaultAgentRepository) AddSalesPortfolio(ctx context.Context, agentID string, amount decimal.Decimal) error {
	if err := checkDelta(amount); err != nil {
		return err
	}

	res := r.DB.WithContext(ctx).
		Model(&models.AgentModel{}).
		Where("id = ?", agentID).
		Update("sales_portfolio", gorm.Expr("sales_portfolio + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("add sales portfolio: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, "agent not found", nil)
	}
	return nil
}

func (r *DefaultAgentRepository) MarkReferralRewarded(ctx context.Context, agentID string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.AgentModel{}).
		Where("id = ?", agentID).
		Update("referral_rewarded", true)
	if res.Error != nil {
		return fmt.Errorf("mark referral rewarded: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, "agent not found", nil)
	}
	return nil
}
