package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// DefaultLedgerRepository only inserts and reads. Entries are never updated.
type DefaultLedgerRepository struct {
	DB *gorm.DB
}

func NewDefaultLedgerRepository(db *gorm.DB) *DefaultLedgerRepository {
	return &DefaultLedgerRepository{DB: db}
}

func (r *DefaultLedgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMLedgerEntry(entry)).Error; err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (r *DefaultLedgerRepository) CountByAgent(ctx context.Context, agentID string, service domain.LedgerService) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("agent_id = ? AND service = ? AND status = ?", agentID, service, domain.LedgerSuccessful).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count ledger entries: %w", err)
	}
	return count, nil
}

func (r *DefaultLedgerRepository) FirstByAgent(ctx context.Context, agentID string, service domain.LedgerService) (*domain.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.DB.WithContext(ctx).
		Where("agent_id = ? AND service = ? AND status = ?", agentID, service, domain.LedgerSuccessful).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		return nil, wrapErr(err, "ledger entry")
	}
	return mappers.ToDomainLedgerEntry(&model), nil
}

func (r *DefaultLedgerRepository) ListByProperty(ctx context.Context, propertyID string) ([]*domain.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}

	entries := make([]*domain.LedgerEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = mappers.ToDomainLedgerEntry(&entryModels[i])
	}
	return entries, nil
}
