package mappers

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainLedgerEntry(model *models.LedgerEntryModel) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:            model.ID,
		Reference:     model.Reference,
		AgentID:       model.AgentID,
		BusinessID:    model.BusinessID,
		PropertyID:    model.PropertyID,
		SubPropertyID: model.SubPropertyID,
		Direction:     model.Direction,
		Service:       model.Service,
		Amount:        model.Amount,
		Status:        model.Status,
		Role:          model.Role,
		PrevBalance:   model.PrevBalance,
		NewBalance:    model.NewBalance,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMLedgerEntry(entry *domain.LedgerEntry) *models.LedgerEntryModel {
	return &models.LedgerEntryModel{
		ID:            entry.ID,
		Reference:     entry.Reference,
		AgentID:       entry.AgentID,
		BusinessID:    entry.BusinessID,
		PropertyID:    entry.PropertyID,
		SubPropertyID: entry.SubPropertyID,
		Direction:     entry.Direction,
		Service:       entry.Service,
		Amount:        entry.Amount,
		Status:        entry.Status,
		Role:          entry.Role,
		PrevBalance:   entry.PrevBalance,
		NewBalance:    entry.NewBalance,
		CreatedAt:     entry.CreatedAt,
	}
}
