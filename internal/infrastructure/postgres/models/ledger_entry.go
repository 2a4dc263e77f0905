package models

import (
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type LedgerEntryModel struct {
	ID            string                 `gorm:"primaryKey;type:uuid"`
	Reference     string                 `gorm:"size:32;not null;uniqueIndex"`
	AgentID       *string                `gorm:"type:uuid;index:idx_ledger_agent_service"`
	BusinessID    string                 `gorm:"type:uuid;not null;index"`
	PropertyID    string                 `gorm:"type:uuid;not null;index"`
	SubPropertyID *string                `gorm:"type:uuid;index"`
	Direction     domain.LedgerDirection `gorm:"size:8;not null"`
	Service       domain.LedgerService   `gorm:"size:32;not null;index:idx_ledger_agent_service"`
	Amount        decimal.Decimal        `gorm:"type:numeric(14,2);not null"`
	Status        domain.LedgerStatus    `gorm:"size:16;not null"`
	Role          domain.LedgerRole      `gorm:"size:16;not null"`
	PrevBalance   decimal.Decimal        `gorm:"type:numeric(18,2);not null;default:0"`
	NewBalance    decimal.Decimal        `gorm:"type:numeric(18,2);not null;default:0"`
	CreatedAt     time.Time              `gorm:"index"`
}

func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}
