package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AgentModel struct {
	ID               string          `gorm:"primaryKey;type:uuid"`
	ReferredBy       *string         `gorm:"type:uuid;index"`
	SalesEarnings    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	ReferralEarnings decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TotalEarnings    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	SalesPortfolio   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	ReferralRewarded bool            `gorm:"not null;default:false"`
	NINVerified      bool            `gorm:"column:nin_verified;not null;default:false"`
	EmailVerified    bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (AgentModel) TableName() string {
	return "agents"
}

type BusinessModel struct {
	ID        string          `gorm:"primaryKey;type:uuid"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BusinessModel) TableName() string {
	return "businesses"
}
