package models

import (
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type PropertyModel struct {
	ID            string               `gorm:"primaryKey;type:uuid"`
	BusinessID    string               `gorm:"type:uuid;not null;index"`
	AgentID       *string              `gorm:"type:uuid;index"`
	Price         decimal.Decimal      `gorm:"type:numeric(14,2);not null;default:0"`
	BasePrice     decimal.Decimal      `gorm:"type:numeric(14,2);not null;default:0"`
	PaidAmount    decimal.Decimal      `gorm:"type:numeric(14,2);not null;default:0"`
	PriceStart    decimal.Decimal      `gorm:"type:numeric(14,2);not null;default:0"`
	PriceEnd      decimal.Decimal      `gorm:"type:numeric(14,2);not null;default:0"`
	TotalPrice    decimal.Decimal      `gorm:"type:numeric(14,2);not null;default:0"`
	PaymentStatus domain.PaymentStatus `gorm:"size:16;not null;index"`
	ListingStatus domain.ListingStatus `gorm:"size:16;not null;index"`
	SoldTo        *string              `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PropertyModel) TableName() string {
	return "properties"
}

type SubPropertyModel struct {
	ID            string               `gorm:"primaryKey;type:uuid"`
	PropertyID    string               `gorm:"type:uuid;not null;index"`
	BusinessID    string               `gorm:"type:uuid;not null;index"`
	AgentID       *string              `gorm:"type:uuid;index"`
	Price         decimal.Decimal      `gorm:"type:numeric(14,2);not null;default:0"`
	PaidAmount    decimal.Decimal      `gorm:"type:numeric(14,2);not null;default:0"`
	PaymentStatus domain.PaymentStatus `gorm:"size:16;not null;index"`
	ListingStatus domain.ListingStatus `gorm:"size:16;not null;index"`
	SoldTo        *string              `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (SubPropertyModel) TableName() string {
	return "sub_properties"
}
