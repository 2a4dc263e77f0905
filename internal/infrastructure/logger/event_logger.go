package logger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementSucceededEvent is an audit row written after a settlement commits.
type SettlementSucceededEvent struct {
	ID            uint `gorm:"primaryKey"`
	RequestID     string
	PropertyID    string
	SubPropertyID string
	BusinessID    string
	AgentID       string
	Reference     string
	Amount        decimal.Decimal `gorm:"type:numeric(14,2)"`
	Commission    decimal.Decimal `gorm:"type:numeric(14,2)"`
	Referrers     int
	Timestamp     time.Time
}

// SettlementFailedEvent records a rejected or rolled back attempt. It is
// written outside the settlement transaction so it survives the rollback.
type SettlementFailedEvent struct {
	ID            uint `gorm:"primaryKey"`
	RequestID     string
	PropertyID    string
	SubPropertyID string
	BusinessID    string
	AgentID       string
	Amount        decimal.Decimal `gorm:"type:numeric(14,2)"`
	Code          string
	Reason        string
	Timestamp     time.Time
}

type SettlementEventLogger interface {
	LogSettlementSucceeded(ctx context.Context, event SettlementSucceededEvent) error
	LogSettlementFailed(ctx context.Context, event SettlementFailedEvent) error
}

type PGSettlementEventLogger struct {
	db *gorm.DB
}

func NewPGSettlementEventLogger(db *gorm.DB) *PGSettlementEventLogger {
	return &PGSettlementEventLogger{db: db}
}

func (l *PGSettlementEventLogger) LogSettlementSucceeded(ctx context.Context, event SettlementSucceededEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGSettlementEventLogger) LogSettlementFailed(ctx context.Context, event SettlementFailedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
