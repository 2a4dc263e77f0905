package settlement

import (
	"context"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/commission"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/ledger"
)

type SettlementUsecase interface {
	Settle(ctx context.Context, in domain.SettleInput) (*domain.SettlementResult, error)
	PropertyLedger(ctx context.Context, businessID, propertyID string) ([]*domain.LedgerEntry, error)
}

// DefaultSettlementUsecase records sale payments. Notifier, EventLogger and
// Metrics are optional.
type DefaultSettlementUsecase struct {
	TxManager   domain.TxManager
	Calculator  *commission.Calculator
	Recorder    *ledger.Recorder
	Money       domain.MoneyContext
	Notifier    domain.SettlementNotifier
	EventLogger logger.SettlementEventLogger
	Metrics     *metrics.SettlementMetrics
}

func NewDefaultSettlementUsecase(
	txManager domain.TxManager,
	calculator *commission.Calculator,
	recorder *ledger.Recorder,
	money domain.MoneyContext,
	notifier domain.SettlementNotifier,
	eventLogger logger.SettlementEventLogger,
	settlementMetrics *metrics.SettlementMetrics,
) *DefaultSettlementUsecase {
	return &DefaultSettlementUsecase{
		TxManager:   txManager,
		Calculator:  calculator,
		Recorder:    recorder,
		Money:       money,
		Notifier:    notifier,
		EventLogger: eventLogger,
		Metrics:     settlementMetrics,
	}
}
