package settlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

const auditTimeout = 5 * time.Second

func (uc *DefaultSettlementUsecase) logSuccess(ctx context.Context, in domain.SettleInput, result *domain.SettlementResult) {
	commission := decimal.Zero
	referrers := 0
	for _, entry := range result.Commissions {
		commission = commission.Add(entry.Amount)
		if entry.Service == domain.ServiceReferralCommission {
			referrers++
		}
	}

	slog.Info("settlement committed",
		"request_id", domain.RequestIDFrom(ctx),
		"property_id", in.PropertyID,
		"sub_property_id", in.SubPropertyID,
		"business_id", in.BusinessID,
		"reference", result.Transaction.Reference,
		"amount", uc.Money.Format(in.Amount),
		"commission", uc.Money.Format(commission),
		"referrers", referrers,
		"swept_sub_properties", result.SweptSubProperties,
	)

	if uc.EventLogger == nil {
		return
	}
	agentID := ""
	if result.Transaction.AgentID != nil {
		agentID = *result.Transaction.AgentID
	}
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := uc.EventLogger.LogSettlementSucceeded(auditCtx, logger.SettlementSucceededEvent{
		RequestID:     domain.RequestIDFrom(ctx),
		PropertyID:    in.PropertyID,
		SubPropertyID: in.SubPropertyID,
		BusinessID:    in.BusinessID,
		AgentID:       agentID,
		Reference:     result.Transaction.Reference,
		Amount:        in.Amount,
		Commission:    commission,
		Referrers:     referrers,
		Timestamp:     time.Now(),
	}); err != nil {
		slog.Error("failed to write settlement audit event", "property_id", in.PropertyID, "error", err)
	}
}

func (uc *DefaultSettlementUsecase) logFailure(ctx context.Context, in domain.SettleInput, err error) {
	code := domain.CodeOf(err)
	attrs := []any{
		"request_id", domain.RequestIDFrom(ctx),
		"property_id", in.PropertyID,
		"sub_property_id", in.SubPropertyID,
		"business_id", in.BusinessID,
		"code", code,
		"error", err,
	}
	if code == domain.CodeInternal {
		slog.Error("settlement failed", attrs...)
	} else {
		slog.Warn("settlement rejected", attrs...)
	}

	if uc.EventLogger == nil {
		return
	}
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if logErr := uc.EventLogger.LogSettlementFailed(auditCtx, logger.SettlementFailedEvent{
		RequestID:     domain.RequestIDFrom(ctx),
		PropertyID:    in.PropertyID,
		SubPropertyID: in.SubPropertyID,
		BusinessID:    in.BusinessID,
		AgentID:       in.AgentID,
		Amount:        in.Amount,
		Code:          string(code),
		Reason:        err.Error(),
		Timestamp:     time.Now(),
	}); logErr != nil {
		slog.Error("failed to write settlement failure event", "property_id", in.PropertyID, "error", logErr)
	}
}
