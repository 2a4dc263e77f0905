package settlement

import (
	"context"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

// applyCommissions credits the selling agent and every upline referrer and
// writes one ledger line per credit. Shares that round to zero are skipped.
func (uc *DefaultSettlementUsecase) applyCommissions(ctx context.Context, store domain.Store, in domain.SettleInput, agentID *string) ([]*domain.LedgerEntry, error) {
	if agentID == nil {
		return nil, nil
	}
	agents := store.Agents()

	breakdown, err := uc.Calculator.ComputeSaleCommission(ctx, agents, *agentID, in.Amount)
	if err != nil {
		return nil, err
	}

	if err := agents.AddSalesPortfolio(ctx, *agentID, in.Amount); err != nil {
		return nil, err
	}

	var entries []*domain.LedgerEntry
	if breakdown.AgentCommission.IsPositive() {
		change, err := agents.AddSalesEarnings(ctx, *agentID, breakdown.AgentCommission)
		if err != nil {
			return nil, err
		}
		entry, err := uc.recordCommission(ctx, store, in, *agentID, domain.ServiceSalesCommission, domain.RoleAgent, breakdown.AgentCommission, change)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	for _, share := range breakdown.ReferralCommissions {
		if !share.Amount.IsPositive() {
			continue
		}
		change, err := agents.AddReferralEarnings(ctx, share.AgentID, share.Amount)
		if err != nil {
			return nil, err
		}
		entry, err := uc.recordCommission(ctx, store, in, share.AgentID, domain.ServiceReferralCommission, domain.RoleReferrer, share.Amount, change)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (uc *DefaultSettlementUsecase) recordCommission(
	ctx context.Context,
	store domain.Store,
	in domain.SettleInput,
	agentID string,
	service domain.LedgerService,
	role domain.LedgerRole,
	amount decimal.Decimal,
	change domain.BalanceChange,
) (*domain.LedgerEntry, error) {
	return uc.Recorder.Append(ctx, store.Ledger(), &domain.LedgerEntry{
		AgentID:       &agentID,
		BusinessID:    in.BusinessID,
		PropertyID:    in.PropertyID,
		SubPropertyID: optional(in.SubPropertyID),
		Direction:     domain.Credit,
		Service:       service,
		Amount:        amount,
		Role:          role,
		PrevBalance:   change.Prev,
		NewBalance:    change.New,
	})
}
