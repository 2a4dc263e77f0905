package referral

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/ledger"
	"github.com/shopspring/decimal"
)

type ReferralUsecase interface {
	EvaluateReferralReward(ctx context.Context, agentID string) (*Outcome, error)
}

// Outcome reports whether this call paid the bonus. Reason is set when it did
// not.
type Outcome struct {
	Rewarded bool
	Reason   string
	Entry    *domain.LedgerEntry
}

const (
	ReasonAlreadyRewarded = "already_rewarded"
	ReasonNoReferrer      = "no_referrer"
	ReasonNotVerified     = "not_verified"
	ReasonNoSales         = "no_sales"
	ReasonNoBonus         = "bonus_disabled"
)

type DefaultReferralUsecase struct {
	TxManager domain.TxManager
	Recorder  *ledger.Recorder
	Bonus     decimal.Decimal
	Notifier  domain.ReferralRewardNotifier
	Metrics   *metrics.SettlementMetrics
}

func NewDefaultReferralUsecase(
	txManager domain.TxManager,
	recorder *ledger.Recorder,
	bonus decimal.Decimal,
	notifier domain.ReferralRewardNotifier,
	m *metrics.SettlementMetrics,
) *DefaultReferralUsecase {
	return &DefaultReferralUsecase{TxManager: txManager, Recorder: recorder, Bonus: bonus, Notifier: notifier, Metrics: m}
}

// EvaluateReferralReward pays the referrer of agentID a one-off bonus once the
// agent is verified and has made at least one sale. The agent row lock makes
// concurrent calls pay at most once.
func (uc *DefaultReferralUsecase) EvaluateReferralReward(ctx context.Context, agentID string) (*Outcome, error) {
	var outcome *Outcome
	err := uc.TxManager.WithinTx(ctx, func(ctx context.Context, store domain.Store) error {
		agents := store.Agents()
		agent, err := agents.GetAgentForUpdate(ctx, agentID)
		if err != nil {
			return err
		}

		switch {
		case agent.ReferralRewarded:
			outcome = &Outcome{Reason: ReasonAlreadyRewarded}
			return nil
		case agent.ReferredBy == nil || *agent.ReferredBy == "":
			outcome = &Outcome{Reason: ReasonNoReferrer}
			return nil
		case !agent.NINVerified || !agent.EmailVerified:
			outcome = &Outcome{Reason: ReasonNotVerified}
			return nil
		case !uc.Bonus.IsPositive():
			outcome = &Outcome{Reason: ReasonNoBonus}
			return nil
		}

		sales, err := store.Ledger().CountByAgent(ctx, agentID, domain.ServiceSale)
		if err != nil {
			return err
		}
		if sales == 0 {
			outcome = &Outcome{Reason: ReasonNoSales}
			return nil
		}

		firstSale, err := firstSaleOf(ctx, store, agentID)
		if err != nil {
			return err
		}

		referrerID := *agent.ReferredBy
		change, err := agents.AddReferralEarnings(ctx, referrerID, uc.Bonus)
		if err != nil {
			return err
		}
		entry, err := uc.Recorder.Append(ctx, store.Ledger(), &domain.LedgerEntry{
			AgentID:       &referrerID,
			BusinessID:    firstSale.BusinessID,
			PropertyID:    firstSale.PropertyID,
			SubPropertyID: firstSale.SubPropertyID,
			Direction:     domain.Credit,
			Service:       domain.ServiceReferralBonus,
			Amount:        uc.Bonus,
			Role:          domain.RoleReferrer,
			PrevBalance:   change.Prev,
			NewBalance:    change.New,
		})
		if err != nil {
			return err
		}
		if err := agents.MarkReferralRewarded(ctx, agentID); err != nil {
			return err
		}

		outcome = &Outcome{Rewarded: true, Entry: entry}
		return nil
	})
	if err != nil {
		uc.Metrics.RecordError("referral_reward", err)
		return nil, err
	}

	if outcome.Rewarded {
		uc.Metrics.RecordReferralReward()
		slog.Info("referral bonus paid", "agent_id", agentID, "referrer_id", *outcome.Entry.AgentID,
			"amount", outcome.Entry.Amount.StringFixed(2), "reference", outcome.Entry.Reference)
		if uc.Notifier != nil {
			uc.Notifier.NotifyReferralRewarded(ctx, agentID, outcome.Entry)
		}
	} else {
		slog.Debug("referral bonus not paid", "agent_id", agentID, "reason", outcome.Reason)
	}
	return outcome, nil
}

func firstSaleOf(ctx context.Context, store domain.Store, agentID string) (*domain.LedgerEntry, error) {
	return store.Ledger().FirstByAgent(ctx, agentID, domain.ServiceSale)
}
