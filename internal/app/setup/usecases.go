package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/catalog"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/commission"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/ledger"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/pricing"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/referral"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/settlement"
)

type UseCases struct {
	SettlementUsecase settlement.SettlementUsecase
	CatalogUsecase    catalog.CatalogUsecase
	ReferralUsecase   referral.ReferralUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	recorder, err := ledger.NewRecorder()
	if err != nil {
		return nil, fmt.Errorf("ledger recorder: %w", err)
	}

	rules := deps.Rules
	calculator := commission.NewCalculator(
		commission.Rates{Sales: rules.SalesRate, Referral: rules.ReferralRate},
		rules.Money,
		rules.MaxDepth,
	)

	// Typed nil pointers must not leak into the interfaces.
	var settledNotifier domain.SettlementNotifier
	var rewardNotifier domain.ReferralRewardNotifier
	if deps.Notifier != nil {
		settledNotifier = deps.Notifier
		rewardNotifier = deps.Notifier
	}

	settlementUsecase := settlement.NewDefaultSettlementUsecase(
		deps.TxManager,
		calculator,
		recorder,
		rules.Money,
		settledNotifier,
		deps.EventLogger,
		deps.Metrics,
	)
	catalogUsecase := catalog.NewDefaultCatalogUsecase(
		deps.TxManager,
		pricing.NewAggregator(rules.Money),
		rules.Money,
		deps.Metrics,
	)
	referralUsecase := referral.NewDefaultReferralUsecase(
		deps.TxManager,
		recorder,
		rules.ReferralBonus,
		rewardNotifier,
		deps.Metrics,
	)

	return &UseCases{
		SettlementUsecase: settlementUsecase,
		CatalogUsecase:    catalogUsecase,
		ReferralUsecase:   referralUsecase,
	}, nil
}
