package referral

import (
	"context"
	"sync"
	"testing"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/testutil"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/commission"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/ledger"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/settlement"
)

type env struct {
	fx       *testutil.Fixtures
	uc       *DefaultReferralUsecase
	settle   *settlement.DefaultSettlementUsecase
	business *domain.Business
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	rec, err := ledger.NewRecorder()
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	tx := testutil.NewTxManager(db)
	money := domain.DefaultMoneyContext()
	fx := testutil.NewFixtures(t, db)
	return &env{
		fx:       fx,
		uc:       NewDefaultReferralUsecase(tx, rec, testutil.Dec("50.00"), nil, nil),
		settle:   settlement.NewDefaultSettlementUsecase(tx, commission.NewCalculator(commission.DefaultRates(), money, 0), rec, money, nil, nil, nil),
		business: fx.Business(),
	}
}

func (e *env) sell(t *testing.T, agentID string) {
	t.Helper()
	property := e.fx.Property(e.business.ID, "100")
	if _, err := e.settle.Settle(context.Background(), domain.SettleInput{
		PropertyID: property.ID,
		BusinessID: e.business.ID,
		AgentID:    agentID,
		Amount:     testutil.Dec("100"),
	}); err != nil {
		t.Fatalf("Settle: %v", err)
	}
}

func TestEvaluateReferralRewardPaysOnce(t *testing.T) {
	e := newEnv(t)
	referrer := e.fx.Agent()
	agent := e.fx.Agent(testutil.ReferredBy(referrer.ID), testutil.Verified())
	e.sell(t, agent.ID)

	before := e.fx.ReloadAgent(referrer.ID)
	out, err := e.uc.EvaluateReferralReward(context.Background(), agent.ID)
	if err != nil {
		t.Fatalf("EvaluateReferralReward: %v", err)
	}
	if !out.Rewarded || out.Entry == nil {
		t.Fatalf("expected reward, got %+v", out)
	}
	if out.Entry.Service != domain.ServiceReferralBonus || out.Entry.Role != domain.RoleReferrer {
		t.Fatalf("unexpected entry %+v", out.Entry)
	}
	if !out.Entry.NewBalance.Sub(out.Entry.PrevBalance).Equal(testutil.Dec("50")) {
		t.Fatalf("snapshot %s -> %s", out.Entry.PrevBalance, out.Entry.NewBalance)
	}

	after := e.fx.ReloadAgent(referrer.ID)
	if !after.ReferralEarnings.Sub(before.ReferralEarnings).Equal(testutil.Dec("50")) {
		t.Fatalf("referrer earnings %s -> %s", before.ReferralEarnings, after.ReferralEarnings)
	}
	if !e.fx.ReloadAgent(agent.ID).ReferralRewarded {
		t.Fatal("agent not flagged as rewarded")
	}

	again, err := e.uc.EvaluateReferralReward(context.Background(), agent.ID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if again.Rewarded || again.Reason != ReasonAlreadyRewarded {
		t.Fatalf("second call paid again: %+v", again)
	}
	if got := e.fx.ReloadAgent(referrer.ID); !got.ReferralEarnings.Equal(after.ReferralEarnings) {
		t.Fatalf("referrer earnings moved to %s", got.ReferralEarnings)
	}
}

func TestEvaluateReferralRewardConditions(t *testing.T) {
	e := newEnv(t)
	referrer := e.fx.Agent()

	noReferrer := e.fx.Agent(testutil.Verified())
	e.sell(t, noReferrer.ID)

	unverified := e.fx.Agent(testutil.ReferredBy(referrer.ID))
	e.sell(t, unverified.ID)

	noSales := e.fx.Agent(testutil.ReferredBy(referrer.ID), testutil.Verified())
	baseline := e.fx.ReloadAgent(referrer.ID).ReferralEarnings

	cases := []struct {
		name   string
		id     string
		reason string
	}{
		{"no referrer", noReferrer.ID, ReasonNoReferrer},
		{"not verified", unverified.ID, ReasonNotVerified},
		{"no sales", noSales.ID, ReasonNoSales},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := e.uc.EvaluateReferralReward(context.Background(), tc.id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Rewarded || out.Reason != tc.reason {
				t.Fatalf("got %+v, want reason %s", out, tc.reason)
			}
		})
	}

	if got := e.fx.ReloadAgent(referrer.ID); !got.ReferralEarnings.Equal(baseline) {
		t.Fatalf("referrer earnings moved from %s to %s", baseline, got.ReferralEarnings)
	}

	_, err := e.uc.EvaluateReferralReward(context.Background(), "00000000-0000-0000-0000-000000000004")
	if domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestEvaluateReferralRewardConcurrent(t *testing.T) {
	e := newEnv(t)
	referrer := e.fx.Agent()
	agent := e.fx.Agent(testutil.ReferredBy(referrer.ID), testutil.Verified())
	e.sell(t, agent.ID)

	const callers = 4
	var wg sync.WaitGroup
	rewarded := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := e.uc.EvaluateReferralReward(context.Background(), agent.ID)
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
				return
			}
			rewarded[i] = out.Rewarded
		}(i)
	}
	wg.Wait()

	paid := 0
	for _, r := range rewarded {
		if r {
			paid++
		}
	}
	if paid != 1 {
		t.Fatalf("bonus paid %d times", paid)
	}
}
