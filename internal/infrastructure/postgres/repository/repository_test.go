package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-settlement-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db := testutil.NewDB(t)
	tx := testutil.NewTxManager(db)
	ctx := context.Background()
	businessID := uuid.New().String()

	boom := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context, store domain.Store) error {
		if err := store.Businesses().CreateBusiness(ctx, &domain.Business{ID: businessID}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	_, err = repository.NewDefaultBusinessRepository(db).GetBusiness(ctx, businessID)
	if domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("business survived rollback: %v", err)
	}
}

func TestWithinTx_TimeoutIsInternal(t *testing.T) {
	db := testutil.NewDB(t)
	tx := repository.NewDefaultTxManager(db, 50*time.Millisecond)

	err := tx.WithinTx(context.Background(), func(ctx context.Context, store domain.Store) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if domain.CodeOf(err) != domain.CodeInternal {
		t.Fatalf("code = %s (%v)", domain.CodeOf(err), err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("deadline cause lost: %v", err)
	}
}

func TestWithinTx_KeepsDomainErrors(t *testing.T) {
	db := testutil.NewDB(t)
	tx := testutil.NewTxManager(db)

	err := tx.WithinTx(context.Background(), func(ctx context.Context, store domain.Store) error {
		return domain.ErrAmountMismatch
	})
	if domain.CodeOf(err) != domain.CodeAmountMismatch {
		t.Fatalf("code = %s", domain.CodeOf(err))
	}
}

func TestBusinessRepository_CreditBalance(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()
	business := f.Business()
	repo := f.Store().Businesses()

	change, err := repo.CreditBalance(ctx, business.ID, testutil.Dec("100.50"))
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if !change.Prev.IsZero() || !change.New.Equal(testutil.Dec("100.50")) {
		t.Fatalf("change = %+v", change)
	}
	change, err = repo.CreditBalance(ctx, business.ID, testutil.Dec("0.50"))
	if err != nil {
		t.Fatalf("second credit: %v", err)
	}
	if !change.Prev.Equal(testutil.Dec("100.50")) || !change.New.Equal(testutil.Dec("101")) {
		t.Fatalf("change = %+v", change)
	}

	for _, bad := range []decimal.Decimal{decimal.Zero, testutil.Dec("-1")} {
		_, err := repo.CreditBalance(ctx, business.ID, bad)
		if !errors.Is(err, domain.ErrNonPositiveDelta) {
			t.Fatalf("credit %s: err = %v", bad, err)
		}
	}
	if _, err := repo.CreditBalance(ctx, uuid.New().String(), testutil.Dec("1")); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("unknown business: %v", err)
	}
}

func TestAgentRepository_Earnings(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()
	repo := f.Store().Agents()
	agent := f.Agent()

	if _, err := repo.AddSalesEarnings(ctx, agent.ID, testutil.Dec("50")); err != nil {
		t.Fatalf("sales: %v", err)
	}
	change, err := repo.AddReferralEarnings(ctx, agent.ID, testutil.Dec("25"))
	if err != nil {
		t.Fatalf("referral: %v", err)
	}
	if !change.Prev.Equal(testutil.Dec("50")) || !change.New.Equal(testutil.Dec("75")) {
		t.Fatalf("change = %+v", change)
	}
	if err := repo.AddSalesPortfolio(ctx, agent.ID, testutil.Dec("1000")); err != nil {
		t.Fatalf("portfolio: %v", err)
	}

	got := f.ReloadAgent(agent.ID)
	if !got.SalesEarnings.Equal(testutil.Dec("50")) ||
		!got.ReferralEarnings.Equal(testutil.Dec("25")) ||
		!got.TotalEarnings.Equal(testutil.Dec("75")) ||
		!got.SalesPortfolio.Equal(testutil.Dec("1000")) {
		t.Fatalf("agent = %+v", got)
	}
}

func TestAgentRepository_ReferrerOf(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()
	repo := f.Store().Agents()
	chain := f.Chain(2)

	referrer, ok, err := repo.ReferrerOf(ctx, chain[1].ID)
	if err != nil || !ok || referrer != chain[0].ID {
		t.Fatalf("referrer = %q, %v, %v", referrer, ok, err)
	}
	if _, ok, err := repo.ReferrerOf(ctx, chain[0].ID); err != nil || ok {
		t.Fatalf("root: ok=%v err=%v", ok, err)
	}
	if _, _, err := repo.ReferrerOf(ctx, uuid.New().String()); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("unknown agent: %v", err)
	}
}

func TestListingRepository_SettlementWrites(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()
	repo := f.Store().Listings()

	business := f.Business()
	property := f.Property(business.ID, "100")
	paid := f.SubProperty(property, "40")
	f.SubProperty(property, "60")
	f.SubProperty(property, "80")

	paid.MarkPaid(nil)
	if err := repo.SaveSettlementState(ctx, paid); err != nil {
		t.Fatalf("save: %v", err)
	}
	unpaid, err := repo.CountUnpaidSubProperties(ctx, property.ID)
	if err != nil || unpaid != 2 {
		t.Fatalf("unpaid = %d, %v", unpaid, err)
	}

	buyer := "buyer-9"
	swept, err := repo.SettleSubProperties(ctx, property.ID, nil, &buyer)
	if err != nil || swept != 2 {
		t.Fatalf("swept = %d, %v", swept, err)
	}
	subs, err := repo.ListSubProperties(ctx, property.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, s := range subs {
		if !s.IsPaid() || !s.PaidAmount.Equal(s.Price) {
			t.Fatalf("sub %s: status %s paid %s price %s", s.ID, s.PaymentStatus, s.PaidAmount, s.Price)
		}
	}
	if got := f.ReloadSubProperty(paid.ID); got.SoldTo != nil {
		t.Fatalf("already-paid sub was restamped: %v", *got.SoldTo)
	}

	ghost := &domain.Listing{ID: uuid.New().String(), Kind: domain.KindProperty}
	if err := repo.SaveSettlementState(ctx, ghost); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("ghost save: %v", err)
	}
}

func TestListingRepository_PriceAggregate(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()
	repo := f.Store().Listings()
	property := f.Property(f.Business().ID, "100")

	agg := domain.PriceAggregate{
		PriceStart: testutil.Dec("40"),
		PriceEnd:   testutil.Dec("100"),
		TotalPrice: testutil.Dec("200"),
	}
	if err := repo.SavePriceAggregate(ctx, property.ID, agg); err != nil {
		t.Fatalf("save aggregate: %v", err)
	}
	got := f.ReloadProperty(property.ID)
	if !got.Price.Equal(agg.TotalPrice) || !got.PriceStart.Equal(agg.PriceStart) || !got.PriceEnd.Equal(agg.PriceEnd) {
		t.Fatalf("property = %+v", got)
	}
	if !got.BasePrice.Equal(testutil.Dec("100")) {
		t.Fatalf("base price changed: %s", got.BasePrice)
	}
	if err := repo.UpdateSubPropertyPrice(ctx, uuid.New().String(), testutil.Dec("1")); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("unknown sub: %v", err)
	}
}

func TestLedgerRepository_Queries(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()
	ledger := f.Store().Ledger()

	business := f.Business()
	property := f.Property(business.ID, "100")
	agent := f.Agent()
	agentID := agent.ID

	base := time.Now().Add(-time.Hour)
	var firstID string
	for i, status := range []domain.LedgerStatus{domain.LedgerSuccessful, domain.LedgerFailed, domain.LedgerSuccessful} {
		entry := &domain.LedgerEntry{
			ID:         uuid.New().String(),
			Reference:  uuid.New().String(),
			AgentID:    &agentID,
			BusinessID: business.ID,
			PropertyID: property.ID,
			Direction:  domain.Credit,
			Service:    domain.ServiceSalesCommission,
			Amount:     testutil.Dec("5"),
			Status:     status,
			Role:       domain.RoleAgent,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := ledger.Append(ctx, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
		if i == 0 {
			firstID = entry.ID
		}
	}

	count, err := ledger.CountByAgent(ctx, agentID, domain.ServiceSalesCommission)
	if err != nil || count != 2 {
		t.Fatalf("count = %d, %v", count, err)
	}
	first, err := ledger.FirstByAgent(ctx, agentID, domain.ServiceSalesCommission)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.ID != firstID {
		t.Fatalf("first entry = %s, want %s", first.ID, firstID)
	}
	if _, err := ledger.FirstByAgent(ctx, agentID, domain.ServiceReferralBonus); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("no bonus entries: %v", err)
	}
	entries, err := ledger.ListByProperty(ctx, property.ID)
	if err != nil || len(entries) != 3 {
		t.Fatalf("entries = %d, %v", len(entries), err)
	}
}
