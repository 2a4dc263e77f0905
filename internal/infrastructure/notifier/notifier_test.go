package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type recordingPublisher struct {
	mu    sync.Mutex
	topic string
	msgs  []domain.Message
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, msgs ...domain.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.msgs = append(p.msgs, msgs...)
	return p.err
}

func strPtr(s string) *string { return &s }

func settledResult() *domain.SettlementResult {
	now := time.Now()
	return &domain.SettlementResult{
		Property: &domain.Listing{ID: "p1", Kind: domain.KindProperty},
		Transaction: &domain.LedgerEntry{
			Reference:  "ref-sale",
			AgentID:    strPtr("a1"),
			BusinessID: "b1",
			PropertyID: "p1",
			Service:    domain.ServiceSale,
			Amount:     decimal.RequireFromString("1000"),
			NewBalance: decimal.RequireFromString("1000"),
			CreatedAt:  now,
		},
		Commissions: []*domain.LedgerEntry{
			{AgentID: strPtr("a1"), PropertyID: "p1", Service: domain.ServiceSalesCommission, Amount: decimal.RequireFromString("50"), CreatedAt: now},
			{AgentID: strPtr("r1"), PropertyID: "p1", Service: domain.ServiceReferralCommission, Amount: decimal.RequireFromString("50"), CreatedAt: now},
		},
	}
}

func TestNotifySettledPublishesPerRecipient(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewKafkaNotifier(pub, "settlement-events")

	ctx := domain.WithRequestID(context.Background(), "req-1")
	n.NotifySettled(ctx, settledResult())
	n.Wait()

	if pub.topic != "settlement-events" {
		t.Fatalf("topic = %q", pub.topic)
	}
	if len(pub.msgs) != 3 {
		t.Fatalf("published %d messages, want 3", len(pub.msgs))
	}

	var first SettlementEvent
	if err := json.Unmarshal(pub.msgs[0].Value, &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first.Type != EventSaleSettled || first.RecipientID != "b1" || first.Amount != "1000.00" || first.RequestID != "req-1" {
		t.Fatalf("unexpected business event: %+v", first)
	}
	if string(pub.msgs[2].Key) != "r1" {
		t.Fatalf("referrer message keyed by %q", pub.msgs[2].Key)
	}
}

func TestNotifySettledSwallowsPublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	n := NewKafkaNotifier(pub, "settlement-events")

	n.NotifySettled(context.Background(), settledResult())
	n.Wait()
}

func TestNotifySettledOutlivesRequestContext(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewKafkaNotifier(pub, "t")

	ctx, cancel := context.WithCancel(context.Background())
	n.NotifySettled(ctx, settledResult())
	cancel()
	n.Wait()

	if len(pub.msgs) != 3 {
		t.Fatalf("published %d messages, want 3", len(pub.msgs))
	}
}
