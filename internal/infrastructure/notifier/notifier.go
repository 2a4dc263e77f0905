package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

const publishTimeout = 10 * time.Second

// KafkaNotifier publishes post-commit notifications in the background.
// Failures are logged and dropped.
type KafkaNotifier struct {
	publisher domain.PublisherPort
	topic     string
	wg        sync.WaitGroup
}

func NewKafkaNotifier(publisher domain.PublisherPort, topic string) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher, topic: topic}
}

func (n *KafkaNotifier) NotifySettled(ctx context.Context, result *domain.SettlementResult) {
	if result == nil || result.Transaction == nil {
		return
	}
	requestID := domain.RequestIDFrom(ctx)

	events := []SettlementEvent{toEvent(EventSaleSettled, RecipientBusiness, result.Transaction.BusinessID, requestID, result.Transaction)}
	for _, entry := range result.Commissions {
		if entry.AgentID == nil {
			continue
		}
		events = append(events, toEvent(EventCommissionEarned, RecipientAgent, *entry.AgentID, requestID, entry))
	}
	n.publish(ctx, events)
}

func (n *KafkaNotifier) NotifyReferralRewarded(ctx context.Context, agentID string, entry *domain.LedgerEntry) {
	if entry == nil || entry.AgentID == nil {
		return
	}
	event := toEvent(EventReferralRewarded, RecipientAgent, *entry.AgentID, domain.RequestIDFrom(ctx), entry)
	slog.Debug("referral reward notification", "referred_agent_id", agentID, "referrer_id", *entry.AgentID)
	n.publish(ctx, []SettlementEvent{event})
}

func (n *KafkaNotifier) publish(ctx context.Context, events []SettlementEvent) {
	msgs := make([]domain.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			slog.Error("failed to marshal settlement event", "type", event.Type, "error", err)
			continue
		}
		msgs = append(msgs, domain.Message{Key: []byte(event.RecipientID), Value: value})
	}
	if len(msgs) == 0 {
		return
	}

	// The request context is about to be cancelled; keep its values only.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()
		if err := n.publisher.Publish(pubCtx, n.topic, msgs...); err != nil {
			slog.Error("failed to publish settlement notifications", "topic", n.topic, "count", len(msgs), "error", err)
		}
	}()
}

// Wait blocks until in-flight publishes finish.
func (n *KafkaNotifier) Wait() {
	n.wg.Wait()
}

func toEvent(eventType, recipientType, recipientID, requestID string, entry *domain.LedgerEntry) SettlementEvent {
	event := SettlementEvent{
		Type:          eventType,
		RecipientType: recipientType,
		RecipientID:   recipientID,
		RequestID:     requestID,
		PropertyID:    entry.PropertyID,
		Reference:     entry.Reference,
		Service:       string(entry.Service),
		Amount:        entry.Amount.StringFixed(2),
		NewBalance:    entry.NewBalance.StringFixed(2),
		OccurredAt:    entry.CreatedAt,
	}
	if entry.SubPropertyID != nil {
		event.SubPropertyID = *entry.SubPropertyID
	}
	return event
}
