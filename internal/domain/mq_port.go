package domain

import "context"

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

// SettlementNotifier is fired after commit. Implementations must not block
// the caller and must swallow their own failures.
type SettlementNotifier interface {
	NotifySettled(ctx context.Context, result *SettlementResult)
}

type ReferralRewardNotifier interface {
	NotifyReferralRewarded(ctx context.Context, agentID string, entry *LedgerEntry)
}
