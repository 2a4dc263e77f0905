package notifier

import "time"

const (
	EventSaleSettled      = "sale.settled"
	EventCommissionEarned = "commission.earned"
	EventReferralRewarded = "referral.rewarded"
)

const (
	RecipientBusiness = "business"
	RecipientAgent    = "agent"
)

// SettlementEvent is the JSON payload consumed by the notification service.
// Amounts are decimal strings.
type SettlementEvent struct {
	Type          string    `json:"type"`
	RecipientType string    `json:"recipient_type"`
	RecipientID   string    `json:"recipient_id"`
	RequestID     string    `json:"request_id,omitempty"`
	PropertyID    string    `json:"property_id"`
	SubPropertyID string    `json:"sub_property_id,omitempty"`
	Reference     string    `json:"reference"`
	Service       string    `json:"service"`
	Amount        string    `json:"amount"`
	NewBalance    string    `json:"new_balance"`
	OccurredAt    time.Time `json:"occurred_at"`
}
