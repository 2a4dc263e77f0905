package http

import (
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/catalog"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/referral"
)

// Money travels as decimal strings both ways.

type SettleRequest struct {
	PropertyID    string `json:"property_id" validate:"required,uuid"`
	SubPropertyID string `json:"sub_property_id,omitempty" validate:"omitempty,uuid"`
	AgentID       string `json:"agent_id,omitempty" validate:"omitempty,uuid"`
	BuyerRef      string `json:"buyer_ref,omitempty" validate:"omitempty,max=255"`
	Amount        string `json:"amount" validate:"required,numeric"`
}

type CreatePropertyRequest struct {
	AgentID   string `json:"agent_id,omitempty" validate:"omitempty,uuid"`
	BasePrice string `json:"base_price" validate:"required,numeric"`
}

type PriceRequest struct {
	Price string `json:"price" validate:"required,numeric"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ListingResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	BusinessID    string    `json:"business_id"`
	AgentID       *string   `json:"agent_id,omitempty"`
	ParentID      *string   `json:"parent_id,omitempty"`
	Price         string    `json:"price"`
	BasePrice     string    `json:"base_price,omitempty"`
	PaidAmount    string    `json:"paid_amount"`
	PriceStart    string    `json:"price_start,omitempty"`
	PriceEnd      string    `json:"price_end,omitempty"`
	TotalPrice    string    `json:"total_price,omitempty"`
	PaymentStatus string    `json:"payment_status"`
	ListingStatus string    `json:"listing_status"`
	SoldTo        *string   `json:"sold_to,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type LedgerEntryResponse struct {
	ID            string    `json:"id"`
	Reference     string    `json:"reference"`
	AgentID       *string   `json:"agent_id,omitempty"`
	BusinessID    string    `json:"business_id"`
	PropertyID    string    `json:"property_id"`
	SubPropertyID *string   `json:"sub_property_id,omitempty"`
	Direction     string    `json:"direction"`
	Service       string    `json:"service"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	Role          string    `json:"role"`
	PrevBalance   string    `json:"prev_balance"`
	NewBalance    string    `json:"new_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

type SettleResponse struct {
	Property    *ListingResponse       `json:"property"`
	SubProperty *ListingResponse       `json:"sub_property,omitempty"`
	Transaction *LedgerEntryResponse   `json:"transaction"`
	Commissions []*LedgerEntryResponse `json:"commissions"`
}

type CatalogResponse struct {
	Property    *ListingResponse `json:"property"`
	SubProperty *ListingResponse `json:"sub_property,omitempty"`
}

type ReferralRewardResponse struct {
	Rewarded    bool                 `json:"rewarded"`
	Reason      string               `json:"reason,omitempty"`
	Transaction *LedgerEntryResponse `json:"transaction,omitempty"`
}

func toListingResponse(l *domain.Listing) *ListingResponse {
	if l == nil {
		return nil
	}
	resp := &ListingResponse{
		ID:            l.ID,
		Kind:          string(l.Kind),
		BusinessID:    l.BusinessID,
		AgentID:       l.AgentID,
		ParentID:      l.ParentID,
		Price:         l.Price.StringFixed(2),
		PaidAmount:    l.PaidAmount.StringFixed(2),
		PaymentStatus: string(l.PaymentStatus),
		ListingStatus: string(l.ListingStatus),
		SoldTo:        l.SoldTo,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.Kind == domain.KindProperty {
		resp.BasePrice = l.BasePrice.StringFixed(2)
		resp.PriceStart = l.PriceStart.StringFixed(2)
		resp.PriceEnd = l.PriceEnd.StringFixed(2)
		resp.TotalPrice = l.TotalPrice.StringFixed(2)
	}
	return resp
}

func toLedgerEntryResponse(e *domain.LedgerEntry) *LedgerEntryResponse {
	if e == nil {
		return nil
	}
	return &LedgerEntryResponse{
		ID:            e.ID,
		Reference:     e.Reference,
		AgentID:       e.AgentID,
		BusinessID:    e.BusinessID,
		PropertyID:    e.PropertyID,
		SubPropertyID: e.SubPropertyID,
		Direction:     string(e.Direction),
		Service:       string(e.Service),
		Amount:        e.Amount.StringFixed(2),
		Status:        string(e.Status),
		Role:          string(e.Role),
		PrevBalance:   e.PrevBalance.StringFixed(2),
		NewBalance:    e.NewBalance.StringFixed(2),
		CreatedAt:     e.CreatedAt,
	}
}

func toLedgerEntryResponses(entries []*domain.LedgerEntry) []*LedgerEntryResponse {
	out := make([]*LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLedgerEntryResponse(e))
	}
	return out
}

func toSettleResponse(r *domain.SettlementResult) *SettleResponse {
	return &SettleResponse{
		Property:    toListingResponse(r.Property),
		SubProperty: toListingResponse(r.SubProperty),
		Transaction: toLedgerEntryResponse(r.Transaction),
		Commissions: toLedgerEntryResponses(r.Commissions),
	}
}

func toCatalogResponse(r *catalog.Result) *CatalogResponse {
	return &CatalogResponse{
		Property:    toListingResponse(r.Property),
		SubProperty: toListingResponse(r.SubProperty),
	}
}

func toReferralRewardResponse(o *referral.Outcome) *ReferralRewardResponse {
	return &ReferralRewardResponse{
		Rewarded:    o.Rewarded,
		Reason:      o.Reason,
		Transaction: toLedgerEntryResponse(o.Entry),
	}
}
