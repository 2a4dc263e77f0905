package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Settle records a full payment against a property or one of its
// sub-properties. Everything up to the sale ledger line happens in one
// transaction; notifications go out only after it commits.
func (uc *DefaultSettlementUsecase) Settle(ctx context.Context, in domain.SettleInput) (*domain.SettlementResult, error) {
	start := time.Now()
	kind := domain.KindProperty
	if in.IsSubProperty() {
		kind = domain.KindSubProperty
	}

	result, err := uc.settle(ctx, in)
	uc.Metrics.RecordSettlement(kind, err, time.Since(start))
	if err != nil {
		uc.logFailure(ctx, in, err)
		return nil, err
	}

	uc.Metrics.RecordSettled(result)
	uc.logSuccess(ctx, in, result)
	if uc.Notifier != nil {
		uc.Notifier.NotifySettled(ctx, result)
	}
	return result, nil
}

func (uc *DefaultSettlementUsecase) validate(in domain.SettleInput) error {
	switch {
	case in.PropertyID == "":
		return domain.NewError(domain.CodeInvalidInput, "property id is required", nil)
	case in.BusinessID == "":
		return domain.NewError(domain.CodeUnauthorized, "business id is required", nil)
	case !in.Amount.IsPositive():
		return domain.NewError(domain.CodeInvalidInput, "amount must be positive", nil)
	case !uc.Money.IsRepresentable(in.Amount):
		return domain.NewError(domain.CodeInvalidInput,
			fmt.Sprintf("amount %s has more than %d decimal places", in.Amount, uc.Money.Scale), nil)
	}
	return nil
}

func (uc *DefaultSettlementUsecase) settle(ctx context.Context, in domain.SettleInput) (*domain.SettlementResult, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}

	var result *domain.SettlementResult
	err := uc.TxManager.WithinTx(ctx, func(ctx context.Context, store domain.Store) error {
		listings := store.Listings()

		if _, err := store.Businesses().GetBusiness(ctx, in.BusinessID); err != nil {
			return err
		}

		// Parent before child, the same order whole-property sales and
		// catalog edits use.
		property, err := listings.GetPropertyForUpdate(ctx, in.PropertyID)
		if err != nil {
			return err
		}
		if property.BusinessID != in.BusinessID {
			return domain.NewError(domain.CodeUnauthorized,
				fmt.Sprintf("property %s is not owned by business %s", property.ID, in.BusinessID), nil)
		}

		target := property
		var sub *domain.Listing
		if in.IsSubProperty() {
			sub, err = listings.GetSubPropertyForUpdate(ctx, in.SubPropertyID)
			if err != nil {
				return err
			}
			if sub.ParentID == nil || *sub.ParentID != property.ID {
				return domain.NewError(domain.CodeNotFound,
					fmt.Sprintf("sub-property %s does not belong to property %s", sub.ID, property.ID), nil)
			}
			target = sub
		}

		if target.IsPaid() {
			return domain.NewError(domain.CodeAlreadyPaid, fmt.Sprintf("%s %s is already paid", target.Kind, target.ID), nil)
		}
		if !uc.Money.Equal(in.Amount, target.Price) {
			return domain.NewError(domain.CodeAmountMismatch,
				fmt.Sprintf("amount %s does not match price %s", uc.Money.Format(in.Amount), uc.Money.Format(target.Price)), nil)
		}

		agentID, err := uc.effectiveAgent(ctx, store, in, target)
		if err != nil {
			return err
		}
		buyerRef := optional(in.BuyerRef)

		var swept int64
		if sub != nil {
			if err := uc.settleSubProperty(ctx, listings, property, sub, agentID, buyerRef); err != nil {
				return err
			}
		} else {
			property.MarkPaid(buyerRef)
			if err := listings.SaveSettlementState(ctx, property); err != nil {
				return err
			}
			swept, err = listings.SettleSubProperties(ctx, property.ID, agentID, buyerRef)
			if err != nil {
				return err
			}
		}

		balance, err := store.Businesses().CreditBalance(ctx, in.BusinessID, in.Amount)
		if err != nil {
			return err
		}

		commissions, err := uc.applyCommissions(ctx, store, in, agentID)
		if err != nil {
			return err
		}

		role := domain.RoleProperty
		if sub != nil {
			role = domain.RoleSubProperty
		}
		sale, err := uc.Recorder.Append(ctx, store.Ledger(), &domain.LedgerEntry{
			AgentID:       agentID,
			BusinessID:    in.BusinessID,
			PropertyID:    property.ID,
			SubPropertyID: optional(in.SubPropertyID),
			Direction:     domain.Credit,
			Service:       domain.ServiceSale,
			Amount:        in.Amount,
			Role:          role,
			PrevBalance:   balance.Prev,
			NewBalance:    balance.New,
		})
		if err != nil {
			return err
		}

		result = &domain.SettlementResult{
			Transaction:        sale,
			Commissions:        commissions,
			SweptSubProperties: swept,
		}
		if result.Property, err = listings.GetProperty(ctx, property.ID); err != nil {
			return err
		}
		if sub != nil {
			if result.SubProperty, err = listings.GetSubProperty(ctx, sub.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// effectiveAgent is the caller's agent, else the one already on the listing,
// else nil for a house sale.
func (uc *DefaultSettlementUsecase) effectiveAgent(ctx context.Context, store domain.Store, in domain.SettleInput, target *domain.Listing) (*string, error) {
	agentID := optional(in.AgentID)
	if agentID == nil && target.AgentID != nil && *target.AgentID != "" {
		id := *target.AgentID
		agentID = &id
	}
	if agentID == nil {
		return nil, nil
	}
	if _, err := store.Agents().GetAgent(ctx, *agentID); err != nil {
		return nil, err
	}
	return agentID, nil
}

// settleSubProperty marks sub sold, takes its price off the parent's remaining
// value and closes the parent once no sibling is left unpaid.
func (uc *DefaultSettlementUsecase) settleSubProperty(ctx context.Context, listings domain.ListingRepository, property, sub *domain.Listing, agentID, buyerRef *string) error {
	if agentID != nil {
		sub.AgentID = agentID
	}
	sub.MarkPaid(buyerRef)
	if err := listings.SaveSettlementState(ctx, sub); err != nil {
		return err
	}

	remaining := property.Price.Sub(sub.Price)
	if remaining.IsNegative() {
		slog.Warn("parent price below sold sub-property price, clamping to zero",
			"property_id", property.ID,
			"sub_property_id", sub.ID,
			"parent_price", property.Price.String(),
			"sub_price", sub.Price.String(),
		)
		remaining = decimal.Zero
	}
	property.Price = uc.Money.Round(remaining)

	unpaid, err := listings.CountUnpaidSubProperties(ctx, property.ID)
	if err != nil {
		return err
	}
	if unpaid == 0 {
		property.MarkPaid(nil)
	}
	return listings.SaveSettlementState(ctx, property)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
