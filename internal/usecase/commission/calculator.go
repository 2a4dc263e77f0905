// Package commission computes the sales and referral commissions owed on a
// sale. It never writes anything; callers apply the breakdown.
package commission

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

const DefaultMaxDepth = 64

type Rates struct {
	Sales    decimal.Decimal
	Referral decimal.Decimal
}

func DefaultRates() Rates {
	return Rates{
		Sales:    decimal.RequireFromString("0.05"),
		Referral: decimal.RequireFromString("0.05"),
	}
}

type ReferralShare struct {
	AgentID string
	// Depth is 1 for the direct referrer.
	Depth  int
	Amount decimal.Decimal
}

type Breakdown struct {
	AgentID             string
	AgentCommission     decimal.Decimal
	ReferralPool        decimal.Decimal
	ReferralCommissions []ReferralShare
}

// ReferralTotal is the sum actually distributed, which may differ from
// ReferralPool by rounding.
func (b *Breakdown) ReferralTotal() decimal.Decimal {
	total := decimal.Zero
	for _, share := range b.ReferralCommissions {
		total = total.Add(share.Amount)
	}
	return total
}

type Calculator struct {
	Rates    Rates
	Money    domain.MoneyContext
	MaxDepth int
}

func NewCalculator(rates Rates, money domain.MoneyContext, maxDepth int) *Calculator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Calculator{Rates: rates, Money: money, MaxDepth: maxDepth}
}

// ComputeSaleCommission credits the full sales commission to agentID and
// splits the referral pool evenly across the whole upline.
func (c *Calculator) ComputeSaleCommission(ctx context.Context, tree domain.AgentTree, agentID string, amount decimal.Decimal) (*Breakdown, error) {
	upline, err := c.Upline(ctx, tree, agentID)
	if err != nil {
		return nil, err
	}

	breakdown := &Breakdown{
		AgentID:         agentID,
		AgentCommission: c.Money.Mul(amount, c.Rates.Sales),
	}
	if len(upline) == 0 {
		return breakdown, nil
	}

	breakdown.ReferralPool = c.Money.Mul(amount, c.Rates.Referral)
	share := c.Money.Split(breakdown.ReferralPool, len(upline))
	breakdown.ReferralCommissions = make([]ReferralShare, len(upline))
	for i, ancestor := range upline {
		breakdown.ReferralCommissions[i] = ReferralShare{
			AgentID: ancestor,
			Depth:   i + 1,
			Amount:  share,
		}
	}
	return breakdown, nil
}

// Upline follows referred_by from agentID to the root, nearest first.
func (c *Calculator) Upline(ctx context.Context, tree domain.AgentTree, agentID string) ([]string, error) {
	visited := map[string]struct{}{agentID: {}}
	var upline []string

	current := agentID
	for {
		referrer, ok, err := tree.ReferrerOf(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("resolve referrer of %s: %w", current, err)
		}
		if !ok {
			return upline, nil
		}
		if _, seen := visited[referrer]; seen {
			return nil, domain.NewError(domain.CodeInternal,
				fmt.Sprintf("agent %s points back to %s", current, referrer), domain.ErrReferralCycle)
		}
		if len(upline) >= c.MaxDepth {
			return nil, domain.NewError(domain.CodeInternal,
				fmt.Sprintf("upline of %s is longer than %d", agentID, c.MaxDepth), domain.ErrReferralTooDeep)
		}
		visited[referrer] = struct{}{}
		upline = append(upline, referrer)
		current = referrer
	}
}

// StaticTree is an in-memory AgentTree keyed by agent id.
type StaticTree map[string]string

func (t StaticTree) ReferrerOf(_ context.Context, agentID string) (string, bool, error) {
	referrer, ok := t[agentID]
	if !ok || referrer == "" {
		return "", false, nil
	}
	return referrer, true, nil
}
