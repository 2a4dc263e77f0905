package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type RoundingMode string

const (
	RoundHalfUp   RoundingMode = "half_up"
	RoundHalfEven RoundingMode = "half_even"
	RoundDown     RoundingMode = "down"
)

// MoneyContext carries precision and rounding for every money computation.
// Nothing in the service touches decimal's package-level settings.
type MoneyContext struct {
	Scale    int32
	Rounding RoundingMode
}

func DefaultMoneyContext() MoneyContext {
	return MoneyContext{Scale: 2, Rounding: RoundHalfUp}
}

func ParseRoundingMode(s string) (RoundingMode, error) {
	switch mode := RoundingMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case RoundHalfUp, RoundHalfEven, RoundDown:
		return mode, nil
	case "":
		return RoundHalfUp, nil
	default:
		return "", fmt.Errorf("unknown rounding mode %q", s)
	}
}

func (m MoneyContext) Round(d decimal.Decimal) decimal.Decimal {
	switch m.Rounding {
	case RoundHalfEven:
		return d.RoundBank(m.Scale)
	case RoundDown:
		return d.Truncate(m.Scale)
	default:
		return d.Round(m.Scale)
	}
}

func (m MoneyContext) Mul(amount, rate decimal.Decimal) decimal.Decimal {
	return m.Round(amount.Mul(rate))
}

// Split divides pool into n equal shares. Division runs at Scale+4 digits
// before the final rounding so the rounding mode decides the last digit.
func (m MoneyContext) Split(pool decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return m.Round(pool.DivRound(decimal.NewFromInt(int64(n)), m.Scale+4))
}

func (m MoneyContext) Equal(a, b decimal.Decimal) bool {
	return m.Round(a).Equal(m.Round(b))
}

// IsRepresentable reports whether d carries no digits beyond Scale.
func (m MoneyContext) IsRepresentable(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(m.Scale))
}

func (m MoneyContext) Format(d decimal.Decimal) string {
	return m.Round(d).StringFixed(m.Scale)
}
