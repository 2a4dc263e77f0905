package repository

import (
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// wrapErr turns a missing row into NOT_FOUND and everything else into a
// plain wrapped error, which callers treat as INTERNAL.
func wrapErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewError(domain.CodeNotFound, what+" not found", err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func checkDelta(amount decimal.Decimal) error {
	if amount.IsPositive() {
		return nil
	}
	return domain.NewError(domain.CodeInternal, "increment "+amount.String(), domain.ErrNonPositiveDelta)
}
