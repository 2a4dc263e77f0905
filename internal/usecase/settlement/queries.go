package settlement

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

// PropertyLedger lists every ledger line booked against a property the
// business owns.
func (uc *DefaultSettlementUsecase) PropertyLedger(ctx context.Context, businessID, propertyID string) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	err := uc.TxManager.WithinTx(ctx, func(ctx context.Context, store domain.Store) error {
		property, err := store.Listings().GetProperty(ctx, propertyID)
		if err != nil {
			return err
		}
		if property.BusinessID != businessID {
			return domain.NewError(domain.CodeUnauthorized,
				fmt.Sprintf("property %s is not owned by business %s", propertyID, businessID), nil)
		}
		entries, err = store.Ledger().ListByProperty(ctx, propertyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
