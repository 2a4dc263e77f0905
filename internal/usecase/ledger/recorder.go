package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

const referenceLength = 21

// Recorder validates and appends ledger entries through whatever appender it
// is handed, normally the one bound to the caller's transaction. It never
// opens a transaction of its own.
type Recorder struct {
	newReference func() string
	now          func() time.Time
}

func NewRecorder() (*Recorder, error) {
	gen, err := nanoid.Standard(referenceLength)
	if err != nil {
		return nil, fmt.Errorf("init reference generator: %w", err)
	}
	return &Recorder{newReference: gen, now: time.Now}, nil
}

func (r *Recorder) Append(ctx context.Context, appender domain.LedgerAppender, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if err := validate(entry); err != nil {
		return nil, err
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Reference == "" {
		entry.Reference = r.newReference()
	}
	if entry.Status == "" {
		entry.Status = domain.LedgerSuccessful
	}
	if entry.Direction == "" {
		entry.Direction = domain.Credit
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}

	if err := appender.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func validate(entry *domain.LedgerEntry) error {
	switch {
	case entry == nil:
		return domain.NewError(domain.CodeInvalidInput, "ledger entry is nil", nil)
	case !entry.Amount.IsPositive():
		return domain.NewError(domain.CodeInvalidInput, "ledger amount must be positive, got "+entry.Amount.String(), nil)
	case entry.Service == "":
		return domain.NewError(domain.CodeInvalidInput, "ledger service is required", nil)
	case entry.Role == "":
		return domain.NewError(domain.CodeInvalidInput, "ledger role is required", nil)
	case entry.BusinessID == "" || entry.PropertyID == "":
		return domain.NewError(domain.CodeInvalidInput, "ledger entry needs business and property", nil)
	}
	return nil
}
