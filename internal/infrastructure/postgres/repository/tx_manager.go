package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"gorm.io/gorm"
)

type DefaultTxManager struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewDefaultTxManager(db *gorm.DB, timeout time.Duration) *DefaultTxManager {
	return &DefaultTxManager{DB: db, Timeout: timeout}
}

// WithinTx runs fn in a read-committed transaction bounded by Timeout. Any
// error returned by fn rolls the transaction back.
func (m *DefaultTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, store domain.Store) error) error {
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" && m.Timeout > 0 {
			ms := m.Timeout.Milliseconds()
			if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = %d", ms)).Error; err != nil {
				return fmt.Errorf("set lock_timeout: %w", err)
			}
			if err := tx.Exec(fmt.Sprintf("SET LOCAL statement_timeout = %d", ms)).Error; err != nil {
				return fmt.Errorf("set statement_timeout: %w", err)
			}
		}
		return fn(ctx, NewDefaultStore(tx))
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})

	if errors.Is(err, context.DeadlineExceeded) && !errors.As(err, new(*domain.Error)) {
		return domain.NewError(domain.CodeInternal, "transaction timed out", err)
	}
	return err
}
