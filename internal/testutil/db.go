// Package testutil opens throwaway SQLite stores shaped like the production
// schema and seeds them.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a file-backed SQLite database under t.TempDir. Transactions
// start with BEGIN IMMEDIATE, so concurrent writers queue on the database
// lock the way row-locked Postgres transactions queue on the row.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settlement.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_txlock=immediate", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(postgres.Models()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func NewTxManager(db *gorm.DB) *repository.DefaultTxManager {
	return repository.NewDefaultTxManager(db, 15*time.Second)
}

// Fixtures seeds rows directly through the repositories.
type Fixtures struct {
	t     *testing.T
	store *repository.DefaultStore
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, store: repository.NewDefaultStore(db)}
}

func (f *Fixtures) Store() domain.Store {
	return f.store
}

func (f *Fixtures) Business() *domain.Business {
	f.t.Helper()
	business := &domain.Business{ID: uuid.New().String(), Balance: decimal.Zero}
	if err := f.store.Businesses().CreateBusiness(context.Background(), business); err != nil {
		f.t.Fatalf("create business: %v", err)
	}
	return business
}

type AgentOption func(*domain.Agent)

func ReferredBy(referrerID string) AgentOption {
	return func(a *domain.Agent) { a.ReferredBy = &referrerID }
}

func Verified() AgentOption {
	return func(a *domain.Agent) {
		a.NINVerified = true
		a.EmailVerified = true
	}
}

func (f *Fixtures) Agent(opts ...AgentOption) *domain.Agent {
	f.t.Helper()
	agent := &domain.Agent{ID: uuid.New().String()}
	for _, opt := range opts {
		opt(agent)
	}
	if err := f.store.Agents().CreateAgent(context.Background(), agent); err != nil {
		f.t.Fatalf("create agent: %v", err)
	}
	return agent
}

// Chain creates n agents where each one refers the next, and returns them
// root first. The last agent is the seller.
func (f *Fixtures) Chain(n int) []*domain.Agent {
	f.t.Helper()
	agents := make([]*domain.Agent, 0, n)
	for i := 0; i < n; i++ {
		var opts []AgentOption
		if i > 0 {
			opts = append(opts, ReferredBy(agents[i-1].ID))
		}
		agents = append(agents, f.Agent(opts...))
	}
	return agents
}

// Property creates an unsold property whose price is its base price.
func (f *Fixtures) Property(businessID, basePrice string) *domain.Listing {
	f.t.Helper()
	base := decimal.RequireFromString(basePrice)
	property := &domain.Listing{
		ID:            uuid.New().String(),
		Kind:          domain.KindProperty,
		BusinessID:    businessID,
		Price:         base,
		BasePrice:     base,
		PriceStart:    base,
		PriceEnd:      base,
		TotalPrice:    base,
		PaymentStatus: domain.PaymentPending,
		ListingStatus: domain.ListingAvailable,
	}
	if err := f.store.Listings().CreateProperty(context.Background(), property); err != nil {
		f.t.Fatalf("create property: %v", err)
	}
	return property
}

// SubProperty creates an unsold sub-property without touching the parent's
// aggregate.
func (f *Fixtures) SubProperty(property *domain.Listing, price string) *domain.Listing {
	f.t.Helper()
	parentID := property.ID
	sub := &domain.Listing{
		ID:            uuid.New().String(),
		Kind:          domain.KindSubProperty,
		BusinessID:    property.BusinessID,
		ParentID:      &parentID,
		Price:         decimal.RequireFromString(price),
		PaymentStatus: domain.PaymentPending,
		ListingStatus: domain.ListingAvailable,
		CreatedAt:     time.Now(),
	}
	if err := f.store.Listings().CreateSubProperty(context.Background(), sub); err != nil {
		f.t.Fatalf("create sub-property: %v", err)
	}
	return sub
}

func (f *Fixtures) SetPropertyPrice(property *domain.Listing, price string) {
	f.t.Helper()
	property.Price = decimal.RequireFromString(price)
	if err := f.store.Listings().SaveSettlementState(context.Background(), property); err != nil {
		f.t.Fatalf("set property price: %v", err)
	}
}

func (f *Fixtures) ReloadProperty(id string) *domain.Listing {
	f.t.Helper()
	property, err := f.store.Listings().GetProperty(context.Background(), id)
	if err != nil {
		f.t.Fatalf("reload property: %v", err)
	}
	return property
}

func (f *Fixtures) ReloadSubProperty(id string) *domain.Listing {
	f.t.Helper()
	sub, err := f.store.Listings().GetSubProperty(context.Background(), id)
	if err != nil {
		f.t.Fatalf("reload sub-property: %v", err)
	}
	return sub
}

func (f *Fixtures) ReloadAgent(id string) *domain.Agent {
	f.t.Helper()
	agent, err := f.store.Agents().GetAgent(context.Background(), id)
	if err != nil {
		f.t.Fatalf("reload agent: %v", err)
	}
	return agent
}

func (f *Fixtures) ReloadBusiness(id string) *domain.Business {
	f.t.Helper()
	business, err := f.store.Businesses().GetBusiness(context.Background(), id)
	if err != nil {
		f.t.Fatalf("reload business: %v", err)
	}
	return business
}

func (f *Fixtures) Ledger(propertyID string) []*domain.LedgerEntry {
	f.t.Helper()
	entries, err := f.store.Ledger().ListByProperty(context.Background(), propertyID)
	if err != nil {
		f.t.Fatalf("list ledger: %v", err)
	}
	return entries
}

func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
