package repository

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"gorm.io/gorm"
)

// DefaultStore binds every repository to the same handle, so repositories
// taken from a transaction's store all run inside that transaction.
type DefaultStore struct {
	listings   *DefaultListingRepository
	agents     *DefaultAgentRepository
	businesses *DefaultBusinessRepository
	ledger     *DefaultLedgerRepository
}

func NewDefaultStore(db *gorm.DB) *DefaultStore {
	return &DefaultStore{
		listings:   NewDefaultListingRepository(db),
		agents:     NewDefaultAgentRepository(db),
		businesses: NewDefaultBusinessRepository(db),
		ledger:     NewDefaultLedgerRepository(db),
	}
}

func (s *DefaultStore) Listings() domain.ListingRepository   { return s.listings }
func (s *DefaultStore) Agents() domain.AgentRepository       { return s.agents }
func (s *DefaultStore) Businesses() domain.BusinessRepository { return s.businesses }
func (s *DefaultStore) Ledger() domain.LedgerRepository       { return s.ledger }
