package postgres

import (
	"fmt"
	"log"

	"github.com/LavaJover/shvark-settlement-service/internal/config"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.BusinessModel{},
		&models.AgentModel{},
		&models.PropertyModel{},
		&models.SubPropertyModel{},
		&models.LedgerEntryModel{},
		&logger.SettlementSucceededEvent{},
		&logger.SettlementFailedEvent{},
	}
}

func InitDB(cfg *config.SettlementConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.SettlementDB.Dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	if cfg.SettlementDB.AutoMigrate {
		if err := db.AutoMigrate(Models()...); err != nil {
			return nil, fmt.Errorf("failed to auto-migrate: %w", err)
		}
	}
	return db, nil
}

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	db, err := InitDB(cfg)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return db
}
