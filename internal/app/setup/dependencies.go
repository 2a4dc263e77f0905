package setup

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/config"
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config      *config.SettlementConfig
	Rules       config.Rules
	DB          *gorm.DB
	TxManager   domain.TxManager
	Publisher   *publisher.DefaultKafkaPublisher
	Notifier    *notifier.KafkaNotifier
	EventLogger logger.SettlementEventLogger
	Registry    *prometheus.Registry
	Metrics     *metrics.SettlementMetrics
}

// InitializeDependencies opens the database and builds the infrastructure
// adapters. The Kafka notifier is only built when a broker host is set.
func InitializeDependencies(cfg *config.SettlementConfig) (*Dependencies, error) {
	rules, err := cfg.Settlement.Rules()
	if err != nil {
		return nil, fmt.Errorf("settlement rules: %w", err)
	}

	db, err := postgres.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := &Dependencies{
		Config:      cfg,
		Rules:       rules,
		DB:          db,
		TxManager:   repository.NewDefaultTxManager(db, cfg.Settlement.TxTimeout),
		EventLogger: logger.NewPGSettlementEventLogger(db),
		Registry:    registry,
		Metrics:     metrics.NewSettlementMetrics(registry),
	}

	if cfg.KafkaService.Host != "" {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
		deps.Publisher = publisher.NewDefaultKafkaPublisher(brokers)
		deps.Notifier = notifier.NewKafkaNotifier(deps.Publisher, cfg.KafkaService.Topic)
	}
	return deps, nil
}

// Ping checks that the database answers.
func (d *Dependencies) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close flushes pending notifications and releases connections.
func (d *Dependencies) Close() error {
	if d.Notifier != nil {
		d.Notifier.Wait()
	}
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
