package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

type SettlementConfig struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	SettlementDB `yaml:"settlement_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka_service"`
	Settlement   `yaml:"settlement"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type SettlementDB struct {
	Dsn            string `yaml:"dsn" env:"SETTLEMENT_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"SETTLEMENT_MIGRATIONS_PATH" env-default:"migrations"`
	AutoMigrate    bool   `yaml:"auto_migrate" env:"SETTLEMENT_AUTO_MIGRATE" env-default:"false"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
}

type KafkaService struct {
	Host  string `yaml:"host" env:"KAFKA_HOST"`
	Port  string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic string `yaml:"topic" env:"KAFKA_TOPIC" env-default:"settlement-events"`
}

// Settlement holds the money rules. Rates and amounts stay strings until
// Rules parses them, so a typo fails the load instead of becoming zero.
type Settlement struct {
	TxTimeout              time.Duration `yaml:"tx_timeout" env:"SETTLEMENT_TX_TIMEOUT" env-default:"30s"`
	SalesCommissionRate    string        `yaml:"sales_commission_rate" env:"SALES_COMMISSION_RATE" env-default:"0.05"`
	ReferralCommissionRate string        `yaml:"referral_commission_rate" env:"REFERRAL_COMMISSION_RATE" env-default:"0.05"`
	MaxReferralDepth       int           `yaml:"max_referral_depth" env:"MAX_REFERRAL_DEPTH" env-default:"64"`
	MoneyScale             int32         `yaml:"money_scale" env:"MONEY_SCALE" env-default:"2"`
	Rounding               string        `yaml:"rounding" env:"MONEY_ROUNDING" env-default:"half_up"`
	ReferralBonus          string        `yaml:"referral_bonus" env:"REFERRAL_BONUS" env-default:"50.00"`
}

type Rules struct {
	SalesRate     decimal.Decimal
	ReferralRate  decimal.Decimal
	ReferralBonus decimal.Decimal
	MaxDepth      int
	Money         domain.MoneyContext
}

func (s Settlement) Rules() (Rules, error) {
	salesRate, err := parseRate("sales_commission_rate", s.SalesCommissionRate)
	if err != nil {
		return Rules{}, err
	}
	referralRate, err := parseRate("referral_commission_rate", s.ReferralCommissionRate)
	if err != nil {
		return Rules{}, err
	}
	bonus, err := decimal.NewFromString(s.ReferralBonus)
	if err != nil || bonus.IsNegative() {
		return Rules{}, fmt.Errorf("invalid referral_bonus %q", s.ReferralBonus)
	}
	rounding, err := domain.ParseRoundingMode(s.Rounding)
	if err != nil {
		return Rules{}, err
	}
	if s.MoneyScale < 0 {
		return Rules{}, fmt.Errorf("invalid money_scale %d", s.MoneyScale)
	}
	if s.MaxReferralDepth <= 0 {
		return Rules{}, fmt.Errorf("invalid max_referral_depth %d", s.MaxReferralDepth)
	}

	return Rules{
		SalesRate:     salesRate,
		ReferralRate:  referralRate,
		ReferralBonus: bonus,
		MaxDepth:      s.MaxReferralDepth,
		Money:         domain.MoneyContext{Scale: s.MoneyScale, Rounding: rounding},
	}, nil
}

func parseRate(name, raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%s must be within [0, 1], got %s", name, raw)
	}
	return rate, nil
}

// Load reads the YAML file at path, applies env overrides and validates the
// settlement rules.
func Load(path string) (*SettlementConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if _, err := cfg.Settlement.Rules(); err != nil {
		return nil, fmt.Errorf("invalid settlement config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *SettlementConfig {
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}
