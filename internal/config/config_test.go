package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_ReadsYAMLAndDefaults(t *testing.T) {
	path := writeConfig(t, `
settlement_db:
  dsn: "postgres://settlement@localhost/settlement"
settlement:
  sales_commission_rate: "0.04"
  rounding: half_even
  tx_timeout: 5s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SettlementDB.Dsn != "postgres://settlement@localhost/settlement" {
		t.Fatalf("dsn = %q", cfg.SettlementDB.Dsn)
	}
	if cfg.Settlement.TxTimeout != 5*time.Second {
		t.Fatalf("tx timeout = %s", cfg.Settlement.TxTimeout)
	}

	rules, err := cfg.Settlement.Rules()
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if !rules.SalesRate.Equal(decimal.RequireFromString("0.04")) {
		t.Fatalf("sales rate = %s", rules.SalesRate)
	}
	if !rules.ReferralRate.Equal(decimal.RequireFromString("0.05")) {
		t.Fatalf("referral rate default = %s", rules.ReferralRate)
	}
	if rules.MaxDepth != 64 || rules.Money.Scale != 2 || rules.Money.Rounding != domain.RoundHalfEven {
		t.Fatalf("rules = %+v", rules)
	}
}

func TestLoad_RejectsBadRules(t *testing.T) {
	cases := map[string]string{
		"rate above one": "settlement:\n  referral_commission_rate: \"1.5\"\n",
		"rate not a number": "settlement:\n  sales_commission_rate: \"five\"\n",
		"unknown rounding": "settlement:\n  rounding: ceiling\n",
		"negative bonus":   "settlement:\n  referral_bonus: \"-1\"\n",
		"negative depth":   "settlement:\n  max_referral_depth: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), "invalid settlement config") {
				t.Fatalf("error = %v", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
