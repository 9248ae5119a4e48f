package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DISABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("expected dev env, got %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTPAddr)
	}
	if cfg.SyncRefreshInterval != 6*time.Hour {
		t.Fatalf("unexpected refresh interval: %s", cfg.SyncRefreshInterval)
	}
	if cfg.SquadBudget != 100.0 {
		t.Fatalf("unexpected squad budget: %v", cfg.SquadBudget)
	}
	ratioSum := cfg.SquadBudgetRatioGK + cfg.SquadBudgetRatioDEF + cfg.SquadBudgetRatioMID + cfg.SquadBudgetRatioFWD
	if ratioSum < 0.99 || ratioSum > 1.01 {
		t.Fatalf("budget ratios should sum to 1, got %v", ratioSum)
	}
	if cfg.FPLBaseURL == "" {
		t.Fatal("expected a default FPL base URL")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DB_DISABLED", "false")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadRejectsInvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_ENV")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("DB_DISABLED", "true")
	t.Setenv("SYNC_REFRESH_INTERVAL", "six hours")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid SYNC_REFRESH_INTERVAL")
	}
}

func TestLoadOracleRequiresKey(t *testing.T) {
	t.Setenv("DB_DISABLED", "true")
	t.Setenv("ORACLE_ENABLED", "true")
	t.Setenv("ORACLE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when oracle is enabled without a key")
	}
}
