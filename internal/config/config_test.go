package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("LEDGER_DRIVER", "")
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.LedgerDriver != DriverBolt {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.JWT.TTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %s", cfg.JWT.TTL)
	}
	if cfg.Household.DeletePolicy != "block" {
		t.Fatalf("expected block policy, got %s", cfg.Household.DeletePolicy)
	}
	if cfg.Telegram.Enabled() {
		t.Fatalf("telegram must be off without token")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("LEDGER_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "hh")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "house")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SYNC_INTERVAL_SECONDS", "45")
	t.Setenv("RECURRENCE_INTERVAL", "2m")
	t.Setenv("RECURRENCE_TIMEZONE", "UTC")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Driver != DriverPostgres {
		t.Fatalf("expected postgres, got %s", cfg.Storage.Driver)
	}
	if want := "postgres://hh:pw@db:5432/house?sslmode=disable"; cfg.Database.URL != want {
		t.Fatalf("expected %s, got %s", want, cfg.Database.URL)
	}
	if cfg.Buffer.SyncInterval != 45*time.Second || cfg.Recurrence.Interval != 2*time.Minute {
		t.Fatalf("durations not parsed: %s %s", cfg.Buffer.SyncInterval, cfg.Recurrence.Interval)
	}
	loc, err := cfg.Recurrence.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("unexpected location %v (%v)", loc, err)
	}
	if !cfg.Telegram.Enabled() || cfg.Telegram.ChatID != -100123 {
		t.Fatalf("unexpected telegram config: %+v", cfg.Telegram)
	}
}

func TestLoadRejectsInconsistentDrivers(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cases := []map[string]string{
		{"STORAGE_DRIVER": "mongo"},
		{"STORAGE_DRIVER": "sqlite", "LEDGER_DRIVER": "postgres"},
		{"STORAGE_DRIVER": "sqlite", "LEDGER_DRIVER": "redis", "REDIS_ENABLED": "false"},
		{"STORAGE_DRIVER": "sqlite", "LEDGER_DRIVER": "bolt", "RECURRENCE_TIMEZONE": "Mars/Olympus"},
	}
	for _, env := range cases {
		t.Run(env["STORAGE_DRIVER"]+"/"+env["LEDGER_DRIVER"], func(t *testing.T) {
			for _, k := range []string{"STORAGE_DRIVER", "LEDGER_DRIVER", "REDIS_ENABLED", "RECURRENCE_TIMEZONE"} {
				t.Setenv(k, env[k])
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", env)
			}
		})
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LEDGER_DRIVER", "memory")
	if _, err := Load(); err == nil {
		t.Fatalf("expected missing secret error")
	}
}
