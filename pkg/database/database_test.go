package database_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/bulletin/pkg/database"
)

func testConfig() database.Config {
	return database.Config{
		Host:            "localhost",
		Port:            5432,
		Name:            "bulletin",
		User:            "bulletin",
		Password:        "bulletin",
		SSLMode:         "disable",
		MaxConns:        12,
		MinConns:        0,
		ConnMaxLifetime: "15m",
		ConnMaxIdleTime: "5m",
		ConnTimeout:     "5s",
	}
}

func TestNewReturnsSystem(t *testing.T) {
	cfg := testConfig()

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pool := sys.Pool()
	if pool == nil {
		t.Fatal("Pool() returned nil")
	}
	pool.Close()
}

func TestNewAppliesPoolConfig(t *testing.T) {
	cfg := testConfig()

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Pool().Close()

	poolCfg := sys.Pool().Config()
	if poolCfg.MaxConns != 12 {
		t.Errorf("MaxConns = %d, want 12", poolCfg.MaxConns)
	}
	if poolCfg.MaxConnLifetime != cfg.ConnMaxLifetimeDuration() {
		t.Errorf("MaxConnLifetime = %v, want %v", poolCfg.MaxConnLifetime, cfg.ConnMaxLifetimeDuration())
	}
	if poolCfg.ConnConfig.Database != "bulletin" {
		t.Errorf("Database = %q, want bulletin", poolCfg.ConnConfig.Database)
	}
}

func TestNewInvalidDsn(t *testing.T) {
	cfg := testConfig()
	cfg.SSLMode = "sometimes"

	if _, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected error for invalid sslmode, got nil")
	}
}
