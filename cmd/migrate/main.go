// Command migrate applies the embedded schema migrations for the notices,
// complaints, students, and sequence counter tables.
package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/bulletin/internal/config"
	"github.com/JaimeStill/bulletin/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "BULLETIN_DB_DSN"

var errUsage = errors.New("usage: migrate [-dsn url] [-verbose] up|down|version|steps N|force N")

func main() {
	var (
		dsn     = flag.String("dsn", "", "Database URL (defaults to "+envDSN+", then the BULLETIN_DB_* settings)")
		verbose = flag.Bool("verbose", false, "Log every migration step")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("system", "migrate")

	if err := run(logger, *dsn, *verbose, flag.Args()); err != nil {
		logger.Error("migration failed", "error", err)
		if errors.Is(err, errUsage) {
			flag.PrintDefaults()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(logger *slog.Logger, dsn string, verbose bool, args []string) error {
	cmd, n, err := parseCommand(args)
	if err != nil {
		return err
	}

	url, err := resolveURL(dsn)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()
	m.Log = migrateLogger{logger: logger, verbose: verbose}

	switch cmd {
	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
		return nil
	case "force":
		if err := m.Force(n); err != nil {
			return fmt.Errorf("force version %d: %w", n, err)
		}
		logger.Warn("schema version forced", "version", n)
		return nil
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(n)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("schema already current")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}

	logger.Info("migrations applied", "command", cmd)
	return nil
}

// parseCommand validates the positional arguments. steps and force take an
// integer operand; the other commands take none.
func parseCommand(args []string) (string, int, error) {
	if len(args) == 0 {
		return "", 0, errUsage
	}

	switch cmd := args[0]; cmd {
	case "up", "down", "version":
		if len(args) != 1 {
			return "", 0, errUsage
		}
		return cmd, 0, nil
	case "steps", "force":
		if len(args) != 2 {
			return "", 0, errUsage
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || (cmd == "steps" && n == 0) {
			return "", 0, fmt.Errorf("%w: invalid %s operand %q", errUsage, cmd, args[1])
		}
		return cmd, n, nil
	default:
		return "", 0, fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// resolveURL prefers an explicit URL, then BULLETIN_DB_DSN, then the same
// BULLETIN_DB_* variables the server reads.
func resolveURL(dsn string) (string, error) {
	if dsn != "" {
		return dsn, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}

	var cfg database.Config
	if err := cfg.Finalize(config.DatabaseEnv); err != nil {
		return "", fmt.Errorf("database settings: %w", err)
	}
	return cfg.URL(), nil
}

type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return l.verbose
}
