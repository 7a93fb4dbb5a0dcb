package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"edu-classroom/internal/config"
	"edu-classroom/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sijms/go-ora/v2/network"
	"go.uber.org/zap"
)

//go:embed migrations/postgres/*.sql migrations/oracle/*.sql
var migrationFS embed.FS

// Oracle codes raised when an object from an earlier run already exists.
var oracleAlreadyExistsCodes = map[int]bool{
	955:  true, // name is already used by an existing object
	1408: true, // such column list already indexed
	2260: true, // table can have only one primary key
	2261: true, // such unique or primary key already exists
	2275: true, // such a referential constraint already exists
}

// RunMigrations applies every pending up migration for the configured driver.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	if driver == config.DriverOracle {
		return runOracleMigrations(ctx, db)
	}
	return runPostgresMigrations(db)
}

// RollbackMigrations reverts the given number of Postgres migration steps.
func RollbackMigrations(db *sql.DB, steps int) error {
	m, err := newPostgresMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not roll back %d migration(s): %w", steps, err)
	}
	return nil
}

func newPostgresMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations/postgres")
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}
	drv, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	return m, nil
}

func runPostgresMigrations(db *sql.DB) error {
	m, err := newPostgresMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Get().Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("could not apply migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	logger.Get().Info("Migrations completed successfully", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// runOracleMigrations executes the embedded Oracle scripts statement by
// statement. golang-migrate ships no Oracle driver, so re-runs rely on
// skipping "already exists" errors.
func runOracleMigrations(ctx context.Context, db *sql.DB) error {
	files, err := fs.Glob(migrationFS, "migrations/oracle/*.up.sql")
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := migrationFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file, err)
		}

		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				var oraErr *network.OracleError
				if errors.As(err, &oraErr) && oracleAlreadyExistsCodes[oraErr.ErrCode] {
					logger.Get().Debug("Skipping existing object", zap.String("file", file), zap.Int("ora_code", oraErr.ErrCode))
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", file, err)
			}
		}
		logger.Get().Info("Executed migration", zap.String("file", file))
	}

	logger.Get().Info("Migrations completed successfully")
	return nil
}

// SplitStatements splits a script on ';' and drops blank and comment-only parts.
func SplitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
