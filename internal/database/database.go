package database

import (
	"fmt"
	"strings"

	"edu-classroom/internal/config"
	"edu-classroom/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver, registered as "pgx"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver
	"go.uber.org/zap"
)

const (
	pgxDriverName    = "pgx"
	oracleDriverName = "oracle"
)

func init() {
	// go-ora binds positional :argN placeholders; sqlx does not know the driver name.
	sqlx.BindDriver(oracleDriverName, sqlx.NAMED)
}

// NewSQLXDB opens the configured store and verifies the connection.
// Model structs use upper case db tags, which match Oracle's folded column
// names; for Postgres the tags are lower-cased to match its folding.
func NewSQLXDB(cfg *config.Config) (*sqlx.DB, error) {
	driverName := pgxDriverName
	if cfg.DB.Driver == config.DriverOracle {
		driverName = oracleDriverName
	}

	db, err := sqlx.Connect(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DB.Driver, err)
	}

	if driverName == pgxDriverName {
		db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToLower, strings.ToLower)
	}

	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.DB.Driver, err)
	}

	logger.Get().Info("Successfully connected to database",
		zap.String("driver", cfg.DB.Driver),
		zap.String("host", cfg.DB.Host),
		zap.String("name", cfg.DB.DBName))
	return db, nil
}
