package main

import (
	"context"
	"flag"
	"log"

	"edu-classroom/internal/config"
	"edu-classroom/internal/database"
	"edu-classroom/internal/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying (postgres only)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if *down > 0 {
		if cfg.DB.Driver == config.DriverOracle {
			l.Fatal("Rollback is not supported for the oracle driver")
		}
		if err := database.RollbackMigrations(db.DB, *down); err != nil {
			l.Fatal("Failed to roll back migrations", zap.Error(err))
		}
		l.Info("Migrations rolled back", zap.Int("steps", *down))
		return
	}

	if err := database.RunMigrations(context.Background(), db.DB, cfg.DB.Driver); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
	l.Info("Migrations applied", zap.String("driver", cfg.DB.Driver))
}
