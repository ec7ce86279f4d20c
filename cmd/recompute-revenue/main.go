package main

import (
	"context"
	"log"

	"go-student-center/internal/config"
	"go-student-center/internal/repository"
	"go-student-center/internal/service"
	"go-student-center/pkg/database"
	"go-student-center/pkg/logger"

	"go.uber.org/zap"
)

// recompute-revenue rebuilds every event's cached revenue from its sales
// and reports the events whose stored value had drifted.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	events := service.NewEventService(
		db,
		repository.NewEventRepo(db),
		repository.NewPeriodRepo(db),
		repository.NewSaleRepo(db),
		repository.NewTreasuryRepo(db),
		nil,
		zapLogger,
	)

	report, err := events.RecomputeAll(context.Background())
	if err != nil {
		zapLogger.Fatal("Recompute failed", zap.Error(err))
	}

	for _, d := range report.Drifted {
		zapLogger.Warn("Revenue corrected",
			zap.String("event_id", d.EventID.String()),
			zap.String("name", d.Name),
			zap.String("previous", d.Previous.String()),
			zap.String("current", d.Current.String()),
		)
	}
	zapLogger.Info("Recompute finished",
		zap.Int("checked", report.Checked),
		zap.Int("drifted", len(report.Drifted)),
	)
}
