package main

import (
	"context"
	"flag"
	"log"

	"go-student-center/internal/config"
	"go-student-center/internal/repository"
	"go-student-center/internal/service"
	"go-student-center/pkg/database"
	"go-student-center/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	username := flag.String("username", "admin", "member username")
	password := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

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

	members := service.NewMemberService(repository.NewMemberRepo(db), repository.NewRoleRepo(db), zapLogger)
	if err := members.ResetPassword(context.Background(), *username, *password, "reset-password"); err != nil {
		zapLogger.Fatal("Failed to reset password", zap.String("username", *username), zap.Error(err))
	}

	zapLogger.Info("Password reset", zap.String("username", *username))
}
