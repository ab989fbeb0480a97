package main

import (
	"fmt"
	"os"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/auth"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/config"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/db"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/files"
	httphandler "github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/http"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/http/middleware"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/logger"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/repository"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	appealRepo := repository.NewAppealRepository(database)
	auditRepo := repository.NewAuditLogRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)
	userRepo := repository.NewUserRepository(database)

	auditRecorder := service.NewAuditRecorder(auditRepo, log)
	notifier := service.NewNotifier(notificationRepo, userRepo, log)
	appealService := service.NewAppealService(appealRepo, auditRecorder, notifier)
	notificationService := service.NewNotificationService(notificationRepo)

	evidenceStore, err := files.NewEvidenceStore(cfg.Files.UploadDir, cfg.Files.MaxEvidenceSize)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init evidence store")
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(appealService, notificationService, evidenceStore, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting appeal service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
