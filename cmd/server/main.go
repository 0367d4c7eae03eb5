package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpapi "collab-deck-backend/internal/api/http"
	"collab-deck-backend/internal/config"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository/postgres"
	"collab-deck-backend/internal/security"
	"collab-deck-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Collab Deck Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "app_url", cfg.App.URL)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "sendgrid", cfg.SendGrid.APIKey != "", "smtp_host", cfg.SMTP.Host, "smtp_port", cfg.SMTP.Port, "from", cfg.Email.From)

	// Initialize Database
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := postgres.Connect(ctx, cfg.GetDatabaseConnectionString())
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer postgres.Close()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Info("Database schema is up to date")
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTL())

	// Initialize Services
	emailSender := service.NewEmailSender(cfg)
	notifier := service.NewNotificationDispatcher(store.NotificationRepository)

	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository)
	projectSvc := service.NewProjectService(
		store.ProjectRepository,
		store.TaskRepository,
		store.ProjectPreferenceRepository,
		notifier,
	)
	taskSvc := service.NewTaskService(store.TaskRepository, store.ProjectRepository, notifier)
	inviteSvc := service.NewInviteService(
		store.InviteRepository,
		store.ProjectRepository,
		emailSender,
		notifier,
		cfg.App.URL,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP handlers
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authSvc, cfg.JWT.AccessTTL(), strings.HasPrefix(cfg.App.URL, "https://")),
		Project:      httpapi.NewProjectHandler(projectSvc),
		Task:         httpapi.NewTaskHandler(taskSvc),
		Invite:       httpapi.NewInviteHandler(inviteSvc, cfg.App.URL),
		Notification: httpapi.NewNotificationHandler(noteSvc),
		User:         httpapi.NewUserHandler(userSvc),
	}, httpapi.NewAuthMiddleware(tokenManager))

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}
