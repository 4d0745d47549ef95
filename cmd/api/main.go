package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Micolomike/Xchange/internal/auditlog"
	"github.com/Micolomike/Xchange/internal/config"
	"github.com/Micolomike/Xchange/internal/database"
	_ "github.com/Micolomike/Xchange/internal/docs" // Import swagger docs
	"github.com/Micolomike/Xchange/internal/logger"
	"github.com/Micolomike/Xchange/internal/middleware"
	"github.com/Micolomike/Xchange/internal/router"
	"github.com/Micolomike/Xchange/internal/services"
	"github.com/Micolomike/Xchange/internal/validator"
)

// @title           Xchange API
// @version         1.0
// @description     Ticket tracking service with a deletion audit log, user accounts, cookie sessions and a table-level admin gateway.

// @host      localhost:4000
// @BasePath  /api

// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key
// @description Required on /admin routes when ADMIN_API_KEY is set.

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name xchange_session

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = 15 * time.Minute
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()

	deletionLog, err := openDeletionLog(appConfig, dbManager)
	if err != nil {
		return err
	}

	validator.Register()

	sessionService := services.NewSessionService(db, appConfig.SessionTTL)
	engine := router.New(router.Options{
		CORSOrigin:  appConfig.CORSOrigin,
		AdminAPIKey: appConfig.AdminAPIKey,
		Session: middleware.SessionOptions{
			Secret:     appConfig.SessionSecret,
			CookieName: appConfig.SessionCookieName,
			TTL:        appConfig.SessionTTL,
			Secure:     appConfig.CookieSecure,
		},
	}, router.Services{
		Tickets:  services.NewTicketService(db, deletionLog),
		Users:    services.NewUserService(db, appConfig.BcryptCost),
		Sessions: sessionService,
		Audit:    services.NewAuditService(deletionLog),
		Admin:    services.NewAdminService(db),
	})

	if appConfig.AdminAPIKey == "" {
		log.Warn("ADMIN_API_KEY is not set; admin routes are open")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeSessions(ctx, sessionService)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Xchange server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

// openDeletionLog selects the deletion audit log backend.
func openDeletionLog(cfg *config.Config, dbManager *database.Manager) (auditlog.Log, error) {
	if cfg.AuditLogBackend == config.AuditLogBackendDatabase {
		logger.Get().Infow("Recording deleted tickets in the database")
		return auditlog.NewDBLog(dbManager.DB()), nil
	}

	fileLog, err := auditlog.NewFileLog(cfg.DeletedLogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open deleted ticket log: %w", err)
	}
	logger.Get().Infow("Recording deleted tickets in file", "path", fileLog.Path())
	return fileLog, nil
}

// purgeSessions removes expired sessions until ctx is cancelled.
func purgeSessions(ctx context.Context, sessions services.SessionServicer) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpired()
			if err != nil {
				logger.Get().Warnw("failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Get().Infow("purged expired sessions", "count", n)
			}
		}
	}
}
