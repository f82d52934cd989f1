package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aquawatch/aquawatch/internal/api/handlers"
	"github.com/aquawatch/aquawatch/internal/api/router"
	"github.com/aquawatch/aquawatch/internal/cache"
	"github.com/aquawatch/aquawatch/internal/classifier"
	"github.com/aquawatch/aquawatch/internal/config"
	"github.com/aquawatch/aquawatch/internal/notify"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/pkg/validator"
	"github.com/aquawatch/aquawatch/internal/repository/postgres"
	"github.com/aquawatch/aquawatch/internal/services"
	"github.com/aquawatch/aquawatch/internal/ws"
	"github.com/aquawatch/aquawatch/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	log.WithFields(map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	}).Info("Starting aquawatch API server")

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.ErrorWithErr(err, "Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.FS()); err != nil {
		log.ErrorWithErr(err, "Failed to run migrations")
		os.Exit(1)
	}

	latest := cache.New(cfg.Redis, log)
	defer latest.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	cls := classifier.NewClient(cfg.Classifier, log)
	dispatcher := notify.NewDispatcher(
		notify.NewResendSender(cfg.Alerting, log),
		notify.NewTwilioSender(cfg.Alerting, log),
		log,
	)

	readingRepo := postgres.NewReadingRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	alertService := services.NewAlertService(
		alertRepo,
		dispatcher,
		hub,
		cfg.Alerting.DefaultRecipients,
		cfg.Alerting.DispatchTimeout,
		log,
	)
	readingService := services.NewReadingService(readingRepo, cls, alertService, latest, log)

	val := validator.New()
	h := &router.Handlers{
		Health:    handlers.NewHealthHandler(db, log),
		Reading:   handlers.NewReadingHandler(readingService, log, val),
		Alert:     handlers.NewAlertHandler(alertService, log, val),
		WebSocket: handlers.NewWebSocketHandler(hub),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.With("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.ErrorWithErr(err, "HTTP server failed")
		os.Exit(1)
	case sig := <-quit:
		log.With("signal", sig.String()).Info("Shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "HTTP server shutdown failed")
	}

	// Let in-flight notification dispatch and broadcasts finish.
	if err := alertService.Drain(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Alert follow-ups did not drain before deadline")
	}

	// Stop the websocket hub last so drained broadcasts still deliver.
	cancel()

	log.Info("Server stopped")
}
