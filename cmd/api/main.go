package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assetapi/internal/config"
	"assetapi/internal/database"
	"assetapi/internal/database/migration"
	handlers "assetapi/internal/http/handler"
	"assetapi/internal/http/middleware"
	"assetapi/internal/logging"
	"assetapi/internal/model"
	"assetapi/internal/otel"
	"assetapi/internal/repository/mongodb"
	"assetapi/internal/service"
)

// @title Game Asset API
// @version 1.0
// @description Stores sprites, audio clips and player scores in a document database.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.Init(cfg.Log)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logging.WithComponent(logger, "tracing"))
	if err != nil {
		return err
	}

	// One pooled client shared by every repository for the process lifetime.
	client, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			logger.Warn("mongo_disconnect_failed", "error", err)
		}
	}()

	db := client.Database(cfg.Mongo.Database)
	if err := migration.EnsureCollections(ctx, db, model.Collections(), logging.WithComponent(logger, "migration")); err != nil {
		return err
	}

	opTimeout := time.Duration(cfg.Mongo.OpTimeoutSec) * time.Second
	spriteSvc := service.NewAssetService(model.Sprites, mongodb.NewAssetMongo(db.Collection(model.Sprites.Collection), opTimeout))
	audioSvc := service.NewAssetService(model.Audio, mongodb.NewAssetMongo(db.Collection(model.Audio.Collection), opTimeout))
	scoreSvc := service.NewScoreService(mongodb.NewScoreMongo(db.Collection(model.ScoresCollection), opTimeout))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(handlers.FiberConfig(cfg.BodyLimitBytes))

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(logging.WithComponent(logger, "http")))
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", handlers.Swagger(cfg.AppHost))

	handlers.RegisterRoutes(app, client, spriteSvc, audioSvc, scoreSvc)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", "addr", addr, "database", cfg.Mongo.Database)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_stopping")
	sctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	var errs []error
	if err := app.ShutdownWithContext(sctx); err != nil {
		errs = append(errs, err)
	}
	if err := shutdownTracing(sctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
