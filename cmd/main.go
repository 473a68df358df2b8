package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"affiliate-tracking-service/internal/config"
	"affiliate-tracking-service/internal/controller"
	"affiliate-tracking-service/internal/db"
	httpserver "affiliate-tracking-service/internal/http"
	"affiliate-tracking-service/internal/logger"
	"affiliate-tracking-service/internal/repository"
	"affiliate-tracking-service/internal/routes"
	"affiliate-tracking-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLog := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		appLog.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	chConn, err := db.NewClickHouse(ctx, cfg)
	if err != nil {
		appLog.Fatal().Err(err).Msg("connect clickhouse")
	}
	defer chConn.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		appLog.Fatal().Err(err).Msg("migrate")
	}
	if err := db.RunAnalyticsMigrations(ctx, chConn); err != nil {
		appLog.Fatal().Err(err).Msg("migrate analytics")
	}

	clickRepo := repository.NewClickRepository(pool)
	conversionRepo := repository.NewConversionRepository(pool)
	offerRepo := repository.NewOfferRepository(pool)
	postbackRepo := repository.NewPostbackRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(chConn)

	analyticsWorker := service.NewBatchAnalyticsWorker(analyticsRepo, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery, appLog)
	defer analyticsWorker.Shutdown()

	transport := service.NewRestyTransport(cfg.PostbackDefaultTimeout)
	dispatcher := service.NewPostbackDispatcher(postbackRepo, conversionRepo, transport, cfg.PostbackQueueSize, cfg.PostbackDefaultTimeout, appLog)
	defer dispatcher.Shutdown()

	fraudService := service.NewFraudService(
		service.IPScorerFunc(service.ReputationHeuristic),
		cfg.FraudIPBlocklist,
		cfg.FraudRapidWindow,
		cfg.FraudRapidThreshold,
		appLog,
	)

	trackingService := service.NewTrackingService(clickRepo, conversionRepo, offerRepo, fraudService, dispatcher, analyticsWorker, appLog)
	conversionService := service.NewConversionService(conversionRepo, analyticsWorker, appLog)
	postbackConfigService := service.NewPostbackConfigService(postbackRepo)
	offerService := service.NewOfferService(offerRepo)
	metricsService := service.NewMetricsService(analyticsRepo)

	controllers := routes.Controllers{
		Tracking:    controller.NewTrackingController(trackingService),
		Postbacks:   controller.NewPostbackController(postbackConfigService, dispatcher),
		Conversions: controller.NewConversionController(conversionService),
		Offers:      controller.NewOfferController(offerService),
		Metrics:     controller.NewMetricsController(metricsService),
	}

	server := httpserver.NewServer(cfg, controllers, appLog)

	go func() {
		<-ctx.Done()
		appLog.Info().Msg("shutting down")
		if err := server.Shutdown(); err != nil {
			appLog.Error().Err(err).Msg("server shutdown")
		}
	}()

	appLog.Info().Str("addr", cfg.HTTPPort).Msg("starting server")
	if err := server.Listen(cfg.HTTPPort); err != nil {
		appLog.Fatal().Err(err).Msg("server stopped")
	}
}
