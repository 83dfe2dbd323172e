package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickcash/loan-origination/internal/application/pipeline"
	"github.com/quickcash/loan-origination/internal/application/usecase"
	"github.com/quickcash/loan-origination/internal/domain/port"
	"github.com/quickcash/loan-origination/internal/domain/service"
	"github.com/quickcash/loan-origination/internal/infrastructure/adapter"
	"github.com/quickcash/loan-origination/internal/infrastructure/cache"
	"github.com/quickcash/loan-origination/internal/infrastructure/config"
	"github.com/quickcash/loan-origination/internal/infrastructure/letter"
	"github.com/quickcash/loan-origination/internal/infrastructure/messaging"
	"github.com/quickcash/loan-origination/internal/infrastructure/persistence/memory"
	pgRepo "github.com/quickcash/loan-origination/internal/infrastructure/persistence/postgres"
	"github.com/quickcash/loan-origination/internal/infrastructure/review"
	"github.com/quickcash/loan-origination/internal/kafka"
	"github.com/quickcash/loan-origination/internal/observability"
	"github.com/quickcash/loan-origination/internal/postgres"
	grpcPresentation "github.com/quickcash/loan-origination/internal/presentation/grpc"
	"github.com/quickcash/loan-origination/internal/presentation/rest"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	cfg.Validate()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   getEnv("LOG_LEVEL", "info"),
		Format:  getEnv("LOG_FORMAT", "json"),
		Service: cfg.ServiceName,
	})

	logger.Info("starting loan-origination",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"demo_mode", cfg.DemoMode,
	)

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	metrics, err := observability.NewOriginationMetrics(meterProvider.Meter(cfg.ServiceName))
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	healthHandler := rest.NewHealthHandler(logger)

	// Wire the driven side: repositories, publisher, bureau, CRM.
	var (
		customers port.CustomerRepository
		apps      port.LoanApplicationRepository
		publisher port.EventPublisher
		bureau    port.CreditBureauClient
		crm       port.CRMClient
	)

	if cfg.DemoMode {
		seedRepo := memory.NewCustomerRepository()
		seedRepo.Seed(time.Now().UTC())
		customers = seedRepo
		apps = memory.NewLoanApplicationRepository()
		publisher = messaging.NewLogEventPublisher(logger)
		bureau = adapter.NewStubCreditBureauClient(seedRepo.ScoreBook())
		crm = adapter.NewStubCRMClient()
		logger.Info("running in demo mode with seeded customers")
	} else {
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		defer dbCancel()

		pgCfg := postgres.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			SSLMode:  cfg.DB.SSLMode,
			AppName:  cfg.ServiceName,
		}
		pool, err := postgres.NewPool(dbCtx, pgCfg)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("connected to database")
		healthHandler.AddCheck("postgres", func(ctx context.Context) error {
			return postgres.HealthCheck(ctx, pool)
		})

		if migErr := postgres.RunMigrations(pgCfg.DSN(), "file://migrations"); migErr != nil {
			logger.Warn("migration warning", "error", migErr)
		}

		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		healthHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})

		customers = cache.NewCachingCustomerRepository(
			pgRepo.NewCustomerRepo(pool),
			redisClient,
			time.Duration(cfg.Redis.CustomerTTLSecs)*time.Second,
			logger,
		)
		apps = pgRepo.NewLoanApplicationRepo(pool)

		producer := kafka.NewProducer(kafka.Config{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.ServiceName,
		})
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, logger)

		bureau = adapter.NewCreditBureauAdapter(bureauConfig(cfg), nil)
		if cfg.CRM.BaseURL != "" {
			crm = adapter.NewHTTPCRMClient(adapter.CRMConfig{
				BaseURL:        cfg.CRM.BaseURL,
				APIKey:         cfg.CRM.APIKey,
				TimeoutSeconds: 5,
			})
		} else {
			crm = adapter.NewStubCRMClient()
		}
	}

	reviews, err := review.NewFileStore(cfg.ReviewDir)
	if err != nil {
		logger.Error("failed to open review store", "error", err)
		os.Exit(1)
	}

	// Domain services.
	afford := service.NewAffordabilityCalculator(service.DefaultRatePolicy())
	engine := service.NewUnderwritingEngine(
		afford,
		service.NewIncomeResolver(adapter.NewHeuristicIncomeExtractor(adapter.DefaultExtractorConfig()), logger),
		service.NewAnomalyDetector(service.DefaultAnomalyConfig()),
		bureau,
		service.DefaultEngineConfig(),
		logger,
	)

	// Use cases and the conversational pipeline.
	evaluateUC := usecase.NewEvaluateApplicationUseCase(customers, apps, publisher, reviews, engine, logger)
	getAppUC := usecase.NewGetApplicationUseCase(apps)
	letterUC := usecase.NewIssueSanctionLetterUseCase(apps, customers, letter.NewRenderer(cfg.LenderName), publisher, logger)

	orchestrator := pipeline.NewOrchestrator(
		pipeline.NewSessionStore(),
		pipeline.NewSalesStage(customers, afford),
		pipeline.NewVerificationStage(customers, crm, logger),
		evaluateUC,
		letterUC,
		logger,
	)

	// gRPC server.
	grpcHandler := grpcPresentation.NewOriginationHandler(evaluateUC, getAppUC, letterUC)
	grpcServer := grpcPresentation.NewServer(grpcHandler, logger)

	// HTTP server: API, health probes, metrics.
	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)
	restHandler := rest.NewOriginationHandler(orchestrator, evaluateUC, getAppUC, letterUC, reviews, metrics, logger)
	restHandler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("loan-origination stopped")
}

func bureauConfig(cfg config.Config) adapter.CreditBureauConfig {
	bc := adapter.DefaultCreditBureauConfig()
	if cfg.Bureau.BaseURL != "" {
		bc.BaseURL = cfg.Bureau.BaseURL
	}
	if cfg.Bureau.APIKey != "" {
		bc.APIKey = cfg.Bureau.APIKey
	}
	return bc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
