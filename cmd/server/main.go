package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/assetval-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/assetval-backend/internal/adapter/http"
	"github.com/simaogato/assetval-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/assetval-backend/internal/config"
	"github.com/simaogato/assetval-backend/internal/scheduler"
	"github.com/simaogato/assetval-backend/internal/usecase/depreciation"
	"github.com/simaogato/assetval-backend/internal/usecase/seeder"
	"github.com/simaogato/assetval-backend/internal/usecase/valuation"
	"github.com/simaogato/assetval-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	// 1. Setup Database
	// Give Postgres a moment to come up when started alongside it (docker compose)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.Database.DSN())
	if err != nil {
		baseLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			baseLogger.Error("failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.Migrate(context.Background()); err != nil {
		baseLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	// 2. Initialize Repositories (Postgres)
	assetRepo := postgres.NewAssetRepository(db)
	profileRepo := postgres.NewMarketProfileRepository(db)
	valuationRepo := postgres.NewValuationRepository(db)

	// 3. Initialize Services (Use Cases)
	engine := depreciation.NewEngine(cfg.Engine)
	valuationService := valuation.NewValuationService(assetRepo, profileRepo, valuationRepo, engine, baseLogger.Named("svc.valuation"))

	profileSeeder := seeder.NewProfileSeeder(assetRepo, profileRepo)
	seeded, err := profileSeeder.Seed(context.Background())
	if err != nil {
		baseLogger.Fatal("failed to seed market profiles", zap.Error(err))
	}
	baseLogger.Info("market profiles seeded", zap.Int("created", seeded))

	// 4. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(baseLogger.Named("grpc")),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
	)
	grpcadapter.RegisterValuationServiceServer(grpcServer, grpcadapter.NewServer(valuationService))

	lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		baseLogger.Fatal("failed to listen", zap.String("port", cfg.Server.GRPCPort), zap.Error(err))
	}

	go func() {
		baseLogger.Info("grpc server starting", zap.String("port", cfg.Server.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			baseLogger.Fatal("grpc server crashed", zap.Error(err))
		}
	}()

	// 5. Start HTTP Server
	handler := httpadapter.NewValuationHandler(valuationService, baseLogger.Named("handlers.valuation"))
	router := httpadapter.NewRouter(handler, cfg.Server.APIToken, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("http server starting", zap.String("port", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	// 6. Start nightly revaluation
	if cfg.Revaluation.Enabled {
		sched := scheduler.NewScheduler(cfg.Revaluation.CronSchedule, valuationService, baseLogger.Named("scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful http shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	baseLogger.Info("servers stopped")
}
