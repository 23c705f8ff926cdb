package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/ogurasousui/seller-registry/internal/adapters/repository/postgres"
	"github.com/ogurasousui/seller-registry/internal/core/department"
	"github.com/ogurasousui/seller-registry/internal/core/seller"
	"github.com/ogurasousui/seller-registry/internal/platform/config"
	pg "github.com/ogurasousui/seller-registry/internal/platform/db/postgres"
	"github.com/ogurasousui/seller-registry/internal/platform/logger"
	"github.com/ogurasousui/seller-registry/internal/platform/metrics"
	"github.com/ogurasousui/seller-registry/internal/platform/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load config")
	}

	log := logger.New(cfg.Log)

	var dbOpts []pg.Option
	if cfg.Log.SQLTrace {
		dbOpts = append(dbOpts, pg.WithTracer(logger.NewQueryTracer(log)))
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database, dbOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database pool")
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)
	departmentRepo := postgres.NewDepartmentRepository(dbPool)
	sellerRepo := postgres.NewSellerRepository(dbPool)

	departmentSvc := department.NewService(departmentRepo, txManager)
	sellerSvc := seller.NewService(sellerRepo, departmentRepo, nil, txManager)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rpcMetrics := metrics.New(reg)

	grpcServer := server.New(cfg.Server.ListenAddr, log, server.Services{
		Sellers:     sellerSvc,
		Departments: departmentSvc,
	}, []grpc.UnaryServerInterceptor{rpcMetrics.UnaryServerInterceptor()})

	if cfg.Metrics.ListenAddr != "" {
		metricsSrv := &http.Server{
			Addr:              cfg.Metrics.ListenAddr,
			Handler:           rpcMetrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Metrics.ListenAddr).Msg("metrics endpoint listening")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics endpoint stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	if err := grpcServer.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
}
