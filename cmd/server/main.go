package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/techmart/internal/adapter/handler"
	"github.com/rl1809/techmart/internal/adapter/storage"
	"github.com/rl1809/techmart/internal/config"
	"github.com/rl1809/techmart/internal/core/service"
	"github.com/rl1809/techmart/internal/observability"
	"github.com/rl1809/techmart/internal/port"
)

func main() {
	cfg, dotenv, err := config.Load()
	if err != nil {
		// The logger level comes from config, so fall back to a default logger here.
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	if !dotenv {
		logger.Info(".env file not found, using process environment")
	}
	logger.Info("configuration loaded", zap.String("env", cfg.AppEnv), zap.String("cart_store", cfg.CartStore))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fileStore := storage.NewFileAdapter(cfg.CartFile)

	// Cart store
	var cache port.CacheRepository = fileStore
	var rdb *redis.Client
	if cfg.CartStore == config.CartStoreRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		cache = storage.NewRedisAdapter(rdb)
	}

	// Catalog and submissions
	var catalog port.CatalogRepository = storage.NewStaticCatalog()
	var submissions port.SubmissionRepository = fileStore
	var db *sql.DB
	if cfg.MySQLDSN != "" {
		db, err = sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Fatal("failed to connect mysql", zap.Error(err))
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping mysql", zap.Error(err))
		}
		logger.Info("connected to mysql")

		mysqlAdapter := storage.NewMySQLAdapter(db)
		catalog = mysqlAdapter
		submissions = mysqlAdapter
	} else {
		logger.Info("MYSQL_DSN not set, serving the built-in catalog")
	}

	store := service.NewStorefront(service.Dependencies{
		Cache:   cache,
		Catalog: catalog,
		Logger:  logger,
		Timing: service.Timing{
			SearchDebounce:      cfg.SearchDebounce,
			SuggestionHideDelay: cfg.SuggestionHideDelay,
			NotificationDisplay: cfg.NotificationDisplay,
			NotificationExit:    cfg.NotificationExit,
			NewsletterDelay:     cfg.NewsletterDelay,
			ContactDelay:        cfg.ContactDelay,
		},
		QueueSize: cfg.QueueSize,
	})

	workers := service.StartSubmissionWorkers(cfg.WorkerCount, store.Forms.GetSubmissionQueue(), submissions, logger.Named("worker"))
	logger.Info("started workers", zap.Int("count", cfg.WorkerCount))

	// gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterStorefrontServer(grpcServer, handler.NewGRPCHandler(store))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}

	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	// HTTP server
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewHTTPHandler(store, logger.Named("http")).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	// Tear down sessions, close the submission queue and wait for workers
	store.Close()
	workers.Wait()
	logger.Info("workers stopped")

	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	logger.Info("connections closed")
}
