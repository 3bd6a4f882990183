package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"room-occupancy-backend/config"
	"room-occupancy-backend/internal/api"
	"room-occupancy-backend/internal/backup"
	"room-occupancy-backend/internal/dashboard"
	"room-occupancy-backend/internal/db"
	"room-occupancy-backend/internal/feed"
	"room-occupancy-backend/internal/logger"
	"room-occupancy-backend/internal/notification"
	"room-occupancy-backend/internal/store"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	zlog, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()
	zlog.Info("configuration loaded", zap.String("path", configPath), zap.String("unit", cfg.Unit.Name))

	gormDB, err := db.Init(&cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	zlog.Info("database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	occupations, closeStore, err := openStore(ctx, cfg, gormDB, zlog)
	if err != nil {
		zlog.Fatal("failed to open occupation store", zap.Error(err))
	}
	defer closeStore()

	svc := dashboard.NewService(occupations, cfg.Unit.Name, zlog)
	subs := store.NewSubscriptionStore(gormDB)

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, subs, webpushOptions, zlog)
		pool.Start(ctx)
		svc.SetAlertDispatcher(pool)
		zlog.Info("conflict alerts enabled", zap.Int("workers", cfg.WorkerPool.Size))
	} else {
		zlog.Warn("VAPID keys are not configured, conflict alerts are disabled")
	}

	feedSvc := feed.NewService(&cfg.Feed, svc, zlog)
	go feedSvc.Run(ctx)

	var backups *backup.Scheduler
	if cfg.Backup.Enabled {
		backups = backup.NewScheduler(&cfg.Backup, svc, zlog)
		if err := backups.Start(); err != nil {
			zlog.Fatal("failed to start backup scheduler", zap.Error(err))
		}
	}

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(svc, subs, webpushOptions, zlog)
	router := api.NewRouter(handler, &cfg.Server, zlog)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	zlog.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if backups != nil {
		backups.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP server Shutdown", zap.Error(err))
	}

	zlog.Info("server gracefully stopped")
}

// openStore selects the occupation backend named by storage.backend.
func openStore(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, zlog *zap.Logger) (store.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "database":
		return store.NewGormStore(gormDB, cfg.Unit.Name), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		zlog.Info("using redis occupation store", zap.String("addr", cfg.Redis.Addr), zap.String("key", cfg.Storage.Key))
		kv := store.NewKVStore(store.NewRedisKV(client), cfg.Storage.Key, cfg.Unit.Name, zlog)
		return kv, func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
