package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/syncbridge/backend/internal/application/catalog"
	syncapp "github.com/syncbridge/backend/internal/application/sync"
	"github.com/syncbridge/backend/internal/infrastructure/cache"
	"github.com/syncbridge/backend/internal/infrastructure/config"
	"github.com/syncbridge/backend/internal/infrastructure/logger"
	"github.com/syncbridge/backend/internal/infrastructure/persistence"
	"github.com/syncbridge/backend/internal/infrastructure/remote"
	"github.com/syncbridge/backend/internal/infrastructure/scheduler"
	"github.com/syncbridge/backend/internal/interfaces/http/handler"
	"github.com/syncbridge/backend/internal/interfaces/http/middleware"
	"github.com/syncbridge/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting SyncBridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	customerService := catalogapp.NewCustomerService(customerRepo)
	productService := catalogapp.NewProductService(productRepo)
	orderService := catalogapp.NewOrderService(orderRepo, customerRepo, productRepo, txScope)

	// Remote catalog client
	remoteClient, err := remote.NewClient(&remote.Config{
		BaseURL: cfg.Remote.BaseURL,
		Timeout: cfg.Remote.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create remote catalog client", zap.Error(err))
	}

	// Sync lock: shared Redis lease across workers, process-local mutex
	// otherwise
	var syncLock syncapp.SyncLock
	if cfg.Redis.Enabled {
		redisLock, err := cache.NewRedisSyncLock(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Sync.LeaseTTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisLock.Close() }()
		syncLock = redisLock
		log.Info("Using Redis sync lock", zap.String("addr", cfg.Redis.Addr()))
	} else {
		syncLock = syncapp.NewMutexSyncLock()
	}

	// Reconciler
	reconciler, err := syncapp.NewReconciler(remoteClient, txScope, syncLock, log, syncapp.ReconcilerConfig{
		ChunkSize:           cfg.Sync.ChunkSize,
		MaxReportedFailures: cfg.Sync.MaxReportedFailures,
	})
	if err != nil {
		log.Fatal("Failed to create reconciler", zap.Error(err))
	}

	// Background scheduler
	var syncScheduler *scheduler.SyncScheduler
	if cfg.Sync.SchedulerEnabled {
		syncScheduler, err = scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
			Interval:    cfg.Sync.Interval,
			PassTimeout: cfg.Sync.PassTimeout,
		}, reconciler, log)
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
	}

	// HTTP engine and middleware
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Routes
	systemHandler := handler.NewSystemHandler(db)
	r := router.NewRouter(engine)
	r.Register(handler.NewCustomerHandler(customerService))
	r.Register(handler.NewProductHandler(productService))
	r.Register(handler.NewOrderHandler(orderService))
	r.Register(handler.NewSyncHandler(reconciler))
	r.Register(systemHandler)
	r.Setup()

	// Root-level health for load balancers
	engine.GET("/health", systemHandler.Health)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if syncScheduler != nil {
		if err := syncScheduler.Stop(ctx); err != nil {
			log.Error("Sync scheduler shutdown timed out", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
