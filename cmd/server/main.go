package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/b2bprocure/backend/internal/application/catalog"
	identityapp "github.com/b2bprocure/backend/internal/application/identity"
	importapp "github.com/b2bprocure/backend/internal/application/import"
	tradeapp "github.com/b2bprocure/backend/internal/application/trade"
	"github.com/b2bprocure/backend/internal/infrastructure/auth"
	"github.com/b2bprocure/backend/internal/infrastructure/config"
	"github.com/b2bprocure/backend/internal/infrastructure/event"
	"github.com/b2bprocure/backend/internal/infrastructure/feed"
	"github.com/b2bprocure/backend/internal/infrastructure/logger"
	"github.com/b2bprocure/backend/internal/infrastructure/notification"
	"github.com/b2bprocure/backend/internal/infrastructure/persistence"
	"github.com/b2bprocure/backend/internal/infrastructure/telemetry"
	"github.com/b2bprocure/backend/internal/interfaces/http/handler"
	"github.com/b2bprocure/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting procurement backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracer, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.GormLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, cfg.Database.Driver, log); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Repositories
	shopRepo := persistence.NewGormShopRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	orderQueries := persistence.NewGormOrderQueryRepository(db.DB)

	// Events: OrderPlaced fans out to the new-order notifier after commit
	notifier, closeNotifier, err := notification.New(cfg.Notification, cfg.AMQP, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize notifier", zap.Error(err))
	}
	defer func() {
		if closeNotifier == nil {
			return
		}
		if err := closeNotifier(); err != nil {
			log.Error("Error closing notifier", zap.Error(err))
		}
	}()

	bus := event.NewInMemoryEventBus(log, event.WithAsync(cfg.Notification.Async))
	orderPlaced := tradeapp.NewOrderPlacedHandler(notifier, log)
	bus.Subscribe(orderPlaced, orderPlaced.EventTypes()...)

	// Services
	importService := importapp.NewFeedImportService(
		persistence.NewCatalogUnitOfWork(db.DB),
		persistence.NewGormFeedImportRepository(db.DB),
		feed.NewHTTPFetcher(cfg.Feed, log),
		feed.NewParser(feed.DefaultMaxErrors),
		bus,
		cfg.Feed.ImportTimeout,
		log,
	)
	shopService := catalogapp.NewShopService(shopRepo, bus, log)
	queryService := catalogapp.NewQueryService(
		persistence.NewGormCategoryRepository(db.DB),
		shopRepo,
		persistence.NewGormProductQueryRepository(db.DB),
	)
	tradeUoW := persistence.NewTradeUnitOfWork(db.DB)
	basketService := tradeapp.NewBasketService(tradeUoW, persistence.NewGormOrderRepository(db.DB), orderQueries, log)
	orderService := tradeapp.NewOrderService(tradeUoW, orderQueries, contactRepo, shopRepo, bus, log)
	contactService := identityapp.NewContactService(contactRepo)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	api := router.NewAPI(router.Options{
		Logger:         log,
		Auth:           auth.NewJWTService(cfg.JWT),
		HTTP:           cfg.HTTP,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: tracer.IsEnabled(),
		ImportsPerMin:  cfg.Feed.ImportsPerMin,
	}, router.Handlers{
		Partner: handler.NewPartnerHandler(importService, orderService, shopService),
		Basket:  handler.NewBasketHandler(basketService),
		Order:   handler.NewOrderHandler(orderService),
		Contact: handler.NewContactHandler(contactService),
		Catalog: handler.NewCatalogHandler(queryService),
		System:  handler.NewSystemHandler(cfg.App.Name, version, sqlDB),
	})
	defer api.Close()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        api.Engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	// drain in-flight notifications before the notifier closes
	if err := bus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
