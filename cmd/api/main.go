package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/rentpos-backend/api/controllers"
	"github.com/angelmondragon/rentpos-backend/api/routes"
	"github.com/angelmondragon/rentpos-backend/internal/adjustments"
	"github.com/angelmondragon/rentpos-backend/internal/backend"
	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/checkout"
	"github.com/angelmondragon/rentpos-backend/internal/ledger"
	"github.com/angelmondragon/rentpos-backend/internal/notify"
	"github.com/angelmondragon/rentpos-backend/internal/records"
	"github.com/angelmondragon/rentpos-backend/pkg/config"
	"github.com/angelmondragon/rentpos-backend/pkg/db"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/instance"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
	"github.com/angelmondragon/rentpos-backend/pkg/metrics"
	"github.com/angelmondragon/rentpos-backend/pkg/migrate"
	"github.com/angelmondragon/rentpos-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

// persistence is the record store checkouts and edit flows talk to.
type persistence interface {
	checkout.Submitter
	records.Repository
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// payloads carry amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	closers = append(closers, redisClient.Close)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	var publisher notify.Notifier
	if cfg.Notifications.PublishToRedis {
		publisher = notify.NewRedisPublisher(redisClient, logg)
	}
	notifier := notify.Multi(notify.ContextSink, notify.NewLogNotifier(logg), publisher)

	ready := map[string]controllers.Pinger{"redis": redisClient}

	var (
		store     persistence
		catalog   cart.Catalog
		directory cart.Directory
	)
	if cfg.FeatureFlags.IsRemote() {
		client, err := backend.NewClient(cfg.Backend,
			backend.WithLogger(logg),
			backend.WithStateObserver(checkoutMetrics),
		)
		if err != nil {
			return err
		}
		store, catalog, directory = client, client, client
		ready["backend"] = client
	} else {
		dbClient, err := openLedgerDB(ctx, cfg, logg)
		if err != nil {
			return err
		}
		closers = append(closers, dbClient.Close)

		repo := ledger.NewRepository(dbClient.DB())
		invoices, err := ledger.NewInvoices(redisClient, repo, logg)
		if err != nil {
			return err
		}
		svc, err := ledger.NewService(dbClient, repo, invoices, logg)
		if err != nil {
			return err
		}
		store = svc
		ready["db"] = dbClient
	}

	guard := adjustments.NewGuard(notifier, checkoutMetrics, cfg.Notifications.WarningDismiss)
	draftStore, err := cart.NewRedisStore(redisClient, cfg.Checkout.DraftTTL)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(draftStore, guard, catalog, cart.Defaults{
		SaleStatus:   cfg.Checkout.DefaultSaleStatus,
		RentalStatus: cfg.Checkout.DefaultRentalStatus,
		SaleVariant:  enums.TaxVariant(cfg.Checkout.DefaultSaleVariant),
	})
	if err != nil {
		return err
	}

	recordsService, err := records.NewService(store, cartService, notifier)
	if err != nil {
		return err
	}

	orchestrator, err := checkout.NewOrchestrator(checkout.Options{
		Confirmer:            checkout.RequestConfirmer,
		Submitter:            store,
		Notifier:             notifier,
		Locker:               redisClient,
		Metrics:              checkoutMetrics,
		Logger:               logg,
		LockTTL:              cfg.Checkout.LockTTL,
		SubmitTimeout:        cfg.Checkout.SubmitTimeout,
		DefaultSaleStatus:    cfg.Checkout.DefaultSaleStatus,
		DefaultRentalStatus:  cfg.Checkout.DefaultRentalStatus,
		SaleSuccessDismiss:   cfg.Notifications.SaleSuccessDismiss,
		RentalSuccessDismiss: cfg.Notifications.RentalSuccessDismiss,
		WarningDismiss:       cfg.Notifications.WarningDismiss,
	})
	if err != nil {
		return err
	}
	checkoutService, err := checkout.NewService(cartService, orchestrator, logg)
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"persistence": cfg.FeatureFlags.PersistenceMode,
		"instance":    instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Services{
			Cart:      cartService,
			Checkout:  checkoutService,
			Records:   recordsService,
			Directory: directory,
		}, routes.Infra{
			Idempotency: redisClient,
			Gatherer:    registry,
			Ready:       ready,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openLedgerDB(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*db.Client, error) {
	dbCfg := cfg.DB
	if cfg.FeatureFlags.UseSQLite {
		dbCfg.Driver = db.DriverSQLite
	}
	client, err := db.New(ctx, dbCfg, logg)
	if err != nil {
		return nil, err
	}
	if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
		return nil, multierr.Append(err, client.Close())
	}
	return client, nil
}
