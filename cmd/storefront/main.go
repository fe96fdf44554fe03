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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/grocery-cart/internal/backend"
	"github.com/nikolayk812/grocery-cart/internal/cart"
	"github.com/nikolayk812/grocery-cart/internal/checkout"
	"github.com/nikolayk812/grocery-cart/internal/config"
	"github.com/nikolayk812/grocery-cart/internal/httpx"
	"github.com/nikolayk812/grocery-cart/internal/identity"
	"github.com/nikolayk812/grocery-cart/internal/kvstore"
	"github.com/nikolayk812/grocery-cart/internal/kvstore/mongostore"
	"github.com/nikolayk812/grocery-cart/internal/kvstore/redisstore"
	"github.com/nikolayk812/grocery-cart/internal/kvstore/sqlitestore"
	"github.com/nikolayk812/grocery-cart/internal/logging"
	"github.com/nikolayk812/grocery-cart/internal/port"
	"github.com/nikolayk812/grocery-cart/internal/repository"
	"github.com/nikolayk812/grocery-cart/internal/session"
	"github.com/nikolayk812/grocery-cart/internal/storage"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logging.New: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, err := session.NewManager(storage.NewAdapter(store, logger), cfg.MaxSessions, logger,
		cart.WithCurrency(cfg.Currency))
	if err != nil {
		return fmt.Errorf("session.NewManager: %w", err)
	}
	defer sessions.Close()

	tokens, err := identity.NewTokenParser(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("identity.NewTokenParser: %w", err)
	}

	api, err := backend.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	if err != nil {
		return fmt.Errorf("backend.NewClient: %w", err)
	}

	handler := httpx.NewHandler(sessions, tokens, checkout.NewService(api, logger),
		httpx.WithLogger(logger), httpx.WithSecureCookie(cfg.SecureCookie))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("store", string(cfg.StoreBackend)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	return nil
}

func openStore(ctx context.Context, cfg config.Config) (port.CartStore, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("pgxpool.New: %w", err)
		}
		store, err := repository.NewCart(pool)
		if err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("repository.NewCart: %w", err)
		}
		return store, pool.Close, nil

	case config.BackendRedis:
		records, err := redisstore.Dial(ctx, cfg.RedisAddr, redisstore.WithTTL(cfg.RedisTTL))
		if err != nil {
			return nil, noop, fmt.Errorf("redisstore.Dial: %w", err)
		}
		return wrapRecords(records, func() { _ = records.Close() })

	case config.BackendSQLite:
		records, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("sqlitestore.Open: %w", err)
		}
		return wrapRecords(records, func() { _ = records.Close() })

	case config.BackendMongo:
		records, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, noop, fmt.Errorf("mongostore.Connect: %w", err)
		}
		return wrapRecords(records, func() { _ = records.Close(context.Background()) })

	default:
		return wrapRecords(kvstore.NewMemory(), noop)
	}
}

func wrapRecords(records kvstore.RecordStore, closeFn func()) (port.CartStore, func(), error) {
	store, err := kvstore.New(records)
	if err != nil {
		closeFn()
		return nil, func() {}, fmt.Errorf("kvstore.New: %w", err)
	}
	return store, closeFn, nil
}
