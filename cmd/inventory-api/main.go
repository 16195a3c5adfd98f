package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/config"
	"github.com/mamadbah2/estoque/internal/repository/mongodb"
	"github.com/mamadbah2/estoque/internal/repository/sheets"
	"github.com/mamadbah2/estoque/internal/scheduler"
	"github.com/mamadbah2/estoque/internal/server/handlers"
	"github.com/mamadbah2/estoque/internal/server/router"
	inventorysvc "github.com/mamadbah2/estoque/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/estoque/internal/service/reporting"
	"github.com/mamadbah2/estoque/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New("estoque-inventory-api", cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	if err := cfg.ValidateInventoryAPI(); err != nil {
		baseLogger.Fatal("invalid configuration", zap.Error(err))
	}

	// Money leaves the API as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	store, closeStore, err := openStore(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStore()

	inventorySvc := inventorysvc.NewService(store, logger.Named(baseLogger, "svc.inventory"))
	reportingSvc := reportingsvc.NewService(inventorySvc, logger.Named(baseLogger, "svc.reporting"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	inventoryHandler := handlers.NewInventoryHandler(inventorySvc, logger.Named(baseLogger, "handlers.inventory"))
	engine := router.NewInventoryAPI(inventoryHandler, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.APIPort,
		Handler:      router.CORS(cfg.Server.AllowedOrigins)(engine),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("inventory api starting",
			zap.String("port", cfg.Server.APIPort),
			zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore builds the backing store selected by STORAGE_DRIVER. The returned
// func releases its resources.
func openStore(cfg *config.Config, baseLogger *zap.Logger) (inventorysvc.Store, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cfg.Storage.Driver {
	case config.StorageSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			return nil, nil, err
		}
		store := sheets.NewStockStore(repo, logger.Named(baseLogger, "store.sheets"))
		if err := store.EnsureLayout(ctx); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case config.StorageMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(context.Background())
			return nil, nil, err
		}
		closeFn := func() {
			if err := repo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}
		return repo, closeFn, nil
	}

	return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
