package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/config"
	"github.com/mamadbah2/estoque/internal/server/handlers"
	"github.com/mamadbah2/estoque/internal/server/router"
	"github.com/mamadbah2/estoque/internal/server/views"
	"github.com/mamadbah2/estoque/pkg/clients/inventory"
	"github.com/mamadbah2/estoque/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New("estoque-frontend", cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	if err := cfg.ValidateFrontend(); err != nil {
		baseLogger.Fatal("invalid configuration", zap.Error(err))
	}

	client := inventory.NewClient(cfg.Inventory)
	renderer := views.Must(views.New())
	pages := handlers.NewStockPageHandler(client, logger.Named(baseLogger, "handlers.pages"))
	engine := router.NewFrontend(pages, renderer, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Inventory.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("frontend starting",
			zap.String("port", cfg.Server.Port),
			zap.String("inventory_api", cfg.Inventory.BaseURL))
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
