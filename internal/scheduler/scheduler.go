package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/config"
	"github.com/mamadbah2/estoque/internal/domain/models"
)

// ValuationReporter produces the stock summary the scheduler logs.
type ValuationReporter interface {
	StockValuation(ctx context.Context) (models.StockValuation, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	reporter ValuationReporter
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, reporter ValuationReporter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: cfg.CronSchedule,
		reporter: reporter,
		logger:   logger,
	}, nil
}

// Start registers the valuation job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.logStockValuation); err != nil {
		return fmt.Errorf("schedule stock valuation: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) logStockValuation() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	valuation, err := s.reporter.StockValuation(ctx)
	if err != nil {
		s.logger.Error("failed to compute stock valuation", zap.Error(err))
		return
	}

	s.logger.Info("stock valuation",
		zap.Int("products", valuation.Products),
		zap.Int64("units", valuation.Units),
		zap.String("total_value", valuation.TotalValue.StringFixed(2)))
}
