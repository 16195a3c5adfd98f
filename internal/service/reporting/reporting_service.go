package reporting

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// StockLister is the slice of the inventory service the reports need.
type StockLister interface {
	ListStock(ctx context.Context) ([]models.StockRecord, error)
}

// Service exposes lightweight analytics over the current stock.
type Service struct {
	stock  StockLister
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(stock StockLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{stock: stock, logger: logger}
}

// StockValuation sums product lines, units on hand and their value.
func (s *Service) StockValuation(ctx context.Context) (models.StockValuation, error) {
	records, err := s.stock.ListStock(ctx)
	if err != nil {
		return models.StockValuation{}, fmt.Errorf("load stock: %w", err)
	}

	valuation := models.StockValuation{TotalValue: decimal.Zero}
	for _, rec := range records {
		if rec.Quantity <= 0 {
			s.logger.Debug("skip empty stock line", zap.Int64("product_id", rec.ProductID))
			continue
		}
		valuation.Products++
		valuation.Units += rec.Quantity
		valuation.TotalValue = valuation.TotalValue.Add(rec.UnitValue.Mul(decimal.NewFromInt(rec.Quantity)))
	}

	return valuation, nil
}
