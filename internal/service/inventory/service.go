package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

var (
	// ErrInvalidMovement indicates the movement payload is incomplete or out of range.
	ErrInvalidMovement = errors.New("invalid stock movement")
	// ErrUnitValueRequired indicates a first entry for a product came without a unit value.
	ErrUnitValueRequired = errors.New("ValorUnitario é obrigatório para o primeiro registro de um produto")
	// ErrProductNotFound indicates the movement refers to a product not in stock.
	ErrProductNotFound = errors.New("produto não encontrado no estoque")
	// ErrInsufficientStock indicates a withdrawal larger than the quantity on hand.
	ErrInsufficientStock = errors.New("quantidade insuficiente em estoque")
)

// IsValidation reports whether err is a client-side mistake rather than a failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidMovement) ||
		errors.Is(err, ErrUnitValueRequired) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInsufficientStock)
}

// Store persists the current stock and the movement history.
type Store interface {
	ListStock(ctx context.Context) ([]models.StockRecord, error)
	UpsertStock(ctx context.Context, record models.StockRecord) error
	ListTransactions(ctx context.Context) ([]models.TransactionRecord, error)
	AppendTransaction(ctx context.Context, tx models.TransactionRecord) error
}

// Manager describes the inventory operations exposed over HTTP.
type Manager interface {
	AddEntry(ctx context.Context, movement models.StockMovement) (models.StockRecord, error)
	RemoveStock(ctx context.Context, movement models.StockMovement) (models.StockRecord, error)
	ListStock(ctx context.Context) ([]models.StockRecord, error)
	TransactionHistory(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionRecord, error)
}

// Service implements Manager on top of a Store.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	// mu serializes read-modify-write cycles against the store.
	mu sync.Mutex
}

// NewService wires a new inventory service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// AddEntry registers incoming units, creating the product on its first entry.
func (s *Service) AddEntry(ctx context.Context, movement models.StockMovement) (models.StockRecord, error) {
	if err := validateMovement(movement); err != nil {
		return models.StockRecord{}, err
	}
	if movement.UnitValue != nil && !movement.UnitValue.IsPositive() {
		return models.StockRecord{}, fmt.Errorf("%w: ValorUnitario deve ser maior que zero", ErrInvalidMovement)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stock, err := s.store.ListStock(ctx)
	if err != nil {
		return models.StockRecord{}, fmt.Errorf("load stock: %w", err)
	}

	occurredAt := s.movementTime(movement)
	record, found := findProduct(stock, movement)

	var unitValue decimal.Decimal
	switch {
	case movement.UnitValue != nil:
		unitValue = *movement.UnitValue
	case found:
		unitValue = record.UnitValue
	default:
		return models.StockRecord{}, ErrUnitValueRequired
	}

	if found {
		record.Quantity += movement.Quantity
	} else {
		if strings.TrimSpace(movement.ProductName) == "" {
			return models.StockRecord{}, fmt.Errorf("%w: NomeProduto é obrigatório para um novo produto", ErrInvalidMovement)
		}
		record = models.StockRecord{
			ProductID:   nextProductID(stock, movement.ProductID),
			ProductName: strings.TrimSpace(movement.ProductName),
			ProductType: strings.TrimSpace(movement.ProductType),
			Quantity:    movement.Quantity,
		}
	}
	record.UnitValue = unitValue
	record.LastUpdated = models.NewDate(occurredAt)
	record = record.WithTotal()

	if err := s.store.UpsertStock(ctx, record); err != nil {
		return models.StockRecord{}, fmt.Errorf("save stock entry: %w", err)
	}

	if err := s.recordTransaction(ctx, record, models.MovementEntry, movement.Quantity, unitValue, occurredAt); err != nil {
		return models.StockRecord{}, err
	}

	s.logger.Info("stock entry registered",
		zap.Int64("product_id", record.ProductID),
		zap.Int64("quantity", movement.Quantity),
		zap.Int64("on_hand", record.Quantity))

	return record, nil
}

// RemoveStock withdraws units of an existing product, valued at its current unit price.
func (s *Service) RemoveStock(ctx context.Context, movement models.StockMovement) (models.StockRecord, error) {
	if err := validateMovement(movement); err != nil {
		return models.StockRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stock, err := s.store.ListStock(ctx)
	if err != nil {
		return models.StockRecord{}, fmt.Errorf("load stock: %w", err)
	}

	record, found := findProduct(stock, movement)
	if !found {
		return models.StockRecord{}, fmt.Errorf("%w: %s", ErrProductNotFound, describeProduct(movement))
	}
	if record.Quantity < movement.Quantity {
		return models.StockRecord{}, fmt.Errorf("%w para %q. Disponível: %d", ErrInsufficientStock, record.ProductName, record.Quantity)
	}

	occurredAt := s.movementTime(movement)
	record.Quantity -= movement.Quantity
	record.LastUpdated = models.NewDate(occurredAt)
	record = record.WithTotal()

	if err := s.store.UpsertStock(ctx, record); err != nil {
		return models.StockRecord{}, fmt.Errorf("save stock withdrawal: %w", err)
	}

	if err := s.recordTransaction(ctx, record, models.MovementExit, movement.Quantity, record.UnitValue, occurredAt); err != nil {
		return models.StockRecord{}, err
	}

	s.logger.Info("stock withdrawal registered",
		zap.Int64("product_id", record.ProductID),
		zap.Int64("quantity", movement.Quantity),
		zap.Int64("on_hand", record.Quantity))

	return record, nil
}

// ListStock returns every stock line with its total value computed.
func (s *Service) ListStock(ctx context.Context) ([]models.StockRecord, error) {
	stock, err := s.store.ListStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stock: %w", err)
	}

	out := make([]models.StockRecord, 0, len(stock))
	for _, rec := range stock {
		out = append(out, rec.WithTotal())
	}
	return out, nil
}

// TransactionHistory returns the movements matching filter, oldest first as stored.
func (s *Service) TransactionHistory(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionRecord, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	out := make([]models.TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		if filter.Start != nil && tx.OccurredAt.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && tx.OccurredAt.After(*filter.End) {
			continue
		}
		if filter.ProductType != "" && !strings.EqualFold(tx.ProductType, filter.ProductType) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (s *Service) recordTransaction(ctx context.Context, record models.StockRecord, kind models.MovementType, quantity int64, unitValue decimal.Decimal, occurredAt time.Time) error {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	var lastID int64
	for _, tx := range txs {
		lastID = max(lastID, tx.TransactionID)
	}

	tx := models.TransactionRecord{
		TransactionID: lastID + 1,
		OccurredAt:    occurredAt,
		ProductID:     record.ProductID,
		ProductName:   record.ProductName,
		ProductType:   record.ProductType,
		Movement:      kind,
		Quantity:      quantity,
		UnitValue:     unitValue,
		TotalValue:    unitValue.Mul(decimal.NewFromInt(quantity)),
	}

	if err := s.store.AppendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

func (s *Service) movementTime(movement models.StockMovement) time.Time {
	if movement.MovementDate != nil && !movement.MovementDate.IsZero() {
		return *movement.MovementDate
	}
	return s.now()
}

func validateMovement(movement models.StockMovement) error {
	if movement.Quantity <= 0 {
		return fmt.Errorf("%w: Quantidade deve ser maior que zero", ErrInvalidMovement)
	}
	if movement.ProductID != nil && *movement.ProductID <= 0 {
		return fmt.Errorf("%w: ID_Produto deve ser positivo", ErrInvalidMovement)
	}
	if movement.ProductID == nil && strings.TrimSpace(movement.ProductName) == "" {
		return fmt.Errorf("%w: informe ID_Produto ou NomeProduto", ErrInvalidMovement)
	}
	return nil
}

// findProduct matches by ID when given, otherwise by name and type ignoring case.
func findProduct(stock []models.StockRecord, movement models.StockMovement) (models.StockRecord, bool) {
	name := strings.TrimSpace(movement.ProductName)
	kind := strings.TrimSpace(movement.ProductType)

	for _, rec := range stock {
		if movement.ProductID != nil {
			if rec.ProductID == *movement.ProductID {
				return rec, true
			}
			continue
		}
		if strings.EqualFold(rec.ProductName, name) && strings.EqualFold(rec.ProductType, kind) {
			return rec, true
		}
	}
	return models.StockRecord{}, false
}

func nextProductID(stock []models.StockRecord, requested *int64) int64 {
	if requested != nil {
		return *requested
	}

	var lastID int64
	for _, rec := range stock {
		lastID = max(lastID, rec.ProductID)
	}
	return lastID + 1
}

func describeProduct(movement models.StockMovement) string {
	if movement.ProductID != nil {
		return fmt.Sprintf("ID %d", *movement.ProductID)
	}
	return fmt.Sprintf("%q (%s)", movement.ProductName, movement.ProductType)
}
