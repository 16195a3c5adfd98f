package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

const (
	stockSheet        = "EstoqueAtual"
	transactionsSheet = "HistoricoTransacoes"

	stockHeaderRange       = stockSheet + "!A1:F1"
	stockDataRange         = stockSheet + "!A2:F"
	stockAppendRange       = stockSheet + "!A:F"
	transactionHeaderRange = transactionsSheet + "!A1:I1"
	transactionDataRange   = transactionsSheet + "!A2:I"
	transactionAppendRange = transactionsSheet + "!A:I"

	// first data row; row 1 holds the headers
	firstDataRow = 2
)

var (
	stockColumns       = []interface{}{"ID_Produto", "NomeProduto", "TipoProduto", "ValorUnitario", "Quantidade", "DataUltimaAtualizacao"}
	transactionColumns = []interface{}{"ID_Transacao", "DataHora", "ID_Produto", "NomeProduto", "TipoProduto", "TipoMovimentacao", "Quantidade", "ValorUnitarioMovimentacao", "ValorTotalMovimentacao"}
)

// StockStore keeps the stock and the transaction history in two spreadsheet tabs.
type StockStore struct {
	repo   Repository
	logger *zap.Logger
}

// NewStockStore wraps a range repository with the inventory sheet layout.
func NewStockStore(repo Repository, logger *zap.Logger) *StockStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockStore{repo: repo, logger: logger}
}

// EnsureLayout writes the header rows of both tabs when they are missing.
// The tabs themselves must already exist in the spreadsheet.
func (s *StockStore) EnsureLayout(ctx context.Context) error {
	headers := []struct {
		sheetRange string
		columns    []interface{}
	}{
		{stockHeaderRange, stockColumns},
		{transactionHeaderRange, transactionColumns},
	}

	for _, h := range headers {
		rows, err := s.repo.ReadRange(ctx, h.sheetRange)
		if err != nil {
			return fmt.Errorf("read header %s: %w", h.sheetRange, err)
		}
		if len(rows) > 0 && len(rows[0]) > 0 {
			continue
		}
		if err := s.repo.UpdateRow(ctx, h.sheetRange, h.columns); err != nil {
			return fmt.Errorf("write header %s: %w", h.sheetRange, err)
		}
		s.logger.Info("sheet header initialized", zap.String("range", h.sheetRange))
	}
	return nil
}

// ListStock reads every stock row in sheet order.
func (s *StockStore) ListStock(ctx context.Context) ([]models.StockRecord, error) {
	rows, err := s.repo.ReadRange(ctx, stockDataRange)
	if err != nil {
		return nil, err
	}

	records := make([]models.StockRecord, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		rec, err := parseStockRow(row)
		if err != nil {
			s.logger.Warn("skip invalid stock row", zap.Int("row", i+firstDataRow), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// UpsertStock overwrites the row holding record.ProductID, or appends a new one.
func (s *StockStore) UpsertStock(ctx context.Context, record models.StockRecord) error {
	rows, err := s.repo.ReadRange(ctx, stockDataRange)
	if err != nil {
		return err
	}

	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		rowID, err := cellInt(row[0])
		if err != nil || rowID != record.ProductID {
			continue
		}
		n := i + firstDataRow
		return s.repo.UpdateRow(ctx, fmt.Sprintf("%s!A%d:F%d", stockSheet, n, n), stockRow(record))
	}

	return s.repo.AppendRow(ctx, stockAppendRange, stockRow(record))
}

// ListTransactions reads the whole movement history in sheet order.
func (s *StockStore) ListTransactions(ctx context.Context) ([]models.TransactionRecord, error) {
	rows, err := s.repo.ReadRange(ctx, transactionDataRange)
	if err != nil {
		return nil, err
	}

	txs := make([]models.TransactionRecord, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		tx, err := parseTransactionRow(row)
		if err != nil {
			s.logger.Warn("skip invalid transaction row", zap.Int("row", i+firstDataRow), zap.Error(err))
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// AppendTransaction adds one line to the movement history.
func (s *StockStore) AppendTransaction(ctx context.Context, tx models.TransactionRecord) error {
	return s.repo.AppendRow(ctx, transactionAppendRange, transactionRow(tx))
}

func stockRow(rec models.StockRecord) []interface{} {
	return []interface{}{
		rec.ProductID,
		rec.ProductName,
		rec.ProductType,
		rec.UnitValue.String(),
		rec.Quantity,
		rec.LastUpdated.String(),
	}
}

func transactionRow(tx models.TransactionRecord) []interface{} {
	return []interface{}{
		tx.TransactionID,
		tx.OccurredAt.Format(time.RFC3339),
		tx.ProductID,
		tx.ProductName,
		tx.ProductType,
		string(tx.Movement),
		tx.Quantity,
		tx.UnitValue.String(),
		tx.TotalValue.String(),
	}
}

func parseStockRow(row []interface{}) (models.StockRecord, error) {
	cells := padRow(row, len(stockColumns))

	var (
		rec models.StockRecord
		err error
	)
	if rec.ProductID, err = cellInt(cells[0]); err != nil {
		return rec, fmt.Errorf("ID_Produto: %w", err)
	}
	rec.ProductName = cellString(cells[1])
	rec.ProductType = cellString(cells[2])
	if rec.UnitValue, err = cellDecimal(cells[3]); err != nil {
		return rec, fmt.Errorf("ValorUnitario: %w", err)
	}
	if rec.Quantity, err = cellInt(cells[4]); err != nil {
		return rec, fmt.Errorf("Quantidade: %w", err)
	}
	if raw := cellString(cells[5]); raw != "" {
		if rec.LastUpdated, err = models.ParseDate(raw); err != nil {
			return rec, fmt.Errorf("DataUltimaAtualizacao: %w", err)
		}
	}
	return rec.WithTotal(), nil
}

func parseTransactionRow(row []interface{}) (models.TransactionRecord, error) {
	cells := padRow(row, len(transactionColumns))

	var (
		tx  models.TransactionRecord
		err error
	)
	if tx.TransactionID, err = cellInt(cells[0]); err != nil {
		return tx, fmt.Errorf("ID_Transacao: %w", err)
	}
	if tx.OccurredAt, err = cellTime(cells[1]); err != nil {
		return tx, fmt.Errorf("DataHora: %w", err)
	}
	if tx.ProductID, err = cellInt(cells[2]); err != nil {
		return tx, fmt.Errorf("ID_Produto: %w", err)
	}
	tx.ProductName = cellString(cells[3])
	tx.ProductType = cellString(cells[4])
	tx.Movement = models.MovementType(strings.ToUpper(cellString(cells[5])))
	if tx.Quantity, err = cellInt(cells[6]); err != nil {
		return tx, fmt.Errorf("Quantidade: %w", err)
	}
	if tx.UnitValue, err = cellDecimal(cells[7]); err != nil {
		return tx, fmt.Errorf("ValorUnitarioMovimentacao: %w", err)
	}
	if tx.TotalValue, err = cellDecimal(cells[8]); err != nil {
		return tx, fmt.Errorf("ValorTotalMovimentacao: %w", err)
	}
	return tx, nil
}

func padRow(row []interface{}, width int) []interface{} {
	if len(row) >= width {
		return row
	}
	padded := make([]interface{}, width)
	copy(padded, row)
	return padded
}

func isBlank(row []interface{}) bool {
	for _, cell := range row {
		if cellString(cell) != "" {
			return false
		}
	}
	return true
}

func cellString(value interface{}) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func cellInt(value interface{}) (int64, error) {
	switch v := value.(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	}

	str := cellString(value)
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseInt(str, 10, 64)
}

func cellDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	}

	str := cellString(value)
	if str == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(str, ",", "."))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	models.DateLayout,
}

func cellTime(value interface{}) (time.Time, error) {
	str := cellString(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", str)
}
