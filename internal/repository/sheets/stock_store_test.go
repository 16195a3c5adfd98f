package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AppendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	args := m.Called(sheetRange, values)
	return args.Error(0)
}

func (m *MockRepository) UpdateRow(ctx context.Context, sheetRange string, values []interface{}) error {
	args := m.Called(sheetRange, values)
	return args.Error(0)
}

func (m *MockRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	args := m.Called(sheetRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]interface{}), args.Error(1)
}

func TestListStockParsesRows(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ReadRange", stockDataRange).Return([][]interface{}{
		{float64(1), "Caneta", "Papelaria", "2.5", float64(10), "2024-01-15"},
		{},
		{"", ""},
		{"abc", "Quebrado"},
		{"7", "Caderno", "Papelaria", float64(12), "3"},
	}, nil)

	store := NewStockStore(repo, nil)
	stock, err := store.ListStock(context.Background())
	require.NoError(t, err)
	require.Len(t, stock, 2)

	assert.Equal(t, int64(1), stock[0].ProductID)
	assert.Equal(t, "Caneta", stock[0].ProductName)
	assert.Equal(t, "25.00", stock[0].TotalValue.StringFixed(2))
	assert.Equal(t, "2024-01-15", stock[0].LastUpdated.String())

	assert.Equal(t, int64(7), stock[1].ProductID)
	assert.Equal(t, int64(3), stock[1].Quantity)
	assert.True(t, stock[1].LastUpdated.IsZero())
	repo.AssertExpectations(t)
}

func TestListStockPropagatesReadError(t *testing.T) {
	repo := new(MockRepository)
	boom := errors.New("quota exceeded")
	repo.On("ReadRange", stockDataRange).Return(nil, boom)

	_, err := NewStockStore(repo, nil).ListStock(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestUpsertStockUpdatesMatchingRow(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ReadRange", stockDataRange).Return([][]interface{}{
		{float64(4), "Lápis"},
		{},
		{float64(1), "Caneta"},
	}, nil)

	d, _ := models.ParseDate("2024-01-15")
	rec := models.StockRecord{ProductID: 1, ProductName: "Caneta", ProductType: "Papelaria", UnitValue: decimal.RequireFromString("2.5"), Quantity: 12, LastUpdated: d}
	repo.On("UpdateRow", "EstoqueAtual!A4:F4", []interface{}{int64(1), "Caneta", "Papelaria", "2.5", int64(12), "2024-01-15"}).Return(nil)

	require.NoError(t, NewStockStore(repo, nil).UpsertStock(context.Background(), rec))
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "AppendRow", mock.Anything, mock.Anything)
}

func TestUpsertStockAppendsNewProduct(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ReadRange", stockDataRange).Return([][]interface{}{{float64(4), "Lápis"}}, nil)
	repo.On("AppendRow", stockAppendRange, mock.Anything).Return(nil)

	rec := models.StockRecord{ProductID: 5, ProductName: "Caneta", UnitValue: decimal.NewFromInt(1), Quantity: 1}
	require.NoError(t, NewStockStore(repo, nil).UpsertStock(context.Background(), rec))
	repo.AssertExpectations(t)
}

func TestEnsureLayoutWritesMissingHeaders(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ReadRange", stockHeaderRange).Return([][]interface{}{{"ID_Produto"}}, nil)
	repo.On("ReadRange", transactionHeaderRange).Return([][]interface{}{}, nil)
	repo.On("UpdateRow", transactionHeaderRange, transactionColumns).Return(nil)

	require.NoError(t, NewStockStore(repo, nil).EnsureLayout(context.Background()))
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateRow", stockHeaderRange, mock.Anything)
}

func TestTransactionsRoundTripThroughRows(t *testing.T) {
	tx := models.TransactionRecord{
		TransactionID: 3,
		OccurredAt:    time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
		ProductID:     1,
		ProductName:   "Caneta",
		ProductType:   "Papelaria",
		Movement:      models.MovementExit,
		Quantity:      4,
		UnitValue:     decimal.RequireFromString("2.5"),
		TotalValue:    decimal.NewFromInt(10),
	}

	repo := new(MockRepository)
	repo.On("AppendRow", transactionAppendRange, transactionRow(tx)).Return(nil)
	repo.On("ReadRange", transactionDataRange).Return([][]interface{}{
		{float64(3), "2024-01-15T14:30:00Z", float64(1), "Caneta", "Papelaria", "saida", float64(4), "2.5", "10"},
		{float64(4), "not a date"},
	}, nil)

	store := NewStockStore(repo, nil)
	require.NoError(t, store.AppendTransaction(context.Background(), tx))

	txs, err := store.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, tx.OccurredAt, txs[0].OccurredAt.UTC())
	assert.Equal(t, models.MovementExit, txs[0].Movement)
	assert.True(t, tx.TotalValue.Equal(txs[0].TotalValue))
	repo.AssertExpectations(t)
}

func TestCellDecimalAcceptsCommaSeparator(t *testing.T) {
	d, err := cellDecimal("2,75")
	require.NoError(t, err)
	assert.Equal(t, "2.75", d.String())
}
