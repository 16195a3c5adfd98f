package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tells whether a transaction added or removed stock.
type MovementType string

const (
	MovementEntry MovementType = "ENTRADA"
	MovementExit  MovementType = "SAIDA"
)

// StockMovement is the payload of a stock entry or withdrawal.
type StockMovement struct {
	ProductID    *int64           `json:"ID_Produto"`
	ProductName  string           `json:"NomeProduto" binding:"required"`
	ProductType  string           `json:"TipoProduto" binding:"required"`
	Quantity     int64            `json:"Quantidade" binding:"required,gt=0"`
	UnitValue    *decimal.Decimal `json:"ValorUnitario"`
	MovementDate *time.Time       `json:"DataMovimentacao"`
}

// TransactionRecord is one line of the stock movement history.
type TransactionRecord struct {
	TransactionID int64           `json:"ID_Transacao"`
	OccurredAt    time.Time       `json:"DataHora"`
	ProductID     int64           `json:"ID_Produto"`
	ProductName   string          `json:"NomeProduto"`
	ProductType   string          `json:"TipoProduto"`
	Movement      MovementType    `json:"TipoMovimentacao"`
	Quantity      int64           `json:"Quantidade"`
	UnitValue     decimal.Decimal `json:"ValorUnitarioMovimentacao"`
	TotalValue    decimal.Decimal `json:"ValorTotalMovimentacao"`
}

// TransactionFilter narrows the transaction history. Nil bounds are open.
type TransactionFilter struct {
	Start       *time.Time
	End         *time.Time
	ProductType string
}
