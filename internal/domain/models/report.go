package models

import "github.com/shopspring/decimal"

// StockValuation aggregates the current inventory for the scheduled summary.
type StockValuation struct {
	Products   int             `json:"products"`
	Units      int64           `json:"units"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// APIResponse mirrors the envelope returned by every inventory API endpoint.
type APIResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// APIError is the body of a failed inventory API call.
type APIError struct {
	Detail string `json:"detail"`
}
