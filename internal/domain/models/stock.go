package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates exchanged with the inventory API.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// Date is a calendar date without time of day. It always holds UTC midnight.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	t = t.UTC()
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts date-only strings as well as the datetime forms the API may emit.
func ParseDate(value string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("unsupported date format %q", value)
}

// String renders the date in DateLayout, or an empty string for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a date string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Date{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// StockRecord is one inventory line as exchanged between the API and the frontend.
type StockRecord struct {
	ProductID   int64           `json:"ID_Produto"`
	ProductName string          `json:"NomeProduto"`
	ProductType string          `json:"TipoProduto,omitempty"`
	UnitValue   decimal.Decimal `json:"ValorUnitario"`
	Quantity    int64           `json:"Quantidade"`
	TotalValue  decimal.Decimal `json:"ValorTotal"`
	LastUpdated Date            `json:"DataUltimaAtualizacao"`
}

// WithTotal returns a copy of the record with TotalValue set to UnitValue × Quantity.
func (r StockRecord) WithTotal() StockRecord {
	r.TotalValue = r.UnitValue.Mul(decimal.NewFromInt(r.Quantity))
	return r
}

// StockEnvelope is the outer object wrapping the API's stock listing.
type StockEnvelope struct {
	Message string        `json:"message,omitempty"`
	Data    []StockRecord `json:"data"`
}
