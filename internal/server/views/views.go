package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// Page template names registered on the gin engine.
const (
	HomePage  = "home.html"
	StockPage = "estoque.html"
	ErrorPage = "error.html"
)

// EmptyStockMessage labels the placeholder row of an empty inventory.
const EmptyStockMessage = "NENHUM PRODUTO NO ESTOQUE"

// StockColumns are the headers of the stock table, in display order.
var StockColumns = []string{"ID", "PRODUTO", "VALOR UNIDADE", "QUANTIDADE", "VALOR TOTAL", "DATA ATUALIZAÇÃO"}

//go:embed templates/*.html
var templateFS embed.FS

// StockRow is one formatted table row.
type StockRow struct {
	Key         string
	ID          int64
	Name        string
	UnitValue   string
	Quantity    int64
	TotalValue  string
	LastUpdated string
}

// StockTable is the view model of the stock page.
type StockTable struct {
	Columns      []string
	Rows         []StockRow
	Empty        bool
	EmptyMessage string
	ColSpan      int
}

// ErrorView is the view model of the error page.
type ErrorView struct {
	Message string
}

// BuildStockTable formats records for display, keeping their order.
func BuildStockTable(records []models.StockRecord) StockTable {
	table := StockTable{
		Columns:      StockColumns,
		EmptyMessage: EmptyStockMessage,
		ColSpan:      len(StockColumns),
		Empty:        len(records) == 0,
	}

	table.Rows = make([]StockRow, 0, len(records))
	for _, rec := range records {
		table.Rows = append(table.Rows, StockRow{
			Key:         strconv.FormatInt(rec.ProductID, 10),
			ID:          rec.ProductID,
			Name:        rec.ProductName,
			UnitValue:   FormatBRL(rec.UnitValue),
			Quantity:    rec.Quantity,
			TotalValue:  FormatBRL(rec.TotalValue),
			LastUpdated: FormatDate(rec.LastUpdated),
		})
	}

	return table
}

// FormatBRL renders an amount as Brazilian Real, e.g. 1234.5 -> "R$ 1.234,50".
func FormatBRL(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	prefix := "R$ "
	if rounded.IsNegative() {
		prefix = "-R$ "
		rounded = rounded.Abs()
	}

	whole, frac, _ := strings.Cut(rounded.StringFixed(2), ".")
	return prefix + groupThousands(whole) + "," + frac
}

// FormatDate renders a calendar date as DD/MM/YYYY in UTC.
func FormatDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format("02/01/2006")
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Must is a helper that panics when the templates cannot be parsed.
func Must(r *Renderer, err error) *Renderer {
	if err != nil {
		panic(err)
	}
	return r
}

// Templates exposes the parsed set for gin's HTML renderer.
func (r *Renderer) Templates() *template.Template {
	return r.tmpl
}

// StockPage writes the stock page for records to w.
func (r *Renderer) StockPage(w io.Writer, records []models.StockRecord) error {
	return r.tmpl.ExecuteTemplate(w, StockPage, BuildStockTable(records))
}
