package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/server/views"
	"github.com/mamadbah2/estoque/pkg/clients/inventory"
)

const stockUnavailableMessage = "Não foi possível carregar o estoque. Tente novamente mais tarde."

// StockPageHandler serves the HTML pages of the inventory frontend.
type StockPageHandler struct {
	client inventory.Client
	logger *zap.Logger
}

// NewStockPageHandler constructs the page handler around an inventory client.
func NewStockPageHandler(client inventory.Client, logger *zap.Logger) *StockPageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockPageHandler{client: client, logger: logger}
}

// Home renders the landing page.
func (h *StockPageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, views.HomePage, nil)
}

// Stock fetches the current inventory once and renders it as a table.
func (h *StockPageHandler) Stock(c *gin.Context) {
	records, err := h.client.FetchStock(c.Request.Context())
	if err != nil {
		h.logFetchFailure(err)
		c.HTML(http.StatusBadGateway, views.ErrorPage, views.ErrorView{Message: stockUnavailableMessage})
		return
	}

	c.HTML(http.StatusOK, views.StockPage, views.BuildStockTable(records))
}

func (h *StockPageHandler) logFetchFailure(err error) {
	fields := []zap.Field{zap.Error(err)}

	var fetchErr *inventory.RemoteFetchError
	var parseErr *inventory.ParseError
	switch {
	case errors.As(err, &fetchErr):
		fields = append(fields, zap.String("kind", "remote"), zap.Int("status", fetchErr.StatusCode))
	case errors.As(err, &parseErr):
		fields = append(fields, zap.String("kind", "parse"))
	}

	h.logger.Error("failed to fetch stock data", fields...)
}
