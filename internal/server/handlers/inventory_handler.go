package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
	inventorysvc "github.com/mamadbah2/estoque/internal/service/inventory"
)

const internalErrorDetail = "Ocorreu um erro interno no servidor."

var queryTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// InventoryHandler exposes the inventory service as a JSON API.
type InventoryHandler struct {
	svc    inventorysvc.Manager
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc inventorysvc.Manager, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// Root answers the API landing route.
func (h *InventoryHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Bem-vindo à API de Gestão de Estoque!"})
}

// RegisterEntry records incoming stock.
func (h *InventoryHandler) RegisterEntry(c *gin.Context) {
	var movement models.StockMovement
	if err := c.ShouldBindJSON(&movement); err != nil {
		h.logger.Warn("invalid entry payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.APIError{Detail: err.Error()})
		return
	}

	record, err := h.svc.AddEntry(c.Request.Context(), movement)
	if err != nil {
		h.fail(c, "registrar entrada", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{Message: "Entrada registrada com sucesso!", Data: record})
}

// RegisterExit records outgoing stock.
func (h *InventoryHandler) RegisterExit(c *gin.Context) {
	var movement models.StockMovement
	if err := c.ShouldBindJSON(&movement); err != nil {
		h.logger.Warn("invalid exit payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.APIError{Detail: err.Error()})
		return
	}

	record, err := h.svc.RemoveStock(c.Request.Context(), movement)
	if err != nil {
		h.fail(c, "registrar saída", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{Message: "Saída registrada com sucesso!", Data: record})
}

// ListStock returns the current stock envelope consumed by the frontend.
func (h *InventoryHandler) ListStock(c *gin.Context) {
	stock, err := h.svc.ListStock(c.Request.Context())
	if err != nil {
		h.fail(c, "listar estoque", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{Message: "Estoque atual recuperado com sucesso.", Data: stock})
}

// ListTransactions returns the movement history, optionally filtered.
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	filter := models.TransactionFilter{ProductType: c.Query("tipo_produto")}

	start, err := parseQueryTime(c.Query("data_inicio"), false)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Detail: fmt.Sprintf("data_inicio: %v", err)})
		return
	}
	end, err := parseQueryTime(c.Query("data_fim"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Detail: fmt.Sprintf("data_fim: %v", err)})
		return
	}
	filter.Start, filter.End = start, end

	txs, err := h.svc.TransactionHistory(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "listar transações", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{Message: "Histórico de transações recuperado com sucesso.", Data: txs})
}

func (h *InventoryHandler) fail(c *gin.Context, op string, err error) {
	if inventorysvc.IsValidation(err) {
		c.JSON(http.StatusBadRequest, models.APIError{Detail: err.Error()})
		return
	}

	h.logger.Error("unexpected inventory failure", zap.String("operation", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, models.APIError{Detail: internalErrorDetail})
}

// parseQueryTime accepts datetimes and plain dates. A plain date used as an
// upper bound covers the whole day.
func parseQueryTime(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}

	d, err := models.ParseDate(value)
	if err != nil {
		return nil, err
	}
	t := d.Time
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
