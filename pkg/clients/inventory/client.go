package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/estoque/internal/config"
	"github.com/mamadbah2/estoque/internal/domain/models"
)

const stockPath = "/estoque"

// Client exposes the inventory API operations used by the frontend.
type Client interface {
	FetchStock(ctx context.Context) ([]models.StockRecord, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds an inventory API client for the configured base URL.
func NewClient(cfg config.InventoryConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Pragma", "no-cache")

	if cfg.Timeout > 0 {
		restyClient.SetTimeout(cfg.Timeout)
	}

	return &APIClient{httpClient: restyClient}
}

// FetchStock retrieves the current stock listing. Every call goes to the origin.
func (c *APIClient) FetchStock(ctx context.Context) ([]models.StockRecord, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(stockPath)
	if err != nil {
		return nil, &RemoteFetchError{Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &RemoteFetchError{
			StatusCode: resp.StatusCode(),
			Status:     statusText(resp),
		}
	}

	var envelope models.StockEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, &ParseError{Err: err}
	}

	if envelope.Data == nil {
		return []models.StockRecord{}, nil
	}
	return envelope.Data, nil
}

// statusText strips the numeric code from "503 Service Unavailable".
func statusText(resp *resty.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status(), strconv.Itoa(resp.StatusCode())))
	if text == "" {
		text = http.StatusText(resp.StatusCode())
	}
	return text
}
