package inventory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/estoque/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.InventoryConfig{BaseURL: srv.URL + "/api/inventory/", Timeout: 5 * time.Second})
}

func TestFetchStockSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/inventory/estoque", r.URL.Path)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "no-cache", r.Header.Get("Pragma"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok","data":[` +
			`{"ID_Produto":1,"NomeProduto":"Caneta","ValorUnitario":2.5,"Quantidade":10,"ValorTotal":25,"DataUltimaAtualizacao":"2024-01-15"},` +
			`{"ID_Produto":7,"NomeProduto":"Caderno","ValorUnitario":12,"Quantidade":3,"ValorTotal":36,"DataUltimaAtualizacao":"2024-02-01T00:00:00"}]}`))
	})

	records, err := client.FetchStock(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(1), records[0].ProductID)
	assert.Equal(t, "Caneta", records[0].ProductName)
	assert.Equal(t, "2.50", records[0].UnitValue.StringFixed(2))
	assert.Equal(t, int64(7), records[1].ProductID)
	assert.Equal(t, "2024-02-01", records[1].LastUpdated.String())
}

func TestFetchStockMissingDataYieldsEmptySlice(t *testing.T) {
	for _, body := range []string{`{"data":null}`, `{"message":"vazio"}`, `{}`} {
		t.Run(body, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			records, err := client.FetchStock(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestFetchStockNonOKStatus(t *testing.T) {
	for _, status := range []int{http.StatusServiceUnavailable, http.StatusNotFound, http.StatusNoContent} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			})

			records, err := client.FetchStock(context.Background())
			assert.Nil(t, records)

			var fetchErr *RemoteFetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, status, fetchErr.StatusCode)
			assert.Equal(t, http.StatusText(status), fetchErr.Status)
			assert.NoError(t, fetchErr.Unwrap())
		})
	}
}

func TestFetchStockMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"ID_Produto":`))
	})

	records, err := client.FetchStock(context.Background())
	assert.Nil(t, records)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	var fetchErr *RemoteFetchError
	assert.False(t, errors.As(err, &fetchErr))
}

func TestFetchStockTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(config.InventoryConfig{BaseURL: srv.URL})
	srv.Close()

	_, err := client.FetchStock(context.Background())

	var fetchErr *RemoteFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
	assert.Error(t, fetchErr.Err)
}

func TestFetchStockCanceledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchStock(ctx)

	var fetchErr *RemoteFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemoteFetchErrorMessage(t *testing.T) {
	err := &RemoteFetchError{StatusCode: 500, Status: "Internal Server Error"}
	assert.Equal(t, "Error: 500 - Internal Server Error", err.Error())
}
