package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphaVantageGetGlobalQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "^GSPC", r.URL.Query().Get("symbol"))
		assert.Equal(t, "av-key", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Global Quote":{"01. symbol":"^GSPC","05. price":"5234.1800","10. change percent":"0.4100%"}}`))
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.AlphaVantage.BaseURL = server.URL

	repo := NewAlphaVantageRepository(cfg, newTestLogger(t))

	quote, err := repo.GetGlobalQuote(context.Background(), "^GSPC")
	require.NoError(t, err)
	assert.InDelta(t, 5234.18, quote.Price, 0.001)
	assert.InDelta(t, 0.41, quote.ChangePercent, 0.001)
}

func TestAlphaVantageGetGlobalQuote_EmptyEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Alpha Vantage reports throttling as 200 with an empty envelope.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Global Quote":{}}`))
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.AlphaVantage.BaseURL = server.URL

	repo := NewAlphaVantageRepository(cfg, newTestLogger(t))

	_, err := repo.GetGlobalQuote(context.Background(), "^GSPC")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestAlphaVantageGetGlobalQuote_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "server error", http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.AlphaVantage.BaseURL = server.URL

	repo := NewAlphaVantageRepository(cfg, newTestLogger(t))

	_, err := repo.GetGlobalQuote(context.Background(), "^GSPC")
	assert.ErrorIs(t, err, ErrProvider)
}
