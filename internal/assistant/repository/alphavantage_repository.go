package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finsight/internal/assistant/config"
	"finsight/internal/assistant/dto"
	"finsight/pkg/logger"

	"golang.org/x/time/rate"
)

type alphaVantageRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewAlphaVantageRepository creates the Alpha Vantage client used for index
// levels, which Finnhub's free tier does not cover.
func NewAlphaVantageRepository(cfg *config.Config, log *logger.Logger) AlphaVantageRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.AlphaVantage.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &alphaVantageRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: requestLimiter,
	}
}

// GetGlobalQuote fetches a GLOBAL_QUOTE. The change is the provider's
// "10. change percent" value with the percent sign stripped, never derived
// from the point change.
func (r *alphaVantageRepository) GetGlobalQuote(ctx context.Context, symbol string) (*dto.GlobalQuote, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err))
		return nil, err
	}

	query := url.Values{}
	query.Set("function", "GLOBAL_QUOTE")
	query.Set("symbol", symbol)
	query.Set("apikey", r.cfg.AlphaVantage.APIKey)
	apiURL := r.cfg.AlphaVantage.BaseURL + "/query?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create new http request: %v", ErrProvider, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Alpha Vantage API", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("%w: failed to send request to Alpha Vantage API: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Alpha Vantage API", logger.IntField("status_code", resp.StatusCode), logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("%w: received non-OK response from Alpha Vantage API: %d", ErrProvider, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrProvider, err)
	}

	var envelope dto.AlphaVantageGlobalQuoteResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal global quote: %v", ErrProvider, err)
	}
	if len(envelope.GlobalQuote) == 0 {
		return nil, fmt.Errorf("%w: no global quote found for %s", ErrProvider, symbol)
	}

	price, err := strconv.ParseFloat(envelope.GlobalQuote["05. price"], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price in global quote: %v", ErrProvider, err)
	}

	changePercent, err := strconv.ParseFloat(strings.TrimSuffix(envelope.GlobalQuote["10. change percent"], "%"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid change percent in global quote: %v", ErrProvider, err)
	}

	return &dto.GlobalQuote{Price: price, ChangePercent: changePercent}, nil
}
