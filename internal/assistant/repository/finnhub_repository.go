package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"finsight/internal/assistant/config"
	"finsight/internal/assistant/dto"
	"finsight/pkg/logger"

	"golang.org/x/time/rate"
)

type finnhubRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewFinnhubRepository creates the Finnhub REST client used by the REST
// market-data variant and symbol-context enrichment.
func NewFinnhubRepository(cfg *config.Config, log *logger.Logger) FinnhubRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Finnhub.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &finnhubRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: requestLimiter,
	}
}

func (r *finnhubRepository) GetQuote(ctx context.Context, symbol string) (*dto.FinnhubQuote, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	body, err := r.sendRequest(ctx, "/quote", query)
	if err != nil {
		return nil, err
	}

	var quote dto.FinnhubQuote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal quote: %v", ErrProvider, err)
	}
	return &quote, nil
}

func (r *finnhubRepository) GetCompanyProfile(ctx context.Context, symbol string) (*dto.FinnhubCompanyProfile, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	body, err := r.sendRequest(ctx, "/stock/profile2", query)
	if err != nil {
		return nil, err
	}

	var profile dto.FinnhubCompanyProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal company profile: %v", ErrProvider, err)
	}
	return &profile, nil
}

func (r *finnhubRepository) GetCompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.FinnhubNewsItem, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("from", from.Format("2006-01-02"))
	query.Set("to", to.Format("2006-01-02"))

	body, err := r.sendRequest(ctx, "/company-news", query)
	if err != nil {
		return nil, err
	}

	var news []dto.FinnhubNewsItem
	if err := json.Unmarshal(body, &news); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal company news: %v", ErrProvider, err)
	}
	return news, nil
}

func (r *finnhubRepository) GetRecommendations(ctx context.Context, symbol string) ([]dto.FinnhubRecommendation, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	body, err := r.sendRequest(ctx, "/stock/recommendation", query)
	if err != nil {
		return nil, err
	}

	var recommendations []dto.FinnhubRecommendation
	if err := json.Unmarshal(body, &recommendations); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal recommendations: %v", ErrProvider, err)
	}
	return recommendations, nil
}

func (r *finnhubRepository) GetMarketNews(ctx context.Context) ([]dto.FinnhubNewsItem, error) {
	query := url.Values{}
	query.Set("category", "general")

	body, err := r.sendRequest(ctx, "/news", query)
	if err != nil {
		return nil, err
	}

	var news []dto.FinnhubNewsItem
	if err := json.Unmarshal(body, &news); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal market news: %v", ErrProvider, err)
	}
	return news, nil
}

func (r *finnhubRepository) sendRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err))
		return nil, err
	}

	query.Set("token", r.cfg.Finnhub.APIKey)
	apiURL := r.cfg.Finnhub.BaseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create new http request: %v", ErrProvider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Finnhub API", logger.ErrorField(err), logger.StringField("path", path))
		return nil, fmt.Errorf("%w: failed to send request to Finnhub API: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Finnhub API", logger.IntField("status_code", resp.StatusCode), logger.StringField("path", path))
		return nil, fmt.Errorf("%w: received non-OK response from Finnhub API: %d", ErrProvider, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrProvider, err)
	}
	return body, nil
}
