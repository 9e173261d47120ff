package repository

import (
	"context"
	"errors"
	"time"

	"finsight/internal/assistant/dto"
	"finsight/internal/entity"
)

// ErrProvider marks any provider failure: transport errors, non-2xx statuses,
// and malformed or empty response bodies. Retries and provider switching
// belong to the caller, never to a repository.
var ErrProvider = errors.New("provider request failed")

// AIRepository performs exactly one generation call against one configured
// LLM endpoint. Implementations are interchangeable: swapping providers must
// not change caller code beyond which repository is invoked.
type AIRepository interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// FinnhubRepository exposes the Finnhub REST endpoints used to enrich symbol
// queries and to feed the REST market-data variant.
type FinnhubRepository interface {
	GetQuote(ctx context.Context, symbol string) (*dto.FinnhubQuote, error)
	GetCompanyProfile(ctx context.Context, symbol string) (*dto.FinnhubCompanyProfile, error)
	GetCompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.FinnhubNewsItem, error)
	GetRecommendations(ctx context.Context, symbol string) ([]dto.FinnhubRecommendation, error)
	GetMarketNews(ctx context.Context) ([]dto.FinnhubNewsItem, error)
}

// AlphaVantageRepository exposes the Alpha Vantage GLOBAL_QUOTE endpoint used
// for index levels in the REST market-data variant.
type AlphaVantageRepository interface {
	GetGlobalQuote(ctx context.Context, symbol string) (*dto.GlobalQuote, error)
}

// NewsFeedRepository reads headlines from an RSS feed.
type NewsFeedRepository interface {
	GetLatestNews(ctx context.Context, limit int) ([]entity.NewsItem, error)
}
