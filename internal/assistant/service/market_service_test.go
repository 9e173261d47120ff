package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"finsight/internal/assistant/dto"
	"finsight/internal/entity"
	"finsight/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stocksJSON  = `[{"symbol":"AAPL","name":"Apple Inc.","price":189.25,"change":1.2,"changePercent":0.64},{"symbol":"MSFT","name":"Microsoft Corp.","price":415.5,"change":-2.1,"changePercent":-0.5}]`
	indexesJSON = `[{"name":"S&P 500","value":5234.18,"change":0.41},{"name":"Dow Jones","value":39112.2,"change":0.12},{"name":"NASDAQ","value":16340.1,"change":-0.2}]`
	newsJSON    = `[{"title":"Fed holds rates","source":"Reuters","time":"2 hours ago"},{"title":"Tech rally continues","source":"CNBC","time":"4 hours ago"}]`
)

// marketFakeAI answers each market prompt with its canned JSON, or fails the
// prompts whose marker matches failOn.
type marketFakeAI struct {
	failOn  string
	failAll bool
}

func (f *marketFakeAI) Name() string { return common.AIProviderGemini }

func (f *marketFakeAI) Generate(_ context.Context, prompt string) (string, error) {
	marker := ""
	switch {
	case strings.Contains(prompt, "these stocks"):
		marker = "stocks"
	case strings.Contains(prompt, "indices"):
		marker = "indexes"
	case strings.Contains(prompt, "headlines"):
		marker = "news"
	}
	if f.failAll || (f.failOn != "" && f.failOn == marker) {
		return "", errors.New("provider down")
	}
	switch marker {
	case "stocks":
		return stocksJSON, nil
	case "indexes":
		return "```json\n" + indexesJSON + "\n```", nil
	case "news":
		return "Here you go:\n" + newsJSON, nil
	}
	return "", errors.New("unrecognized prompt")
}

func TestMarketService_StartsOnSamples(t *testing.T) {
	svc := NewMarketService(newTestConfig(), newTestLogger(t), &marketFakeAI{}, nil, nil, nil)

	assert.Equal(t, common.SnapshotStatusSample, svc.Stocks().Status)
	assert.Equal(t, common.SnapshotStatusSample, svc.Indexes().Status)
	assert.Equal(t, common.SnapshotStatusSample, svc.News().Status)
	assert.NotEmpty(t, svc.Stocks().Data, "slots are never empty before the first refresh")
}

func TestMarketService_RefreshLLM(t *testing.T) {
	svc := NewMarketService(newTestConfig(), newTestLogger(t), &marketFakeAI{}, nil, nil, nil)

	svc.Refresh(context.Background(), false)

	stocks := svc.Stocks()
	assert.Equal(t, common.SnapshotStatusLive, stocks.Status)
	require.Len(t, stocks.Data, 2)
	assert.Equal(t, entity.QuoteColorGreen, stocks.Data[0].Color)
	assert.Equal(t, entity.QuoteColorRed, stocks.Data[1].Color)

	indexes := svc.Indexes()
	assert.Equal(t, common.SnapshotStatusLive, indexes.Status)
	require.Len(t, indexes.Data, 3)
	assert.Equal(t, "S&P 500", indexes.Data[0].Name)

	news := svc.News()
	assert.Equal(t, common.SnapshotStatusLive, news.Status)
	require.Len(t, news.Data, 2)
	assert.Equal(t, "Fed holds rates", news.Data[0].Title)
}

func TestMarketService_FailureFallsBackToSamples(t *testing.T) {
	svc := NewMarketService(newTestConfig(), newTestLogger(t), &marketFakeAI{failAll: true}, nil, nil, nil)

	svc.Refresh(context.Background(), false)

	assert.Equal(t, common.SnapshotStatusSample, svc.Stocks().Status)
	assert.Equal(t, common.SnapshotStatusSample, svc.Indexes().Status)
	assert.Equal(t, common.SnapshotStatusSample, svc.News().Status)
	assert.Equal(t, sampleStocks(), svc.Stocks().Data)
}

func TestMarketService_FailureFallsBackToLastGood(t *testing.T) {
	ai := &marketFakeAI{}
	svc := NewMarketService(newTestConfig(), newTestLogger(t), ai, nil, nil, nil)

	svc.Refresh(context.Background(), false)
	require.Equal(t, common.SnapshotStatusLive, svc.Stocks().Status)
	live := svc.Stocks().Data

	ai.failAll = true
	svc.Refresh(context.Background(), false)

	stocks := svc.Stocks()
	assert.Equal(t, common.SnapshotStatusCached, stocks.Status)
	assert.Equal(t, live, stocks.Data, "the cached snapshot is the last good fetch")
}

func TestMarketService_CollectionFailureIsIsolated(t *testing.T) {
	svc := NewMarketService(newTestConfig(), newTestLogger(t), &marketFakeAI{failOn: "indexes"}, nil, nil, nil)

	svc.Refresh(context.Background(), false)

	assert.Equal(t, common.SnapshotStatusLive, svc.Stocks().Status)
	assert.Equal(t, common.SnapshotStatusSample, svc.Indexes().Status)
	assert.Equal(t, common.SnapshotStatusLive, svc.News().Status)
}

func TestMarketService_RefreshREST(t *testing.T) {
	cfg := newTestConfig()
	cfg.Market.StocksSource = common.MarketSourceREST
	cfg.Market.TrendingSymbols = []string{"AAPL"}

	finnhub := &fakeFinnhubRepository{
		quote:   &dto.FinnhubQuote{Current: 189.25, Change: 1.2, ChangePercent: 0.64},
		profile: &dto.FinnhubCompanyProfile{Name: "Apple Inc"},
	}

	svc := NewMarketService(cfg, newTestLogger(t), &marketFakeAI{}, finnhub, nil, nil)

	svc.Refresh(context.Background(), false)

	stocks := svc.Stocks()
	assert.Equal(t, common.SnapshotStatusLive, stocks.Status)
	require.Len(t, stocks.Data, 1)
	assert.Equal(t, "Apple Inc", stocks.Data[0].Name)
	assert.Equal(t, entity.QuoteColorGreen, stocks.Data[0].Color)
}

func TestMarketService_RESTNameFallback(t *testing.T) {
	cfg := newTestConfig()
	cfg.Market.StocksSource = common.MarketSourceREST
	cfg.Market.TrendingSymbols = []string{"AAPL"}

	finnhub := &fakeFinnhubRepository{
		quote:      &dto.FinnhubQuote{Current: 189.25, Change: 1.2, ChangePercent: 0.64},
		profileErr: errors.New("profile down"),
	}

	svc := NewMarketService(cfg, newTestLogger(t), &marketFakeAI{}, finnhub, nil, nil)

	svc.Refresh(context.Background(), false)

	stocks := svc.Stocks()
	require.Len(t, stocks.Data, 1)
	assert.Equal(t, "AAPL Inc.", stocks.Data[0].Name)
}

func TestMarketService_NewsRESTTruncatesToLimit(t *testing.T) {
	cfg := newTestConfig()
	cfg.Market.NewsSource = common.MarketSourceREST
	cfg.Market.NewsLimit = 2

	finnhub := &fakeFinnhubRepository{
		marketNews: []dto.FinnhubNewsItem{
			{Headline: "One", Source: "A", Datetime: 1756627200},
			{Headline: "Two", Source: "B", Datetime: 1756627100},
			{Headline: "Three", Source: "C", Datetime: 1756627000},
		},
	}

	svc := NewMarketService(cfg, newTestLogger(t), &marketFakeAI{}, finnhub, nil, nil)

	svc.Refresh(context.Background(), false)

	news := svc.News()
	assert.Equal(t, common.SnapshotStatusLive, news.Status)
	require.Len(t, news.Data, 2)
	assert.Equal(t, "One", news.Data[0].Title)
}

func TestMarketService_NewsRSS(t *testing.T) {
	cfg := newTestConfig()
	cfg.Market.NewsSource = common.MarketSourceRSS

	feed := &fakeNewsFeedRepository{
		items: []entity.NewsItem{
			{Title: "Feed headline", Source: "Market Headlines", Time: "Mon, 31 Aug 2026 12:00:00 GMT"},
		},
	}

	svc := NewMarketService(cfg, newTestLogger(t), &marketFakeAI{}, nil, nil, feed)

	svc.Refresh(context.Background(), false)

	news := svc.News()
	assert.Equal(t, common.SnapshotStatusLive, news.Status)
	require.Len(t, news.Data, 1)
	assert.Equal(t, "Feed headline", news.Data[0].Title)
}

func TestMarketService_ManualRefreshFlagClears(t *testing.T) {
	svc := NewMarketService(newTestConfig(), newTestLogger(t), &marketFakeAI{}, nil, nil, nil)

	svc.Refresh(context.Background(), true)

	assert.False(t, svc.Refreshing())
	assert.Equal(t, common.SnapshotStatusLive, svc.Stocks().Status)
}

func TestMarketService_StartRejectsBadCron(t *testing.T) {
	cfg := newTestConfig()
	cfg.Market.RefreshCron = "not a cron spec"

	svc := NewMarketService(cfg, newTestLogger(t), &marketFakeAI{}, nil, nil, nil)

	assert.Error(t, svc.Start(context.Background()))
}

type fakeNewsFeedRepository struct {
	items []entity.NewsItem
	err   error
}

func (f *fakeNewsFeedRepository) GetLatestNews(_ context.Context, limit int) ([]entity.NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}
