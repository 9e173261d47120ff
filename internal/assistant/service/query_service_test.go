package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"finsight/internal/assistant/config"
	"finsight/internal/assistant/dto"
	"finsight/internal/assistant/parser"
	"finsight/pkg/common"
	"finsight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func newTestConfig() *config.Config {
	return &config.Config{
		Assistant: config.Assistant{QueryCacheTTL: time.Minute},
		Market: config.Market{
			StocksSource:    common.MarketSourceLLM,
			IndexesSource:   common.MarketSourceLLM,
			NewsSource:      common.MarketSourceLLM,
			RefreshCron:     "*/5 * * * *",
			TrendingSymbols: []string{"AAPL", "MSFT"},
			NewsLimit:       5,
		},
	}
}

// fakeAIRepository scripts Generate per call. The zero generate func returns
// the fixed response.
type fakeAIRepository struct {
	name     string
	response string
	err      error
	generate func(call int, prompt string) (string, error)

	mu      sync.Mutex
	calls   int
	prompts []string
}

func (f *fakeAIRepository) Name() string { return f.name }

func (f *fakeAIRepository) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.generate != nil {
		return f.generate(call, prompt)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeAIRepository) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func TestQuery_PrimarySuccess(t *testing.T) {
	primary := &fakeAIRepository{
		name:     common.AIProviderGemini,
		response: "## Overview\nMarkets are calm. See [Yahoo Finance](https://finance.yahoo.com/quote/SPY).\n\n## Outlook\nSteady.",
	}
	secondary := &fakeAIRepository{name: common.AIProviderOpenAI, err: errors.New("must not be called")}

	svc := NewQueryService(newTestConfig(), newTestLogger(t), primary, secondary, nil, nil)

	resp, err := svc.Query(context.Background(), "how do the markets look")
	require.NoError(t, err)

	assert.Equal(t, common.AIProviderGemini, resp.Provider)
	assert.Empty(t, resp.Symbol)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Yahoo Finance", resp.Sources[0].Name)
	require.Len(t, resp.Cards, 2)
	assert.Equal(t, "Overview", resp.Cards[0].Title)
	assert.Equal(t, 0, secondary.calls)

	latest, ok := svc.LatestResult()
	require.True(t, ok)
	assert.Equal(t, resp, latest)
}

func TestQuery_FallsBackToSecondary(t *testing.T) {
	primary := &fakeAIRepository{name: common.AIProviderGemini, err: errors.New("quota exceeded")}
	secondary := &fakeAIRepository{name: common.AIProviderOpenAI, response: "All good."}

	svc := NewQueryService(newTestConfig(), newTestLogger(t), primary, secondary, nil, nil)

	resp, err := svc.Query(context.Background(), "how do the markets look")
	require.NoError(t, err)

	assert.Equal(t, common.AIProviderOpenAI, resp.Provider)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	// A plain answer still gets the default card and sources.
	require.Len(t, resp.Cards, 1)
	assert.Equal(t, parser.DefaultSectionTitle, resp.Cards[0].Title)
	assert.Equal(t, parser.DefaultSources(), resp.Sources)
}

func TestQuery_AllProvidersExhausted(t *testing.T) {
	primary := &fakeAIRepository{name: common.AIProviderGemini, err: errors.New("quota exceeded")}
	secondary := &fakeAIRepository{name: common.AIProviderOpenAI, err: errors.New("bad key")}

	svc := NewQueryService(newTestConfig(), newTestLogger(t), primary, secondary, nil, nil)

	_, err := svc.Query(context.Background(), "how do the markets look")
	assert.ErrorIs(t, err, ErrAllProvidersExhausted)

	_, ok := svc.LatestResult()
	assert.False(t, ok, "a failed query must not populate the result slot")
}

func TestQuery_NoSecondary(t *testing.T) {
	primary := &fakeAIRepository{name: common.AIProviderGemini, err: errors.New("down")}

	svc := NewQueryService(newTestConfig(), newTestLogger(t), primary, nil, nil, nil)

	_, err := svc.Query(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrAllProvidersExhausted)
}

func TestQuery_SymbolRouting(t *testing.T) {
	primary := &fakeAIRepository{name: common.AIProviderGemini, response: "Fine."}

	svc := NewQueryService(newTestConfig(), newTestLogger(t), primary, nil, nil, nil)

	resp, err := svc.Query(context.Background(), "what do you think about $AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", resp.Symbol)
	// Without a market-data repository the prompt falls back to a bare link.
	assert.Contains(t, primary.lastPrompt(), "AAPL stock")
	assert.Contains(t, primary.lastPrompt(), "No live market data is available for AAPL")
}

func TestQuery_GeneralRouting(t *testing.T) {
	primary := &fakeAIRepository{name: common.AIProviderGemini, response: "Fine."}

	svc := NewQueryService(newTestConfig(), newTestLogger(t), primary, nil, nil, nil)

	resp, err := svc.Query(context.Background(), "how is inflation trending")
	require.NoError(t, err)

	assert.Empty(t, resp.Symbol)
	assert.Contains(t, primary.lastPrompt(), "searched multiple financial data sources")
}

func TestQuery_StaleResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	primary := &fakeAIRepository{
		name: common.AIProviderGemini,
		generate: func(call int, _ string) (string, error) {
			if call == 1 {
				close(started)
				<-release
				return "slow answer", nil
			}
			return "fast answer", nil
		},
	}

	svc := NewQueryService(newTestConfig(), newTestLogger(t), primary, nil, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.Query(context.Background(), "first question")
	}()
	<-started

	// The second submit supersedes the first while it is still in flight.
	resp, err := svc.Query(context.Background(), "second question")
	require.NoError(t, err)
	assert.Equal(t, "fast answer", resp.Content)

	close(release)
	wg.Wait()

	latest, ok := svc.LatestResult()
	require.True(t, ok)
	assert.Equal(t, "fast answer", latest.Content, "the superseded answer must not overwrite the newer one")
}

func TestQuery_StockContextInPrompt(t *testing.T) {
	primary := &fakeAIRepository{name: common.AIProviderGemini, response: "Fine."}
	finnhub := &fakeFinnhubRepository{
		quote:   &dto.FinnhubQuote{Current: 189.25, Change: 1.2, ChangePercent: 0.64, High: 190.1, Low: 187.6, PreviousClose: 188.05},
		profile: &dto.FinnhubCompanyProfile{Name: "Apple Inc", Exchange: "NASDAQ", MarketCapitalization: 2900000, WebURL: "https://apple.com"},
		news: []dto.FinnhubNewsItem{
			{Headline: "Apple unveils new chip", Source: "Reuters", URL: "https://reuters.com/a", Datetime: time.Now().Unix()},
		},
		recommendations: []dto.FinnhubRecommendation{{Buy: 20, Hold: 8, Sell: 2, StrongBuy: 12, StrongSell: 1, Period: "2026-08-01"}},
	}

	svc := NewQueryService(newTestConfig(), newTestLogger(t), primary, nil, finnhub, nil)

	_, err := svc.Query(context.Background(), "analyze $AAPL please")
	require.NoError(t, err)

	prompt := primary.lastPrompt()
	assert.Contains(t, prompt, "## Stock Quote (Source: Finnhub)")
	assert.Contains(t, prompt, "Current Price: $189.25")
	assert.Contains(t, prompt, "Name: Apple Inc")
	assert.Contains(t, prompt, "[Apple unveils new chip](https://reuters.com/a)")
	assert.Contains(t, prompt, "Strong Buy: 12")
}

func TestQuery_StockContextPartialFailure(t *testing.T) {
	primary := &fakeAIRepository{name: common.AIProviderGemini, response: "Fine."}
	finnhub := &fakeFinnhubRepository{
		quoteErr: errors.New("quote down"),
		profile:  &fakeFinnhubProfile,
	}

	svc := NewQueryService(newTestConfig(), newTestLogger(t), primary, nil, finnhub, nil)

	_, err := svc.Query(context.Background(), "analyze $AAPL please")
	require.NoError(t, err)

	prompt := primary.lastPrompt()
	assert.Contains(t, prompt, "Current Price: N/A")
	assert.Contains(t, prompt, "Name: Apple Inc")
}

func TestQuery_StockContextTotalFailure(t *testing.T) {
	primary := &fakeAIRepository{name: common.AIProviderGemini, response: "Fine."}
	finnhub := &fakeFinnhubRepository{
		quoteErr:           errors.New("down"),
		profileErr:         errors.New("down"),
		newsErr:            errors.New("down"),
		recommendationsErr: errors.New("down"),
	}

	svc := NewQueryService(newTestConfig(), newTestLogger(t), primary, nil, finnhub, nil)

	_, err := svc.Query(context.Background(), "analyze $AAPL please")
	require.NoError(t, err)

	assert.Contains(t, primary.lastPrompt(), "Failed to retrieve comprehensive data for AAPL")
}

var fakeFinnhubProfile = dto.FinnhubCompanyProfile{Name: "Apple Inc", Exchange: "NASDAQ"}

// fakeFinnhubRepository returns canned values, or the per-method error.
type fakeFinnhubRepository struct {
	quote              *dto.FinnhubQuote
	quoteErr           error
	profile            *dto.FinnhubCompanyProfile
	profileErr         error
	news               []dto.FinnhubNewsItem
	newsErr            error
	recommendations    []dto.FinnhubRecommendation
	recommendationsErr error
	marketNews         []dto.FinnhubNewsItem
	marketNewsErr      error
}

func (f *fakeFinnhubRepository) GetQuote(context.Context, string) (*dto.FinnhubQuote, error) {
	return f.quote, f.quoteErr
}

func (f *fakeFinnhubRepository) GetCompanyProfile(context.Context, string) (*dto.FinnhubCompanyProfile, error) {
	return f.profile, f.profileErr
}

func (f *fakeFinnhubRepository) GetCompanyNews(context.Context, string, time.Time, time.Time) ([]dto.FinnhubNewsItem, error) {
	return f.news, f.newsErr
}

func (f *fakeFinnhubRepository) GetRecommendations(context.Context, string) ([]dto.FinnhubRecommendation, error) {
	return f.recommendations, f.recommendationsErr
}

func (f *fakeFinnhubRepository) GetMarketNews(context.Context) ([]dto.FinnhubNewsItem, error) {
	return f.marketNews, f.marketNewsErr
}
