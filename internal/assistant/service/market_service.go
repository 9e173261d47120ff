package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"finsight/internal/assistant/config"
	"finsight/internal/assistant/dto"
	"finsight/internal/assistant/parser"
	"finsight/internal/assistant/repository"
	"finsight/internal/entity"
	"finsight/pkg/common"
	"finsight/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
)

// restIndexSymbols maps the Alpha Vantage index tickers to display names.
var restIndexSymbols = []struct {
	Symbol string
	Name   string
}{
	{"^GSPC", "S&P 500"},
	{"^DJI", "Dow Jones"},
	{"^IXIC", "NASDAQ"},
}

// MarketService owns the three market-data flows: trending stocks, index
// levels and headlines. Each flow fetches independently and degrades
// independently: live data, then the last good snapshot, then static samples.
type MarketService interface {
	Stocks() dto.StocksResponse
	Indexes() dto.IndexesResponse
	News() dto.NewsResponse
	Refresh(ctx context.Context, manual bool)
	Refreshing() bool
	Start(ctx context.Context) error
	Stop()
}

type marketService struct {
	cfg          *config.Config
	logger       *logger.Logger
	ai           repository.AIRepository
	finnhub      repository.FinnhubRepository
	alphaVantage repository.AlphaVantageRepository
	newsFeed     repository.NewsFeedRepository

	lastGood *gocache.Cache
	cron     *cron.Cron

	mu         sync.RWMutex
	stocks     dto.StocksResponse
	indexes    dto.IndexesResponse
	news       dto.NewsResponse
	refreshing int32
}

// NewMarketService creates the market-data flows. The REST repositories may
// be nil when the corresponding source is configured as "llm". Slots start
// on sample data so the API never serves an empty state.
func NewMarketService(cfg *config.Config, log *logger.Logger, ai repository.AIRepository, finnhub repository.FinnhubRepository, alphaVantage repository.AlphaVantageRepository, newsFeed repository.NewsFeedRepository) MarketService {
	now := time.Now()
	return &marketService{
		cfg:          cfg,
		logger:       log,
		ai:           ai,
		finnhub:      finnhub,
		alphaVantage: alphaVantage,
		newsFeed:     newsFeed,
		lastGood:     gocache.New(30*time.Minute, 10*time.Minute),
		cron:         cron.New(),
		stocks:       dto.StocksResponse{Data: sampleStocks(), Status: common.SnapshotStatusSample, AsOf: now},
		indexes:      dto.IndexesResponse{Data: sampleIndexes(), Status: common.SnapshotStatusSample, AsOf: now},
		news:         dto.NewsResponse{Data: sampleNews(), Status: common.SnapshotStatusSample, AsOf: now},
	}
}

// Start schedules the periodic refresh and kicks off an immediate one.
func (s *marketService) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Market.RefreshCron, func() {
		s.Refresh(context.Background(), false)
	}); err != nil {
		return fmt.Errorf("invalid refresh cron expression %q: %w", s.cfg.Market.RefreshCron, err)
	}
	s.cron.Start()

	go s.Refresh(ctx, false)

	s.logger.Info("Market refresh scheduled", logger.StringField("cron", s.cfg.Market.RefreshCron))
	return nil
}

// Stop halts the refresh schedule.
func (s *marketService) Stop() {
	s.cron.Stop()
}

// Refresh fetches the three collections concurrently. A failure in one
// collection never blocks or corrupts another; each flow replaces its own
// slot wholesale.
func (s *marketService) Refresh(ctx context.Context, manual bool) {
	if manual {
		if !atomic.CompareAndSwapInt32(&s.refreshing, 0, 1) {
			return
		}
		defer atomic.StoreInt32(&s.refreshing, 0)
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s.refreshStocks(ctx)
	}()
	go func() {
		defer wg.Done()
		s.refreshIndexes(ctx)
	}()
	go func() {
		defer wg.Done()
		s.refreshNews(ctx)
	}()
	wg.Wait()
}

// Refreshing reports whether a manual refresh is in progress.
func (s *marketService) Refreshing() bool {
	return atomic.LoadInt32(&s.refreshing) == 1
}

func (s *marketService) Stocks() dto.StocksResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stocks
}

func (s *marketService) Indexes() dto.IndexesResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexes
}

func (s *marketService) News() dto.NewsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.news
}

func (s *marketService) refreshStocks(ctx context.Context) {
	data, err := s.fetchStocks(ctx)
	now := time.Now()
	if err == nil {
		s.lastGood.Set(common.CacheKeyTrendingStocks, data, gocache.DefaultExpiration)
		s.setStocks(dto.StocksResponse{Data: data, Status: common.SnapshotStatusLive, AsOf: now})
		return
	}

	s.logger.Error("Failed to refresh trending stocks", logger.ErrorField(err))
	if cached, ok := s.lastGood.Get(common.CacheKeyTrendingStocks); ok {
		s.setStocks(dto.StocksResponse{Data: cached.([]entity.StockQuote), Status: common.SnapshotStatusCached, AsOf: now})
		return
	}
	s.setStocks(dto.StocksResponse{Data: sampleStocks(), Status: common.SnapshotStatusSample, AsOf: now})
}

func (s *marketService) refreshIndexes(ctx context.Context) {
	data, err := s.fetchIndexes(ctx)
	now := time.Now()
	if err == nil {
		s.lastGood.Set(common.CacheKeyMarketIndexes, data, gocache.DefaultExpiration)
		s.setIndexes(dto.IndexesResponse{Data: data, Status: common.SnapshotStatusLive, AsOf: now})
		return
	}

	s.logger.Error("Failed to refresh market indexes", logger.ErrorField(err))
	if cached, ok := s.lastGood.Get(common.CacheKeyMarketIndexes); ok {
		s.setIndexes(dto.IndexesResponse{Data: cached.([]entity.MarketIndex), Status: common.SnapshotStatusCached, AsOf: now})
		return
	}
	s.setIndexes(dto.IndexesResponse{Data: sampleIndexes(), Status: common.SnapshotStatusSample, AsOf: now})
}

func (s *marketService) refreshNews(ctx context.Context) {
	data, err := s.fetchNews(ctx)
	now := time.Now()
	if err == nil {
		s.lastGood.Set(common.CacheKeyMarketNews, data, gocache.DefaultExpiration)
		s.setNews(dto.NewsResponse{Data: data, Status: common.SnapshotStatusLive, AsOf: now})
		return
	}

	s.logger.Error("Failed to refresh market news", logger.ErrorField(err))
	if cached, ok := s.lastGood.Get(common.CacheKeyMarketNews); ok {
		s.setNews(dto.NewsResponse{Data: cached.([]entity.NewsItem), Status: common.SnapshotStatusCached, AsOf: now})
		return
	}
	s.setNews(dto.NewsResponse{Data: sampleNews(), Status: common.SnapshotStatusSample, AsOf: now})
}

func (s *marketService) fetchStocks(ctx context.Context) ([]entity.StockQuote, error) {
	if s.cfg.Market.StocksSource == common.MarketSourceREST && s.finnhub != nil {
		return s.fetchStocksREST(ctx)
	}
	return s.fetchStocksLLM(ctx)
}

func (s *marketService) fetchStocksLLM(ctx context.Context) ([]entity.StockQuote, error) {
	raw, err := s.ai.Generate(ctx, repository.BuildTrendingStocksPrompt(s.cfg.Market.TrendingSymbols))
	if err != nil {
		return nil, err
	}

	var stocks []entity.StockQuote
	if err := parser.ExtractJSONArray(raw, &stocks); err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		return nil, fmt.Errorf("%w: empty stock list", parser.ErrBadPayload)
	}

	for i := range stocks {
		stocks[i].Color = entity.ColorForChange(stocks[i].Change)
	}
	return stocks, nil
}

func (s *marketService) fetchStocksREST(ctx context.Context) ([]entity.StockQuote, error) {
	stocks := make([]entity.StockQuote, 0, len(s.cfg.Market.TrendingSymbols))
	for _, symbol := range s.cfg.Market.TrendingSymbols {
		quote, err := s.finnhub.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn("Failed to fetch quote", logger.StringField("symbol", symbol), logger.ErrorField(err))
			continue
		}

		name := fmt.Sprintf("%s Inc.", symbol)
		if profile, err := s.finnhub.GetCompanyProfile(ctx, symbol); err == nil && profile.Name != "" {
			name = profile.Name
		}

		stocks = append(stocks, entity.StockQuote{
			Symbol:        symbol,
			Name:          name,
			Price:         quote.Current,
			Change:        quote.Change,
			ChangePercent: quote.ChangePercent,
			Color:         entity.ColorForChange(quote.Change),
		})
	}
	if len(stocks) == 0 {
		return nil, errors.New("failed to fetch any stock data")
	}
	return stocks, nil
}

func (s *marketService) fetchIndexes(ctx context.Context) ([]entity.MarketIndex, error) {
	if s.cfg.Market.IndexesSource == common.MarketSourceREST && s.alphaVantage != nil {
		return s.fetchIndexesREST(ctx)
	}
	return s.fetchIndexesLLM(ctx)
}

func (s *marketService) fetchIndexesLLM(ctx context.Context) ([]entity.MarketIndex, error) {
	raw, err := s.ai.Generate(ctx, repository.BuildMarketIndexesPrompt())
	if err != nil {
		return nil, err
	}

	var indexes []entity.MarketIndex
	if err := parser.ExtractJSONArray(raw, &indexes); err != nil {
		return nil, err
	}
	if len(indexes) == 0 {
		return nil, fmt.Errorf("%w: empty index list", parser.ErrBadPayload)
	}
	return indexes, nil
}

func (s *marketService) fetchIndexesREST(ctx context.Context) ([]entity.MarketIndex, error) {
	indexes := make([]entity.MarketIndex, 0, len(restIndexSymbols))
	for _, index := range restIndexSymbols {
		quote, err := s.alphaVantage.GetGlobalQuote(ctx, index.Symbol)
		if err != nil {
			s.logger.Warn("Failed to fetch index quote", logger.StringField("index", index.Name), logger.ErrorField(err))
			continue
		}
		indexes = append(indexes, entity.MarketIndex{
			Name:   index.Name,
			Value:  quote.Price,
			Change: quote.ChangePercent,
		})
	}
	if len(indexes) == 0 {
		return nil, errors.New("failed to fetch any index data")
	}
	return indexes, nil
}

func (s *marketService) fetchNews(ctx context.Context) ([]entity.NewsItem, error) {
	switch s.cfg.Market.NewsSource {
	case common.MarketSourceRSS:
		if s.newsFeed != nil {
			return s.newsFeed.GetLatestNews(ctx, s.cfg.Market.NewsLimit)
		}
	case common.MarketSourceREST:
		if s.finnhub != nil {
			return s.fetchNewsREST(ctx)
		}
	}
	return s.fetchNewsLLM(ctx)
}

func (s *marketService) fetchNewsLLM(ctx context.Context) ([]entity.NewsItem, error) {
	raw, err := s.ai.Generate(ctx, repository.BuildMarketNewsPrompt(s.cfg.Market.NewsLimit))
	if err != nil {
		return nil, err
	}

	var news []entity.NewsItem
	if err := parser.ExtractJSONArray(raw, &news); err != nil {
		return nil, err
	}
	if len(news) == 0 {
		return nil, fmt.Errorf("%w: empty news list", parser.ErrBadPayload)
	}
	if len(news) > s.cfg.Market.NewsLimit {
		news = news[:s.cfg.Market.NewsLimit]
	}
	return news, nil
}

func (s *marketService) fetchNewsREST(ctx context.Context) ([]entity.NewsItem, error) {
	raw, err := s.finnhub.GetMarketNews(ctx)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("failed to fetch any news data")
	}

	news := make([]entity.NewsItem, 0, s.cfg.Market.NewsLimit)
	for _, item := range raw {
		if len(news) >= s.cfg.Market.NewsLimit {
			break
		}
		news = append(news, entity.NewsItem{
			Title:  item.Headline,
			Source: item.Source,
			Time:   time.Unix(item.Datetime, 0).Format("2006-01-02 15:04"),
		})
	}
	return news, nil
}

func (s *marketService) setStocks(resp dto.StocksResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks = resp
}

func (s *marketService) setIndexes(resp dto.IndexesResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes = resp
}

func (s *marketService) setNews(resp dto.NewsResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news = resp
}
