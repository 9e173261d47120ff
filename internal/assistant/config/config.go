package config

import (
	"time"

	"finsight/pkg/config"
)

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// OpenAI holds the configuration for the OpenAI-compatible fallback API.
// BaseURL is the full chat-completions endpoint, not an API root.
type OpenAI struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Finnhub holds the configuration for the Finnhub REST API.
type Finnhub struct {
	Enabled             bool   `mapstructure:"enabled"`
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// AlphaVantage holds the configuration for the Alpha Vantage REST API.
type AlphaVantage struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Market holds the configuration for the market data flows.
type Market struct {
	StocksSource    string   `mapstructure:"stocks_source"`  // llm | rest
	IndexesSource   string   `mapstructure:"indexes_source"` // llm | rest
	NewsSource      string   `mapstructure:"news_source"`    // llm | rest | rss
	RefreshCron     string   `mapstructure:"refresh_cron"`
	TrendingSymbols []string `mapstructure:"trending_symbols"`
	NewsFeedURL     string   `mapstructure:"news_feed_url"`
	NewsLimit       int      `mapstructure:"news_limit"`
}

// Assistant holds the configuration for the free-text query flow.
type Assistant struct {
	QueryCacheTTL time.Duration `mapstructure:"query_cache_ttl"`
}

// Config holds the full configuration for the assistant service.
type Config struct {
	App          config.App    `mapstructure:"app"`
	Logger       config.Logger `mapstructure:"logger"`
	Redis        config.Redis  `mapstructure:"redis"`
	API          config.API    `mapstructure:"api"`
	Gemini       Gemini        `mapstructure:"gemini"`
	OpenAI       OpenAI        `mapstructure:"openai"`
	Finnhub      Finnhub       `mapstructure:"finnhub"`
	AlphaVantage AlphaVantage  `mapstructure:"alphavantage"`
	Market       Market        `mapstructure:"market"`
	Assistant    Assistant     `mapstructure:"assistant"`
}

// Load loads the assistant configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Gemini.BaseURL == "" {
		cfg.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if cfg.Gemini.MaxRequestPerMinute <= 0 {
		cfg.Gemini.MaxRequestPerMinute = 15
	}
	if cfg.Gemini.MaxTokenPerMinute <= 0 {
		cfg.Gemini.MaxTokenPerMinute = 1000000
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.OpenAI.MaxRequestPerMinute <= 0 {
		cfg.OpenAI.MaxRequestPerMinute = 60
	}
	if cfg.OpenAI.MaxTokenPerMinute <= 0 {
		cfg.OpenAI.MaxTokenPerMinute = 200000
	}
	if cfg.Finnhub.BaseURL == "" {
		cfg.Finnhub.BaseURL = "https://finnhub.io/api/v1"
	}
	if cfg.Finnhub.MaxRequestPerMinute <= 0 {
		cfg.Finnhub.MaxRequestPerMinute = 60
	}
	if cfg.AlphaVantage.BaseURL == "" {
		cfg.AlphaVantage.BaseURL = "https://www.alphavantage.co"
	}
	if cfg.AlphaVantage.MaxRequestPerMinute <= 0 {
		cfg.AlphaVantage.MaxRequestPerMinute = 5
	}
	if cfg.Market.RefreshCron == "" {
		cfg.Market.RefreshCron = "*/5 * * * *"
	}
	if len(cfg.Market.TrendingSymbols) == 0 {
		cfg.Market.TrendingSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA"}
	}
	if cfg.Market.NewsLimit <= 0 {
		cfg.Market.NewsLimit = 5
	}
	if cfg.Assistant.QueryCacheTTL <= 0 {
		cfg.Assistant.QueryCacheTTL = 10 * time.Minute
	}
}
