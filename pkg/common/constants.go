package common

const (
	AIProviderGemini = "gemini"
	AIProviderOpenAI = "openai"

	MarketSourceLLM  = "llm"
	MarketSourceREST = "rest"
	MarketSourceRSS  = "rss"

	SnapshotStatusLive   = "live"
	SnapshotStatusCached = "cached"
	SnapshotStatusSample = "sample"

	CacheKeyTrendingStocks = "market.stocks"
	CacheKeyMarketIndexes  = "market.indexes"
	CacheKeyMarketNews     = "market.news"

	RedisKeyQueryPrefix = "assistant.query."
)
