package dto

import (
	"time"

	"finsight/internal/entity"
)

// StocksResponse is the trending-stocks snapshot.
type StocksResponse struct {
	Data   []entity.StockQuote `json:"data"`
	Status string              `json:"status"` // live | cached | sample
	AsOf   time.Time           `json:"as_of"`
}

// IndexesResponse is the market-index snapshot.
type IndexesResponse struct {
	Data   []entity.MarketIndex `json:"data"`
	Status string               `json:"status"`
	AsOf   time.Time            `json:"as_of"`
}

// NewsResponse is the headline snapshot.
type NewsResponse struct {
	Data   []entity.NewsItem `json:"data"`
	Status string            `json:"status"`
	AsOf   time.Time         `json:"as_of"`
}

// RefreshResponse acknowledges a manual refresh request.
type RefreshResponse struct {
	Refreshing bool `json:"refreshing"`
}
