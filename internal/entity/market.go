package entity

// QuoteColor indicates the display color derived from a quote's change sign.
type QuoteColor string

const (
	QuoteColorGreen QuoteColor = "green"
	QuoteColorRed   QuoteColor = "red"
)

// ColorForChange derives the display color from a price change.
func ColorForChange(change float64) QuoteColor {
	if change > 0 {
		return QuoteColorGreen
	}
	return QuoteColorRed
}

// StockQuote is a single trending-stock row.
type StockQuote struct {
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	Change        float64    `json:"change"`
	ChangePercent float64    `json:"changePercent"`
	Color         QuoteColor `json:"color"`
}

// MarketIndex is a single index level. Change is a percentage as delivered by
// the provider, never derived from the point change.
type MarketIndex struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

// NewsItem is a single headline. Time is the provider-supplied relative or
// absolute string, not a machine timestamp.
type NewsItem struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Time   string `json:"time"`
}
