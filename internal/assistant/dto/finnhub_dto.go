package dto

// FinnhubQuote is the /quote response. Field names follow Finnhub's
// single-letter JSON keys.
type FinnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
}

// FinnhubCompanyProfile is the /stock/profile2 response.
type FinnhubCompanyProfile struct {
	Name                 string  `json:"name"`
	Exchange             string  `json:"exchange"`
	IPO                  string  `json:"ipo"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	ShareOutstanding     float64 `json:"shareOutstanding"`
	Logo                 string  `json:"logo"`
	WebURL               string  `json:"weburl"`
}

// FinnhubNewsItem is a single item of /company-news or /news.
type FinnhubNewsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// FinnhubRecommendation is a single period of /stock/recommendation.
type FinnhubRecommendation struct {
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongBuy  int    `json:"strongBuy"`
	StrongSell int    `json:"strongSell"`
	Period     string `json:"period"`
}

// AlphaVantageGlobalQuoteResponse is the GLOBAL_QUOTE response envelope.
// Alpha Vantage keys values by numbered, human-readable field names.
type AlphaVantageGlobalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

// GlobalQuote is the parsed subset of an Alpha Vantage GLOBAL_QUOTE.
type GlobalQuote struct {
	Price         float64
	ChangePercent float64
}
