package service

import "finsight/internal/entity"

// Static fallback datasets, served whenever every live source for a
// collection fails. The values are plausible samples, not market data.

func sampleStocks() []entity.StockQuote {
	return []entity.StockQuote{
		{Symbol: "AAPL", Name: "Apple Inc.", Price: 175.04, Change: 0.65, ChangePercent: 0.37, Color: entity.QuoteColorGreen},
		{Symbol: "MSFT", Name: "Microsoft Corp.", Price: 340.79, Change: -1.23, ChangePercent: -0.36, Color: entity.QuoteColorRed},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 138.56, Change: 0.89, ChangePercent: 0.65, Color: entity.QuoteColorGreen},
		{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 128.85, Change: 1.56, ChangePercent: 1.22, Color: entity.QuoteColorGreen},
		{Symbol: "NVDA", Name: "NVIDIA Corp.", Price: 925.75, Change: -2.25, ChangePercent: -0.24, Color: entity.QuoteColorRed},
		{Symbol: "TSLA", Name: "Tesla Inc.", Price: 175.43, Change: -3.22, ChangePercent: -1.8, Color: entity.QuoteColorRed},
	}
}

func sampleIndexes() []entity.MarketIndex {
	return []entity.MarketIndex{
		{Name: "S&P 500", Value: 4782.15, Change: 0.68},
		{Name: "Dow Jones", Value: 38563.35, Change: 0.32},
		{Name: "NASDAQ", Value: 15203.78, Change: -0.21},
	}
}

func sampleNews() []entity.NewsItem {
	return []entity.NewsItem{
		{Title: "Federal Reserve Signals Interest Rate Decision", Source: "Financial Times", Time: "2 hours ago"},
		{Title: "Major Tech Stocks Rally on Earnings Reports", Source: "Bloomberg", Time: "4 hours ago"},
		{Title: "Oil Prices Fluctuate Amid Global Supply Concerns", Source: "Reuters", Time: "6 hours ago"},
		{Title: "Retail Sales Data Exceeds Analyst Expectations", Source: "CNBC", Time: "8 hours ago"},
		{Title: "Cryptocurrency Market Sees Significant Volatility", Source: "WSJ", Time: "10 hours ago"},
	}
}
