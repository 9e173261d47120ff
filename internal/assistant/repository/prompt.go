package repository

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildSymbolAnalysisPrompt builds the symbol-specific analysis prompt. The
// user query and the pre-fetched market context are embedded verbatim; the
// query text is untrusted input and the response is treated as untrusted
// markdown downstream.
func BuildSymbolAnalysisPrompt(query, symbol, marketContext string) string {
	if marketContext == "" {
		marketContext = fmt.Sprintf("No live market data is available for %s right now. Use https://finance.yahoo.com/quote/%s as the reference source.", symbol, symbol)
	}

	return fmt.Sprintf(`You are FinanceGPT, an expert financial agent with direct API access to real-time market data.

The user asked: "%s"

I've already queried multiple financial data sources about %s stock and here is the data:

%s

Analyze this data professionally and respond in clear, structured markdown. Include:

1. CURRENT STOCK PRICE AND PERFORMANCE
2. KEY FINANCIAL METRICS
3. ANALYST RECOMMENDATIONS (if available)
4. RECENT NEWS affecting the stock
5. TECHNICAL INDICATORS AND OUTLOOK

Every piece of data must include its exact source. Format your response as a professional financial analyst would.
Use markdown tables for numeric data. Include proper headers and sections.

IMPORTANT: Cite each specific data source inline like [Yahoo Finance](https://finance.yahoo.com/quote/%s)
and include a comprehensive sources section at the end.`, query, symbol, marketContext, symbol)
}

// BuildGeneralQueryPrompt builds the open-ended analysis prompt for queries
// without a recognizable ticker symbol.
func BuildGeneralQueryPrompt(query string) string {
	return fmt.Sprintf(`You are FinanceGPT, an expert financial agent with direct API access to real-time market data.

I've already searched multiple financial data sources for information about: "%s"

%s

Analyze this information professionally and respond in clear, structured markdown. Create logical sections
based on the available data and the specific query topic.

Every piece of data must include its exact source. Format your response as a professional financial analyst would.
Use markdown tables for numeric data. Include proper headers and sections.

IMPORTANT: Cite each specific data source inline like [Source Name](source URL)
and include a comprehensive sources section at the end.`, query, buildSearchContext(query))
}

func buildSearchContext(query string) string {
	terms := url.QueryEscape(query)
	return fmt.Sprintf(`I've searched for information about "%s" on major financial websites:

## Yahoo Finance
- [Yahoo Finance Search Results](https://finance.yahoo.com/lookup?s=%s)

## MarketWatch
- [MarketWatch Search Results](https://www.marketwatch.com/search?q=%s)

## CNBC
- [CNBC Search Results](https://www.cnbc.com/search/?query=%s)

## Bloomberg
- [Bloomberg Search Results](https://www.bloomberg.com/search?query=%s)

## Reuters
- [Reuters Search Results](https://www.reuters.com/search/news?blob=%s)

Please analyze the most relevant information from these sources related to the query.`, query, terms, terms, terms, terms, terms)
}

// BuildTrendingStocksPrompt requests recent price data for the given symbols
// as a bare JSON array.
func BuildTrendingStocksPrompt(symbols []string) string {
	return fmt.Sprintf(`You are a market data service. Report the most recent price data you know for these stocks: %s.

Respond ONLY with a JSON array, no prose, in this exact shape:

[{"symbol": "AAPL", "name": "Apple Inc.", "price": 175.04, "change": 0.65, "changePercent": 0.37}]

Include one object per symbol, in the order given.`, strings.Join(symbols, ", "))
}

// BuildMarketIndexesPrompt requests the major index levels as a bare JSON
// array. The change field is a percentage, not a point change.
func BuildMarketIndexesPrompt() string {
	return `You are a market data service. Report the most recent levels you know for the S&P 500, Dow Jones and NASDAQ indices.

Respond ONLY with a JSON array, no prose, in this exact shape, where "change" is the daily change in percent:

[{"name": "S&P 500", "value": 4782.15, "change": 0.68}]

Include one object per index, in the order given.`
}

// BuildMarketNewsPrompt requests recent financial headlines as a bare JSON
// array.
func BuildMarketNewsPrompt(limit int) string {
	return fmt.Sprintf(`You are a financial news service. Report the %d most significant recent financial market headlines you know.

Respond ONLY with a JSON array, no prose, in this exact shape, where "time" is a short relative age like "2 hours ago":

[{"title": "Federal Reserve Signals Interest Rate Decision", "source": "Financial Times", "time": "2 hours ago"}]`, limit)
}
