package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"finsight/internal/assistant/dto"
	"finsight/pkg/logger"
)

// buildStockContext pre-fetches quote, profile, news and recommendations for
// a symbol and formats them as a markdown block for the prompt. The four
// fetches run concurrently; each failure degrades its own section to N/A
// lines, and a total miss degrades to a bare reference link.
func (s *queryService) buildStockContext(ctx context.Context, symbol string) string {
	if s.finnhub == nil {
		return ""
	}

	var (
		wg              sync.WaitGroup
		quote           *dto.FinnhubQuote
		profile         *dto.FinnhubCompanyProfile
		news            []dto.FinnhubNewsItem
		recommendations []dto.FinnhubRecommendation
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		var err error
		if quote, err = s.finnhub.GetQuote(ctx, symbol); err != nil {
			s.logger.Warn("Failed to fetch stock quote", logger.StringField("symbol", symbol), logger.ErrorField(err))
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if profile, err = s.finnhub.GetCompanyProfile(ctx, symbol); err != nil {
			s.logger.Warn("Failed to fetch company profile", logger.StringField("symbol", symbol), logger.ErrorField(err))
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		now := time.Now()
		if news, err = s.finnhub.GetCompanyNews(ctx, symbol, now.AddDate(0, 0, -30), now); err != nil {
			s.logger.Warn("Failed to fetch company news", logger.StringField("symbol", symbol), logger.ErrorField(err))
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if recommendations, err = s.finnhub.GetRecommendations(ctx, symbol); err != nil {
			s.logger.Warn("Failed to fetch analyst recommendations", logger.StringField("symbol", symbol), logger.ErrorField(err))
		}
	}()
	wg.Wait()

	if quote == nil && profile == nil && len(news) == 0 && len(recommendations) == 0 {
		return fmt.Sprintf("Failed to retrieve comprehensive data for %s. Using available data from Yahoo Finance: https://finance.yahoo.com/quote/%s", symbol, symbol)
	}

	var b strings.Builder

	b.WriteString("## Stock Quote (Source: Finnhub)\n")
	fmt.Fprintf(&b, "- Symbol: %s\n", symbol)
	if quote != nil {
		fmt.Fprintf(&b, "- Current Price: $%.2f\n", quote.Current)
		fmt.Fprintf(&b, "- Change: %.2f (%.2f%%)\n", quote.Change, quote.ChangePercent)
		fmt.Fprintf(&b, "- Day Range: $%.2f - $%.2f\n", quote.Low, quote.High)
		fmt.Fprintf(&b, "- Previous Close: $%.2f\n", quote.PreviousClose)
	} else {
		b.WriteString("- Current Price: N/A\n- Change: N/A\n- Day Range: N/A\n- Previous Close: N/A\n")
	}

	b.WriteString("\n## Company Profile (Source: Finnhub)\n")
	if profile != nil {
		fmt.Fprintf(&b, "- Name: %s\n", profile.Name)
		fmt.Fprintf(&b, "- Exchange: %s\n", profile.Exchange)
		fmt.Fprintf(&b, "- Market Cap: $%.0f\n", profile.MarketCapitalization*1000000)
		fmt.Fprintf(&b, "- Website: %s\n", profile.WebURL)
	} else {
		fmt.Fprintf(&b, "- Name: %s\n- Exchange: N/A\n- Market Cap: N/A\n- Website: N/A\n", symbol)
	}

	b.WriteString("\n## Recent News (Source: Finnhub)\n")
	if len(news) > 0 {
		for i, item := range news {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- [%s](%s) (%s) - %s\n", item.Headline, item.URL, time.Unix(item.Datetime, 0).Format("2006-01-02"), item.Source)
		}
	} else {
		b.WriteString("No recent news available\n")
	}

	b.WriteString("\n## Additional Financial Data (Source: Yahoo Finance)\n")
	fmt.Fprintf(&b, "- Yahoo Finance Link: [%s on Yahoo Finance](https://finance.yahoo.com/quote/%s)\n", symbol, symbol)
	fmt.Fprintf(&b, "- MarketWatch Link: [%s on MarketWatch](https://www.marketwatch.com/investing/stock/%s)\n", symbol, symbol)
	fmt.Fprintf(&b, "- Bloomberg Link: [%s on Bloomberg](https://www.bloomberg.com/quote/%s)\n", symbol, symbol)

	if len(recommendations) > 0 {
		recent := recommendations[0]
		b.WriteString("\n## Analyst Recommendations (Source: Finnhub)\n")
		fmt.Fprintf(&b, "- Buy: %d\n- Hold: %d\n- Sell: %d\n- Strong Buy: %d\n- Strong Sell: %d\n- Period: %s\n",
			recent.Buy, recent.Hold, recent.Sell, recent.StrongBuy, recent.StrongSell, recent.Period)
	}

	return b.String()
}
