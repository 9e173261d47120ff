package parser

import (
	"net/url"
	"regexp"
	"strings"

	"finsight/internal/entity"
)

var (
	markdownLinkRe  = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	financialHostRe = regexp.MustCompile(`(?i)yahoo|google|bloomberg|marketwatch|cnbc|reuters|ft\.com|wsj\.com|investing\.com|seekingalpha|fool\.com|morningstar|tradingview|finnhub|alphavantage`)
	bareURLRe       = regexp.MustCompile(`https?://[^\s)\]"'<>]+`)
)

const genericSourcingNote = "\n\n_Sources for this analysis are general financial references rather than item-level citations._"

// DefaultSources is the citation pair used when the response contains no
// usable links. The UI downstream always has at least one citation to show.
func DefaultSources() []entity.Source {
	return []entity.Source{
		{Name: "Yahoo Finance", URL: "https://finance.yahoo.com"},
		{Name: "MarketWatch", URL: "https://www.marketwatch.com"},
	}
}

// ExtractSources pulls citations out of a markdown answer. Markdown links to
// known financial hosts win; failing that, any bare URL is used with its
// hostname as the name; failing that, the default pair is returned and a
// disclosure sentence is appended to the content. The returned source list is
// never empty.
func ExtractSources(content string) (string, []entity.Source) {
	var sources []entity.Source
	seen := make(map[string]bool)

	for _, m := range markdownLinkRe.FindAllStringSubmatch(content, -1) {
		name, link := m[1], m[2]
		if !financialHostRe.MatchString(link) || seen[link] {
			continue
		}
		seen[link] = true
		sources = append(sources, entity.Source{Name: name, URL: link})
	}
	if len(sources) > 0 {
		return content, sources
	}

	for _, raw := range bareURLRe.FindAllString(content, -1) {
		// The regexp happily eats sentence punctuation after the URL.
		raw = strings.TrimRight(raw, ".,;:")
		if seen[raw] {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			continue
		}
		seen[raw] = true
		name := strings.TrimPrefix(u.Hostname(), "www.")
		sources = append(sources, entity.Source{Name: name, URL: raw})
	}
	if len(sources) > 0 {
		return content, sources
	}

	return content + genericSourcingNote, DefaultSources()
}
