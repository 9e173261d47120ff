package repository

import (
	"context"
	"fmt"

	"finsight/internal/assistant/config"
	"finsight/internal/entity"
	"finsight/pkg/logger"

	"github.com/mmcdole/gofeed"
)

type newsFeedRepository struct {
	cfg    *config.Config
	log    *logger.Logger
	parser *gofeed.Parser
}

// NewNewsFeedRepository creates the RSS headline source.
func NewNewsFeedRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	return &newsFeedRepository{
		cfg:    cfg,
		log:    log,
		parser: gofeed.NewParser(),
	}
}

// GetLatestNews reads the configured feed and returns up to limit headlines.
// The time field keeps the feed's published string as-is.
func (r *newsFeedRepository) GetLatestNews(ctx context.Context, limit int) ([]entity.NewsItem, error) {
	feed, err := r.parser.ParseURLWithContext(r.cfg.Market.NewsFeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse news feed: %v", ErrProvider, err)
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("%w: news feed is empty", ErrProvider)
	}

	items := make([]entity.NewsItem, 0, limit)
	for _, item := range feed.Items {
		if len(items) >= limit {
			break
		}
		source := feed.Title
		if item.Author != nil && item.Author.Name != "" {
			source = item.Author.Name
		}
		items = append(items, entity.NewsItem{
			Title:  item.Title,
			Source: source,
			Time:   item.Published,
		})
	}
	return items, nil
}
