package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Market Headlines</title>
    <item>
      <title>Fed holds rates steady</title>
      <pubDate>Mon, 31 Aug 2026 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Tech stocks rally on earnings</title>
      <pubDate>Mon, 31 Aug 2026 10:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Oil slips on supply news</title>
      <pubDate>Mon, 31 Aug 2026 09:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestNewsFeedGetLatestNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeedXML))
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.Market.NewsFeedURL = server.URL

	repo := NewNewsFeedRepository(cfg, newTestLogger(t))

	news, err := repo.GetLatestNews(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, news, 2, "limit must cap the item count")
	assert.Equal(t, "Fed holds rates steady", news[0].Title)
	assert.Equal(t, "Market Headlines", news[0].Source, "feed title is the fallback source")
	assert.Equal(t, "Mon, 31 Aug 2026 12:00:00 GMT", news[0].Time)
}

func TestNewsFeedGetLatestNews_EmptyFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`))
	}))
	defer server.Close()

	cfg := newTestConfig()
	cfg.Market.NewsFeedURL = server.URL

	repo := NewNewsFeedRepository(cfg, newTestLogger(t))

	_, err := repo.GetLatestNews(context.Background(), 5)
	assert.ErrorIs(t, err, ErrProvider)
}
