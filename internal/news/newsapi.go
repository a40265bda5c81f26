package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
)

const (
	DefaultNewsWindow = 48 * time.Hour
	NEWSAPI_SOURCE    = "NewsAPI"

	// NewsAPI replaces articles pulled by the publisher with this title.
	removedArticleTitle = "[Removed]"
)

// ArticleSearcher is satisfied by clients.NewsAPIClient.
type ArticleSearcher interface {
	Everything(ctx context.Context, query, language string, from time.Time) ([]models.NewsAPIArticle, error)
}

// NewsAPIFetcher searches one language variant over a trailing window.
type NewsAPIFetcher struct {
	searcher ArticleSearcher
	language string
	window   time.Duration
	now      func() time.Time
}

func NewNewsAPIFetcher(searcher ArticleSearcher, language string, window time.Duration) *NewsAPIFetcher {
	if window <= 0 {
		window = DefaultNewsWindow
	}
	return &NewsAPIFetcher{
		searcher: searcher,
		language: language,
		window:   window,
		now:      time.Now,
	}
}

func (f *NewsAPIFetcher) Name() string { return "newsapi-" + f.language }

func (f *NewsAPIFetcher) Fetch(ctx context.Context, ticker string) ([]models.RawNewsItem, error) {
	articles, err := f.searcher.Everything(ctx, ticker, f.language, f.now().Add(-f.window))
	if err != nil {
		return nil, fmt.Errorf("newsapi search (%s): %w", f.language, err)
	}

	items := make([]models.RawNewsItem, 0, len(articles))
	for _, a := range articles {
		title := strings.TrimSpace(a.Title)
		if title == "" || title == removedArticleTitle || strings.TrimSpace(a.URL) == "" {
			continue
		}
		source := strings.TrimSpace(a.Source.Name)
		if source == "" {
			source = NEWSAPI_SOURCE
		}
		content := a.Description
		if content == "" {
			content = a.Content
		}

		items = append(items, models.RawNewsItem{
			Title:       title,
			URL:         a.URL,
			Source:      source,
			PublishedAt: parseTimestamp(a.PublishedAt),
			Content:     content,
		})
	}
	return items, nil
}
