package news

import (
	"context"
	"fmt"
	"time"

	"github.com/spacesedan/marketpulse/internal/clients"
	"github.com/spacesedan/marketpulse/internal/models"
)

const (
	REDDIT_SOURCE = "Reddit"
	REDDIT_LIMIT  = 10
)

var DefaultSubreddits = []string{"investimentos", "farialimabets", "acoesbrasil"}

// PostSearcher is satisfied by clients.RedditClient.
type PostSearcher interface {
	Search(ctx context.Context, subreddits []string, query string, limit int) ([]models.RedditAPIChildData, error)
}

type RedditFetcher struct {
	searcher   PostSearcher
	subreddits []string
}

func NewRedditFetcher(searcher PostSearcher, subreddits []string) *RedditFetcher {
	if len(subreddits) == 0 {
		subreddits = DefaultSubreddits
	}
	return &RedditFetcher{searcher: searcher, subreddits: subreddits}
}

func (f *RedditFetcher) Name() string { return "reddit" }

func (f *RedditFetcher) Fetch(ctx context.Context, ticker string) ([]models.RawNewsItem, error) {
	posts, err := f.searcher.Search(ctx, f.subreddits, ticker, REDDIT_LIMIT)
	if err != nil {
		return nil, fmt.Errorf("reddit search: %w", err)
	}

	items := make([]models.RawNewsItem, 0, len(posts))
	for _, p := range posts {
		if p.Title == "" || p.Permalink == "" {
			continue
		}
		item := models.RawNewsItem{
			Title:   p.Title,
			URL:     clients.REDDIT_WEB_URL + p.Permalink,
			Source:  REDDIT_SOURCE,
			Content: p.Selftext,
		}
		if p.CreatedUTC > 0 {
			created := time.Unix(int64(p.CreatedUTC), 0).UTC()
			item.PublishedAt = &created
		}
		items = append(items, item)
	}
	return items, nil
}
