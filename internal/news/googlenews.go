package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/spacesedan/marketpulse/internal/models"
)

const (
	GOOGLE_NEWS_BASE_URL = "https://news.google.com"
	GOOGLE_NEWS_SOURCE   = "Google News"
	GOOGLE_NEWS_LIMIT    = 10
)

type GoogleNewsFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewGoogleNewsFetcher(client *http.Client) *GoogleNewsFetcher {
	return &GoogleNewsFetcher{BaseURL: GOOGLE_NEWS_BASE_URL, Client: defaultHTTPClient(client)}
}

func (f *GoogleNewsFetcher) Name() string { return "googlenews" }

func (f *GoogleNewsFetcher) Fetch(ctx context.Context, ticker string) ([]models.RawNewsItem, error) {
	params := url.Values{}
	params.Set("q", ticker)
	params.Set("hl", "pt-BR")
	params.Set("gl", "BR")
	params.Set("ceid", "BR:pt-419")
	feedURL := fmt.Sprintf("%s/rss/search?%s", strings.TrimRight(f.BaseURL, "/"), params.Encode())

	body, err := getPage(ctx, f.Client, feedURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Google News feed: %w", err)
	}

	var items []models.RawNewsItem
	for _, entry := range feed.Items {
		if len(items) == GOOGLE_NEWS_LIMIT {
			break
		}
		if entry == nil || strings.TrimSpace(entry.Title) == "" || strings.TrimSpace(entry.Link) == "" {
			continue
		}

		item := models.RawNewsItem{
			Title:   strings.TrimSpace(entry.Title),
			URL:     strings.TrimSpace(entry.Link),
			Source:  GOOGLE_NEWS_SOURCE,
			Content: entry.Description,
		}
		if entry.PublishedParsed != nil {
			published := entry.PublishedParsed.UTC()
			item.PublishedAt = &published
		}
		items = append(items, item)
	}

	return items, nil
}
