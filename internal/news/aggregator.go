package news

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
	"github.com/spacesedan/marketpulse/internal/sentiment"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxConcurrentFetches = 4
	TopItemsLimit               = 3
)

// Summarizer produces a news summary for a ticker; nil means no news.
type Summarizer interface {
	Summarize(ctx context.Context, ticker string) *models.NewsSummary
}

// Aggregator fans out to every source, merges, deduplicates and scores.
type Aggregator struct {
	sources       []Source
	scorer        sentiment.Scorer
	maxConcurrent int
}

type AggregatorOption func(*Aggregator)

// WithMaxConcurrentFetches caps the number of sources queried at once.
func WithMaxConcurrentFetches(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxConcurrent = n
		}
	}
}

// NewAggregator takes sources in merge order: search variants first, then
// scraped sites.
func NewAggregator(scorer sentiment.Scorer, sources []Source, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		sources:       sources,
		scorer:        scorer,
		maxConcurrent: DefaultMaxConcurrentFetches,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Collect returns the deduplicated, scored items for ticker in arrival order.
func (a *Aggregator) Collect(ctx context.Context, ticker string) []models.NewsItem {
	start := time.Now()
	merged := Dedupe(a.fetchAll(ctx, ticker))

	items := make([]models.NewsItem, 0, len(merged))
	for _, raw := range merged {
		score := a.scorer.Score(raw.Title)
		items = append(items, models.NewsItem{
			Title:          raw.Title,
			URL:            raw.URL,
			Source:         raw.Source,
			PublishedAt:    raw.PublishedAt,
			SentimentLabel: sentiment.Classify(score),
			SentimentScore: score,
		})
	}

	slog.Info("[NewsAggregator] Collected news",
		slog.String("ticker", ticker),
		slog.Int("sources", len(a.sources)),
		slog.Int("items", len(items)),
		slog.Duration("elapsed", time.Since(start)))
	return items
}

// Summarize returns nil when no source produced an item.
func (a *Aggregator) Summarize(ctx context.Context, ticker string) *models.NewsSummary {
	return BuildSummary(ticker, a.Collect(ctx, ticker))
}

// fetchAll queries the sources concurrently and concatenates their results in
// source order, regardless of which finished first.
func (a *Aggregator) fetchAll(ctx context.Context, ticker string) []models.RawNewsItem {
	results := make([][]models.RawNewsItem, len(a.sources))

	g := new(errgroup.Group)
	g.SetLimit(a.maxConcurrent)
	for i, src := range a.sources {
		g.Go(func() error {
			results[i] = src.Fetch(ctx, ticker)
			return nil
		})
	}
	_ = g.Wait()

	var merged []models.RawNewsItem
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

// BuildSummary aggregates scored items. The top items are the first ones in
// the given order, not re-ranked.
func BuildSummary(ticker string, items []models.NewsItem) *models.NewsSummary {
	if len(items) == 0 {
		return nil
	}

	var total float64
	for _, item := range items {
		total += item.SentimentScore
	}
	avg := total / float64(len(items))

	top := make([]models.NewsItem, min(TopItemsLimit, len(items)))
	copy(top, items)

	return &models.NewsSummary{
		Ticker:       ticker,
		ItemCount:    len(items),
		AverageScore: avg,
		OverallLabel: sentiment.Overall(avg),
		TopItems:     top,
	}
}
