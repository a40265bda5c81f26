package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
	"github.com/spacesedan/marketpulse/internal/news"
)

const (
	DefaultSummaryTTL = 5 * time.Minute
	summaryKeyPrefix  = "news:summary:"
)

// Store is satisfied by clients.ValkeyClient.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
}

// SummaryCache serves repeated on-demand news requests from the store. Store
// failures fall through to the wrapped summarizer; absent summaries are not
// cached.
type SummaryCache struct {
	next  news.Summarizer
	store Store
	ttl   time.Duration
}

func NewSummaryCache(next news.Summarizer, store Store, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &SummaryCache{next: next, store: store, ttl: ttl}
}

func SummaryKey(ticker string) string {
	return summaryKeyPrefix + strings.ToUpper(ticker)
}

func (c *SummaryCache) Summarize(ctx context.Context, ticker string) *models.NewsSummary {
	key := SummaryKey(ticker)

	if cached, ok := c.lookup(ctx, key); ok {
		slog.Debug("[SummaryCache] Cache hit", slog.String("key", key))
		return cached
	}

	summary := c.next.Summarize(ctx, ticker)
	if summary == nil {
		return nil
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		slog.Error("[SummaryCache] Failed to encode summary", slog.String("key", key), slog.String("error", err.Error()))
		return summary
	}
	if err := c.store.SetWithTTL(ctx, key, string(payload), c.ttl); err != nil {
		slog.Warn("[SummaryCache] Failed to store summary", slog.String("key", key), slog.String("error", err.Error()))
	}
	return summary
}

func (c *SummaryCache) lookup(ctx context.Context, key string) (*models.NewsSummary, bool) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("[SummaryCache] Lookup failed, bypassing cache", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var summary models.NewsSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		slog.Warn("[SummaryCache] Discarding unreadable entry", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}
	return &summary, true
}
