package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setHits int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setHits++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

type countingSummarizer struct {
	summary *models.NewsSummary
	calls   int
}

func (c *countingSummarizer) Summarize(ctx context.Context, ticker string) *models.NewsSummary {
	c.calls++
	return c.summary
}

func sampleSummary() *models.NewsSummary {
	return &models.NewsSummary{
		Ticker: "PETR4", ItemCount: 1, AverageScore: 0.4, OverallLabel: models.OverallVeryPositive,
		TopItems: []models.NewsItem{{Title: "Petrobras sobe", URL: "https://x.com/1", Source: "InfoMoney", SentimentLabel: models.SentimentPositive, SentimentScore: 0.4}},
	}
}

func TestSummaryCache_MissThenHit(t *testing.T) {
	store := newMemoryStore()
	next := &countingSummarizer{summary: sampleSummary()}
	c := NewSummaryCache(next, store, time.Minute)

	first := c.Summarize(context.Background(), "petr4")
	second := c.Summarize(context.Background(), "PETR4")

	assert.Equal(t, 1, next.calls)
	require.NotNil(t, second)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, store.ttls["news:summary:PETR4"])
}

func TestSummaryCache_AbsentSummaryIsNotCached(t *testing.T) {
	store := newMemoryStore()
	next := &countingSummarizer{}
	c := NewSummaryCache(next, store, 0)

	assert.Nil(t, c.Summarize(context.Background(), "VALE3"))
	assert.Nil(t, c.Summarize(context.Background(), "VALE3"))
	assert.Equal(t, 2, next.calls)
	assert.Zero(t, store.setHits)
}

func TestSummaryCache_StoreFailuresFallThrough(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	next := &countingSummarizer{summary: sampleSummary()}
	c := NewSummaryCache(next, store, time.Minute)

	got := c.Summarize(context.Background(), "PETR4")

	require.NotNil(t, got)
	assert.Equal(t, 1, got.ItemCount)
	assert.Equal(t, 1, next.calls)
}

func TestSummaryCache_CorruptEntryIsRecomputed(t *testing.T) {
	store := newMemoryStore()
	store.data[SummaryKey("PETR4")] = "{not json"
	next := &countingSummarizer{summary: sampleSummary()}

	got := NewSummaryCache(next, store, time.Minute).Summarize(context.Background(), "PETR4")

	require.NotNil(t, got)
	assert.Equal(t, 1, next.calls)
}
