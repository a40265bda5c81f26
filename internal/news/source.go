package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
)

// DefaultFetchTimeout bounds a single source call.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher is implemented by every news origin. It may fail; callers go through
// a Source instead.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, ticker string) ([]models.RawNewsItem, error)
}

// Source is a Fetcher that cannot fail: any error, panic or timeout comes back
// as an empty result.
type Source interface {
	Name() string
	Fetch(ctx context.Context, ticker string) []models.RawNewsItem
}

type isolatedSource struct {
	fetcher Fetcher
	timeout time.Duration
}

// Isolate wraps f so one broken or slow origin cannot block or fail the rest.
// The timeout is enforced even if f ignores its context.
func Isolate(f Fetcher, timeout time.Duration) Source {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &isolatedSource{fetcher: f, timeout: timeout}
}

func (s *isolatedSource) Name() string {
	return s.fetcher.Name()
}

type fetchResult struct {
	items []models.RawNewsItem
	err   error
}

func (s *isolatedSource) Fetch(ctx context.Context, ticker string) []models.RawNewsItem {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan fetchResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("%w: panic: %v", models.ErrSourceUnavailable, r)}
			}
		}()
		items, err := s.fetcher.Fetch(ctx, ticker)
		done <- fetchResult{items: items, err: err}
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = fetchResult{err: ctx.Err()}
	}

	if res.err != nil {
		kind := models.ErrSourceUnavailable
		if errors.Is(res.err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = models.ErrTimeout
		}
		slog.Warn("[NewsSource] Fetch failed, continuing without this source",
			slog.String("source", s.Name()),
			slog.String("ticker", ticker),
			slog.String("kind", kind.Error()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", res.err.Error()))
		return nil
	}

	items := sanitize(res.items)
	slog.Debug("[NewsSource] Fetched items",
		slog.String("source", s.Name()),
		slog.String("ticker", ticker),
		slog.Int("count", len(items)),
		slog.Duration("elapsed", time.Since(start)))
	return items
}

// sanitize drops items without a title or link.
func sanitize(items []models.RawNewsItem) []models.RawNewsItem {
	out := items[:0:0]
	for _, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		item.URL = strings.TrimSpace(item.URL)
		if item.Title == "" || item.URL == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
