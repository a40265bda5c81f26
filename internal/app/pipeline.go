package app

import (
	"log/slog"
	"net/http"

	"github.com/spacesedan/marketpulse/config"
	"github.com/spacesedan/marketpulse/internal/clients"
	"github.com/spacesedan/marketpulse/internal/market"
	"github.com/spacesedan/marketpulse/internal/news"
	"github.com/spacesedan/marketpulse/internal/sentiment"
)

// NewScorer builds the configured sentiment backend. A hugot model that fails
// to load falls back to VADER. The returned func releases model resources.
func NewScorer(cfg config.Config) (sentiment.Scorer, func()) {
	if cfg.SentimentBackend == config.SentimentBackendHugot {
		scorer, err := sentiment.NewHugotScorer(cfg.HugotModelPath)
		if err == nil {
			return scorer, func() {
				if err := scorer.Close(); err != nil {
					slog.Warn("[App] Failed to release hugot session", slog.String("error", err.Error()))
				}
			}
		}
		slog.Error("[App] Hugot scorer unavailable, falling back to VADER",
			slog.String("model", cfg.HugotModelPath),
			slog.String("error", err.Error()))
	}
	return sentiment.NewVaderScorer(), func() {}
}

// NewAggregator wires every configured news source to scorer.
func NewAggregator(cfg config.Config, scorer sentiment.Scorer) *news.Aggregator {
	backends := news.Backends{
		HTTP: &http.Client{Timeout: cfg.FetchTimeout},
	}
	if cfg.NewsAPIKey != "" {
		backends.NewsAPI = clients.NewNewsAPIClient(cfg.NewsAPIKey, cfg.FetchTimeout)
	}
	if cfg.RedditClientID != "" && cfg.RedditClientSecret != "" {
		backends.Reddit = clients.NewRedditClient(cfg.RedditClientID, cfg.RedditClientSecret, cfg.FetchTimeout)
	}

	sources := news.BuildSources(cfg, backends)
	return news.NewAggregator(scorer, sources, news.WithMaxConcurrentFetches(cfg.MaxConcurrentFetches))
}

// NewMarketProvider serves quotes and indicators from EODHD.
func NewMarketProvider(cfg config.Config) *market.Provider {
	if cfg.EODHDAPIKey == "" {
		slog.Warn("[App] EODHD_API_KEY not set, market data requests will fail")
	}
	client := clients.NewEODHDClient(cfg.EODHDAPIKey, cfg.FetchTimeout,
		clients.WithEODHDRateLimit(cfg.EODHDRateLimit))
	source := market.NewEODHDSource(client)

	return market.NewProvider(source, source,
		market.WithSuffix(cfg.MarketSuffix),
		market.WithCurrency(cfg.MarketCurrency))
}
