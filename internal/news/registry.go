package news

import (
	"log/slog"
	"net/http"

	"github.com/spacesedan/marketpulse/config"
)

// Backends carries the API clients adapters are built on. A nil backend
// disables the adapters that need it.
type Backends struct {
	NewsAPI ArticleSearcher
	Reddit  PostSearcher
	HTTP    *http.Client
}

// BuildSources assembles isolated sources in merge order: one search
// variant per configured language, then the configured scraped sites.
func BuildSources(cfg config.Config, b Backends) []Source {
	var fetchers []Fetcher

	if b.NewsAPI != nil {
		for _, lang := range cfg.NewsLanguages {
			fetchers = append(fetchers, NewNewsAPIFetcher(b.NewsAPI, lang, cfg.NewsWindow))
		}
	} else {
		slog.Warn("[NewsSources] NewsAPI key not configured, search sources disabled")
	}

	for _, name := range cfg.NewsSources {
		switch name {
		case "infomoney":
			fetchers = append(fetchers, NewInfoMoneyFetcher(b.HTTP))
		case "valor":
			fetchers = append(fetchers, NewValorFetcher(b.HTTP))
		case "googlenews":
			fetchers = append(fetchers, NewGoogleNewsFetcher(b.HTTP))
		case "reddit":
			if b.Reddit == nil {
				slog.Warn("[NewsSources] Reddit credentials not configured, skipping source")
				continue
			}
			fetchers = append(fetchers, NewRedditFetcher(b.Reddit, cfg.RedditSubreddits))
		default:
			slog.Warn("[NewsSources] Unknown news source, skipping", slog.String("source", name))
		}
	}

	sources := make([]Source, 0, len(fetchers))
	for _, f := range fetchers {
		sources = append(sources, Isolate(f, cfg.FetchTimeout))
		slog.Info("[NewsSources] Registered news source", slog.String("source", f.Name()))
	}
	return sources
}
