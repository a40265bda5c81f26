package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
)

const NEWS_API_BASE_URL = "https://newsapi.org/v2"

type NewsAPIClient struct {
	Client         *http.Client
	APIKey         string
	BaseURL        string
	InitialBackoff time.Duration
}

func NewNewsAPIClient(apiKey string, timeout time.Duration) *NewsAPIClient {
	return &NewsAPIClient{
		Client:         &http.Client{Timeout: timeout},
		APIKey:         apiKey,
		BaseURL:        NEWS_API_BASE_URL,
		InitialBackoff: INITIAL_BACKOFF,
	}
}

// Everything searches all articles matching query in one language published
// since from, ordered by relevancy.
func (n *NewsAPIClient) Everything(ctx context.Context, query, language string, from time.Time) ([]models.NewsAPIArticle, error) {
	if n.APIKey == "" {
		return nil, errors.New("[NewsAPIClient] API key is missing")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", language)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("sortBy", "relevancy")
	endpoint := n.BaseURL + "/everything?" + params.Encode()

	var lastErr error
	backoff := n.InitialBackoff

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		slog.Debug("[NewsAPIClient] Searching articles",
			slog.String("query", query),
			slog.String("language", language),
			slog.Int("attempt", attempt))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Api-Key", n.APIKey)
		req.Header.Set("User-Agent", USER_AGENT)

		articles, retry, err := n.do(req)
		if err == nil {
			return articles, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err

		if attempt == MAX_RETRIES {
			break
		}
		slog.Warn("[NewsAPIClient] Request failed, retrying...",
			slog.Duration("backoff", backoff),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	return nil, fmt.Errorf("[NewsAPIClient] failed after max retries: %w", lastErr)
}

// do executes one request and reports whether a failure is worth retrying.
func (n *NewsAPIClient) do(req *http.Request) ([]models.NewsAPIArticle, bool, error) {
	res, err := n.Client.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, false, err
		}
		return nil, true, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		var body models.NewsAPIEverythingResponse
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			return nil, false, fmt.Errorf("[NewsAPIClient] failed to parse JSON response: %w", err)
		}
		if body.Status != "" && body.Status != "ok" {
			return nil, false, fmt.Errorf("[NewsAPIClient] %s: %s", body.Code, body.Message)
		}
		return body.Articles, false, nil
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= http.StatusInternalServerError:
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, true, &APIError{StatusCode: res.StatusCode, Endpoint: "everything"}
	default:
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, false, &APIError{StatusCode: res.StatusCode, Endpoint: "everything", Message: string(msg)}
	}
}

// APIError is a non-2xx answer from an upstream HTTP API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}
