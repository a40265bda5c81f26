package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
	"golang.org/x/time/rate"
)

const (
	EODHD_BASE_URL     = "https://eodhd.com/api"
	EODHD_DEFAULT_RATE = 10
)

// EODHDClient reads quotes and technical indicators from the EODHD API.
type EODHDClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type EODHDOption func(*EODHDClient)

func WithEODHDBaseURL(baseURL string) EODHDOption {
	return func(c *EODHDClient) {
		c.baseURL = baseURL
	}
}

func WithEODHDRateLimit(requestsPerSecond int) EODHDOption {
	return func(c *EODHDClient) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

func NewEODHDClient(apiKey string, timeout time.Duration, opts ...EODHDOption) *EODHDClient {
	c := &EODHDClient{
		baseURL:    EODHD_BASE_URL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(EODHD_DEFAULT_RATE), EODHD_DEFAULT_RATE),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RealTimeQuote returns the delayed live quote for a TICKER.EXCHANGE symbol.
func (c *EODHDClient) RealTimeQuote(ctx context.Context, symbol string) (*models.EODHDRealTimeQuote, error) {
	var result models.EODHDRealTimeQuote
	if err := c.get(ctx, "/real-time/"+symbol, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Technical returns an indicator series (function = sma, rsi, macd, ...),
// oldest first.
func (c *EODHDClient) Technical(ctx context.Context, symbol, function string, params url.Values) ([]models.EODHDTechnicalPoint, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("function", function)
	q.Set("order", "a")

	var result []models.EODHDTechnicalPoint
	if err := c.get(ctx, "/technical/"+symbol, q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *EODHDClient) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("[EODHDClient] rate limiter: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("[EODHDClient] failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	slog.Debug("[EODHDClient] API request", slog.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[EODHDClient] failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("[EODHDClient] failed to decode response: %w", err)
	}
	return nil
}
