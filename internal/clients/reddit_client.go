package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/marketpulse/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	REDDIT_AUTH_URL = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL  = "https://oauth.reddit.com"
	REDDIT_WEB_URL  = "https://www.reddit.com"
)

type RedditClient struct {
	Config  *clientcredentials.Config
	Client  *http.Client
	BaseURL string
	timeout time.Duration
	mu      sync.Mutex
}

func NewRedditClient(clientID, clientSecret string, timeout time.Duration) *RedditClient {
	oauthConf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     REDDIT_AUTH_URL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	rc := &RedditClient{
		Config:  oauthConf,
		BaseURL: REDDIT_API_URL,
		timeout: timeout,
	}
	rc.RefreshClient()
	return rc
}

// RefreshClient drops the cached token by building a new oauth2 client.
func (rc *RedditClient) RefreshClient() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.Config == nil {
		return
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: rc.timeout})
	client := rc.Config.Client(ctx)
	client.Timeout = rc.timeout
	rc.Client = client
}

func (rc *RedditClient) httpClient() *http.Client {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.Client
}

// Search looks for posts matching query across the given subreddits, newest
// first.
func (rc *RedditClient) Search(ctx context.Context, subreddits []string, query string, limit int) ([]models.RedditAPIChildData, error) {
	parsedURL, err := url.Parse(fmt.Sprintf("%s/r/%s/search", rc.BaseURL, strings.Join(subreddits, "+")))
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedURL.Query()
	queryParams.Add("q", query)
	queryParams.Add("sort", "new")
	queryParams.Add("restrict_sr", "1")
	queryParams.Add("t", "week")
	queryParams.Add("limit", fmt.Sprintf("%d", limit))
	parsedURL.RawQuery = queryParams.Encode()

	for attempt := 1; attempt <= 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", USER_AGENT)

		resp, err := rc.httpClient().Do(req)
		if err != nil {
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusOK:
			var body models.RedditAPIResponse
			err := json.NewDecoder(resp.Body).Decode(&body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("[RedditClient] failed to decode response: %w", err)
			}
			posts := make([]models.RedditAPIChildData, 0, len(body.Data.Children))
			for _, child := range body.Data.Children {
				posts = append(posts, child.Data)
			}
			return posts, nil
		case http.StatusUnauthorized:
			resp.Body.Close()
			slog.Warn("[RedditClient] Token expired - Refreshing and Retrying...")
			rc.RefreshClient()
		default:
			resp.Body.Close()
			return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: "search"}
		}
	}

	return nil, &APIError{StatusCode: http.StatusUnauthorized, Endpoint: "search", Message: "token refresh did not help"}
}
