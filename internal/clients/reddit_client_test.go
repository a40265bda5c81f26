package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const redditSearchBody = `{"data":{"after":"","children":[
{"data":{"subreddit":"investimentos","title":"PETR4 ainda vale?","permalink":"/r/investimentos/comments/abc/petr4/","created_utc":1714644000,"id":"abc"}}
]}}`

func newRedditServer(t *testing.T, expireFirst bool) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var tokens, searches atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			tokens.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
		case "/r/investimentos+acoesbrasil/search":
			assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
			assert.Equal(t, "PETR4", r.URL.Query().Get("q"))
			assert.Equal(t, "1", r.URL.Query().Get("restrict_sr"))
			if searches.Add(1) == 1 && expireFirst {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(redditSearchBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return srv, &tokens
}

func newTestRedditClient(srv *httptest.Server) *RedditClient {
	rc := NewRedditClient("id", "secret", time.Second)
	rc.Config.TokenURL = srv.URL + "/token"
	rc.BaseURL = srv.URL
	rc.RefreshClient()
	return rc
}

func TestRedditSearch(t *testing.T) {
	srv, tokens := newRedditServer(t, false)
	defer srv.Close()

	posts, err := newTestRedditClient(srv).Search(context.Background(), []string{"investimentos", "acoesbrasil"}, "PETR4", 10)

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "PETR4 ainda vale?", posts[0].Title)
	assert.Equal(t, float64(1714644000), posts[0].CreatedUTC)
	assert.Equal(t, int32(1), tokens.Load())
}

func TestRedditSearch_RefreshesTokenOnUnauthorized(t *testing.T) {
	srv, tokens := newRedditServer(t, true)
	defer srv.Close()

	posts, err := newTestRedditClient(srv).Search(context.Background(), []string{"investimentos", "acoesbrasil"}, "PETR4", 10)

	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, int32(2), tokens.Load())
}
