package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNewsAPIClient(baseURL string) *NewsAPIClient {
	c := NewNewsAPIClient("test-key", time.Second)
	c.BaseURL = baseURL
	c.InitialBackoff = time.Millisecond
	return c
}

func TestEverything_RetriesRateLimitThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "PETR4", r.URL.Query().Get("q"))
		assert.Equal(t, "pt", r.URL.Query().Get("language"))
		assert.Equal(t, "2024-05-01", r.URL.Query().Get("from"))
		assert.Equal(t, "relevancy", r.URL.Query().Get("sortBy"))

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[{"source":{"id":null,"name":"G1"},"title":"Petrobras sobe","url":"https://g1.globo.com/1","publishedAt":"2024-05-02T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	from := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	articles, err := newTestNewsAPIClient(srv.URL).Everything(context.Background(), "PETR4", "pt", from)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, articles, 1)
	assert.Equal(t, "G1", articles[0].Source.Name)
	assert.Equal(t, "Petrobras sobe", articles[0].Title)
}

func TestEverything_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","code":"parameterInvalid"}`))
	}))
	defer srv.Close()

	_, err := newTestNewsAPIClient(srv.URL).Everything(context.Background(), "PETR4", "pt", time.Now())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEverything_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestNewsAPIClient(srv.URL).Everything(context.Background(), "PETR4", "en", time.Now())

	assert.Error(t, err)
	assert.Equal(t, int32(MAX_RETRIES), calls.Load())
}

func TestEverything_ErrorStatusInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	}))
	defer srv.Close()

	_, err := newTestNewsAPIClient(srv.URL).Everything(context.Background(), "PETR4", "pt", time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}

func TestEverything_MissingKey(t *testing.T) {
	_, err := NewNewsAPIClient("", time.Second).Everything(context.Background(), "PETR4", "pt", time.Now())
	assert.Error(t, err)
}
