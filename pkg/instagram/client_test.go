package instagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	stderrors "errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"igprofile/pkg/config"
	"igprofile/pkg/errors"
	"igprofile/pkg/extract"
	"igprofile/pkg/logger"
	"igprofile/pkg/retry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, retryCfg *retry.Config) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig().Instagram
	cfg.BaseURL = server.URL
	cfg.Timeout = 2 * time.Second
	return NewClient(cfg, retryCfg, logger.NewTestLogger()), server
}

func fastRetry(attempts int) *retry.Config {
	return &retry.Config{
		MaxAttempts: attempts,
		Backoff:     &retry.ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     retry.DefaultRetryIf,
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(config.InstagramConfig{}, nil, nil)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
	assert.NotEmpty(t, client.headers["User-Agent"])
	assert.Equal(t, 1, client.retry.MaxAttempts)
	assert.NotContains(t, client.jsonHeaders, "X-IG-App-ID")
}

func TestFetchPage(t *testing.T) {
	var gotHeaders http.Header
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		assert.Equal(t, "/janedoe/", r.URL.Path)
		w.Write([]byte("<html>page</html>"))
	}, nil)

	raw, err := client.FetchPage(context.Background(), "janedoe")
	require.NoError(t, err)

	assert.Equal(t, extract.KindHTML, raw.Kind)
	assert.Equal(t, "<html>page</html>", raw.Body)
	assert.Equal(t, server.URL+"/janedoe/", raw.Origin)
	assert.Contains(t, gotHeaders.Get("User-Agent"), "Mozilla/5.0")
	assert.Empty(t, gotHeaders.Get("X-IG-App-ID"))
}

func TestFetchEndpointSendsAppHeaders(t *testing.T) {
	var gotHeaders http.Header
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"user":{"username":"janedoe"}}}`))
	}, nil)

	urls := client.EndpointURLs("janedoe")
	require.Len(t, urls, 3)
	assert.Equal(t, server.URL+"/api/v1/users/web_profile_info/?username=janedoe", urls[1])

	raw, err := client.FetchEndpoint(context.Background(), urls[1])
	require.NoError(t, err)

	assert.Equal(t, extract.KindJSON, raw.Kind)
	assert.Equal(t, urls[1], raw.Origin)
	assert.Equal(t, "936619743392459", gotHeaders.Get("X-IG-App-ID"))
	assert.Equal(t, "198387", gotHeaders.Get("X-ASBD-ID"))
	assert.Equal(t, "XMLHttpRequest", gotHeaders.Get("X-Requested-With"))
}

func TestFetchStatusErrors(t *testing.T) {
	tests := []struct {
		status   int
		wantType errors.ErrorType
	}{
		{http.StatusUnauthorized, errors.ErrorTypeAuth},
		{http.StatusForbidden, errors.ErrorTypeAuth},
		{http.StatusNotFound, errors.ErrorTypeNotFound},
		{http.StatusTooManyRequests, errors.ErrorTypeRateLimit},
		{http.StatusInternalServerError, errors.ErrorTypeServerError},
		{http.StatusTeapot, errors.ErrorTypeUnknown},
		{http.StatusNoContent, errors.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}, nil)

			_, err := client.FetchPage(context.Background(), "janedoe")
			require.Error(t, err)

			var apiErr *errors.Error
			require.True(t, stderrors.As(err, &apiErr))
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Equal(t, tt.status, apiErr.Code)
		})
	}
}

func TestFetchRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}, fastRetry(3))

	raw, err := client.FetchPage(context.Background(), "janedoe")
	require.NoError(t, err)
	assert.Equal(t, "ok", raw.Body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, fastRetry(3))

	_, err := client.FetchPage(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchLoginRedirect(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/accounts/login/" {
			w.Write([]byte("<html>login</html>"))
			return
		}
		http.Redirect(w, r, "/accounts/login/", http.StatusFound)
	}, nil)

	_, err := client.FetchPage(context.Background(), "janedoe")
	var apiErr *errors.Error
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, errors.ErrorTypeAuth, apiErr.Type)
}

func TestFetchNetworkError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	server.Close()

	_, err := client.FetchPage(context.Background(), "janedoe")
	var apiErr *errors.Error
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, errors.ErrorTypeNetwork, apiErr.Type)
}

func TestFetchContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}, fastRetry(3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchPage(ctx, "janedoe")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetHeader(t *testing.T) {
	var got string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}, nil)

	client.SetHeader("User-Agent", "igprofile-test")
	_, err := client.FetchPage(context.Background(), "janedoe")
	require.NoError(t, err)
	assert.Equal(t, "igprofile-test", got)
}
