package crossref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citeworks/doimeta/doi"
	"github.com/citeworks/doimeta/logger"
)

const workBody = `{
	"status": "ok",
	"message-type": "work",
	"message-version": "1.0.0",
	"message": {
		"DOI": "10.1000/182",
		"title": ["The Handle System"],
		"relation": {}
	}
}`

// fakeClock makes backoff instantaneous while recording requested delays.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func testDOI(t *testing.T) doi.DOI {
	t.Helper()
	d, err := doi.Extract("10.1000/182")
	require.NoError(t, err)
	return d
}

// newTestClient points a client with fast retry settings at url and swaps
// in a fake clock.
func newTestClient(url string, mutate func(*Config)) (*Client, *fakeClock) {
	cfg := DefaultConfig()
	cfg.BaseURL = url
	cfg.RateLimit = 1000
	cfg.Concurrency = 8
	cfg.RetryMax = 3
	cfg.RetryMinBackoff = time.Millisecond
	cfg.RetryMaxBackoff = 10 * time.Millisecond
	cfg.RetryJitter = false
	if mutate != nil {
		mutate(&cfg)
	}

	client := NewClient(cfg, logger.Disabled())
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	client.policy.Clock = clock
	return client, clock
}

func TestFetchMetadataSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/works/10.1000/182", r.URL.Path)
		w.Write([]byte(workBody))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, nil)
	resp, err := client.FetchMetadata(context.Background(), testDOI(t))
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "work", resp.MessageType)
	assert.Equal(t, []string{"The Handle System"}, resp.Message.Title)
	assert.Equal(t, "10.1000/182", resp.Message.DOI)
}

func TestFetchMetadataRetriesThrottleWithRetryAfter(t *testing.T) {
	throttleOnce := func(calls *atomic.Int32) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.Header().Set("Retry-After", "2")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(workBody))
		}
	}

	t.Run("delay below the ceiling is used verbatim", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(throttleOnce(&calls))
		defer server.Close()

		client, clock := newTestClient(server.URL, func(cfg *Config) {
			cfg.RetryMaxBackoff = time.Minute
		})
		resp, err := client.FetchMetadata(context.Background(), testDOI(t))
		require.NoError(t, err)

		assert.Equal(t, int32(2), calls.Load(), "exactly one retry after the throttle")
		assert.Equal(t, "ok", resp.Status)
		require.Len(t, clock.sleeps, 1)
		assert.Equal(t, 2*time.Second, clock.sleeps[0])
	})

	t.Run("delay above the ceiling is clamped", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(throttleOnce(&calls))
		defer server.Close()

		client, clock := newTestClient(server.URL, nil) // ceiling stays at 10ms
		resp, err := client.FetchMetadata(context.Background(), testDOI(t))
		require.NoError(t, err)

		assert.Equal(t, "ok", resp.Status)
		require.Len(t, clock.sleeps, 1)
		assert.Equal(t, 10*time.Millisecond, clock.sleeps[0])
	})
}

func TestFetchMetadataDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, clock := newTestClient(server.URL, nil)
	_, err := client.FetchMetadata(context.Background(), testDOI(t))

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
	assert.Empty(t, clock.sleeps)
	assert.True(t, IsErrorType(err, HTTPError))
	assert.True(t, IsHTTPStatusError(err, http.StatusNotFound))
}

func TestFetchMetadataExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, clock := newTestClient(server.URL, nil)
	_, err := client.FetchMetadata(context.Background(), testDOI(t))

	require.Error(t, err)
	assert.Equal(t, int32(4), calls.Load(), "1 initial attempt + 3 retries")
	assert.Len(t, clock.sleeps, 3)
	assert.True(t, IsErrorType(err, RetryExhaustedError))
	assert.Equal(t, 4, ErrorAttempts(err))
	assert.True(t, IsHTTPStatusError(err, http.StatusInternalServerError),
		"the last retryable cause is preserved")
}

func TestFetchMetadataDeserializeFailureIsFatal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"status": 12`))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, nil)
	_, err := client.FetchMetadata(context.Background(), testDOI(t))

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "malformed 200 bodies are never retried")
	assert.True(t, IsErrorType(err, DeserializeError))
}

func TestFetchMetadataContactQueryParameter(t *testing.T) {
	t.Run("caller-supplied address", func(t *testing.T) {
		var gotMailto string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMailto = r.URL.Query().Get("mailto")
			w.Write([]byte(workBody))
		}))
		defer server.Close()

		client, _ := newTestClient(server.URL, func(cfg *Config) {
			cfg.Mailto = "librarian@example.org"
		})
		_, err := client.FetchMetadata(context.Background(), testDOI(t))
		require.NoError(t, err)
		assert.Equal(t, "librarian@example.org", gotMailto)
	})

	t.Run("fallback address when unset", func(t *testing.T) {
		var gotMailto string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMailto = r.URL.Query().Get("mailto")
			w.Write([]byte(workBody))
		}))
		defer server.Close()

		client, _ := newTestClient(server.URL, nil)
		_, err := client.FetchMetadata(context.Background(), testDOI(t))
		require.NoError(t, err)
		assert.Equal(t, defaultMailto, gotMailto)
	})
}

func TestFetchMetadataIdentityHeader(t *testing.T) {
	t.Run("absent without identity name", func(t *testing.T) {
		var gotAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAgent = r.Header.Get("User-Agent")
			w.Write([]byte(workBody))
		}))
		defer server.Close()

		client, _ := newTestClient(server.URL, func(cfg *Config) {
			cfg.Mailto = "librarian@example.org"
		})
		_, err := client.FetchMetadata(context.Background(), testDOI(t))
		require.NoError(t, err)
		// net/http fills in its own default agent when none is set
		// explicitly; the configured identity format must not appear.
		assert.NotContains(t, gotAgent, "mailto:")
	})

	t.Run("present with identity name", func(t *testing.T) {
		var gotAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAgent = r.Header.Get("User-Agent")
			w.Write([]byte(workBody))
		}))
		defer server.Close()

		client, _ := newTestClient(server.URL, func(cfg *Config) {
			cfg.Mailto = "librarian@example.org"
			cfg.UserAgent = "doimeta/1.0"
		})
		_, err := client.FetchMetadata(context.Background(), testDOI(t))
		require.NoError(t, err)
		assert.Equal(t, "doimeta/1.0 mailto:librarian@example.org", gotAgent)
	})
}

func TestFetchMetadataRequestIDHeader(t *testing.T) {
	var mu sync.Mutex
	ids := map[string]struct{}{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids[r.Header.Get("X-Request-ID")] = struct{}{}
		mu.Unlock()
		w.Write([]byte(workBody))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, nil)
	for i := 0; i < 2; i++ {
		_, err := client.FetchMetadata(context.Background(), testDOI(t))
		require.NoError(t, err)
	}
	assert.Len(t, ids, 2, "each fetch carries its own correlation id")
	_, blank := ids[""]
	assert.False(t, blank)
}

func TestFetchMetadataCancellationWinsOverRetry(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		cancel()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, nil)
	_, err := client.FetchMetadata(ctx, testDOI(t))

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "no retry once the caller has cancelled")
	assert.True(t, IsErrorType(err, TransportError))
}

func TestFetchMetadataTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(workBody))
	}))
	server.Close() // nothing is listening anymore

	client, clock := newTestClient(server.URL, func(cfg *Config) {
		cfg.RetryMax = 1
	})
	_, err := client.FetchMetadata(context.Background(), testDOI(t))

	require.Error(t, err)
	assert.Len(t, clock.sleeps, 1, "transport failures are retried")
	assert.True(t, IsErrorType(err, RetryExhaustedError))
	assert.Equal(t, 2, ErrorAttempts(err))
}

func TestFetchMetadataConcurrentCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(workBody))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, nil)
	d := testDOI(t)

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := client.FetchMetadata(context.Background(), d)
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-errs)
	}
}
