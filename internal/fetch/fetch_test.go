// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

func TestDownload_WritesFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("id,ra,dec,g\ns1,10.0,-30.0,15.2\n"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "raw", "cat.csv")
	n, err := Download(context.Background(), ts.Client(), ts.URL, dest)
	require.NoError(t, err)
	assert.Equal(t, int64(31), n)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "id,ra,dec,g\ns1,10.0,-30.0,15.2\n", string(data))
}

func TestDownload_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "cat.csv")
	_, err := Download(context.Background(), ts.Client(), ts.URL, dest)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDownload_ExhaustsRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "cat.csv")
	_, err := Download(context.Background(), ts.Client(), ts.URL, dest)
	assert.ErrorContains(t, err, "HTTP 429")
	// 1 initial + 4 default retries = 5 total calls.
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "failed download must not leave a file")
}

func TestDownload_NotFoundNoRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "cat.csv")
	_, err := Download(context.Background(), ts.Client(), ts.URL, dest)
	assert.ErrorContains(t, err, "HTTP 404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDownload_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	dest := filepath.Join(t.TempDir(), "cat.csv")
	_, err := Download(ctx, ts.Client(), ts.URL, dest)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
