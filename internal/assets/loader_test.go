package assets

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

	"github.com/hueforge/themed/internal/infrastructure/config"
	"github.com/hueforge/themed/internal/infrastructure/logging"
)

func testLoader(t *testing.T, handler http.Handler) (*Loader, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	loader, err := NewLoader(config.AssetConfig{CacheSize: 8, Timeout: 5 * time.Second}, logging.NewNop(), nil)
	require.NoError(t, err)
	return loader, server
}

func TestLoadCachesResult(t *testing.T) {
	var hits atomic.Int64
	loader, server := testLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("font-bytes"))
	}))

	ctx := context.Background()
	url := server.URL + "/font.woff2"

	first, err := loader.Load(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, []byte("font-bytes"), first.Data)

	second, err := loader.Load(ctx, url)
	require.NoError(t, err)
	assert.Same(t, first, second)

	assert.Equal(t, int64(1), hits.Load())
	assert.Equal(t, 1, loader.Len())
}

func TestLoadSniffsContentType(t *testing.T) {
	loader, server := testLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// PNG magic bytes; the sniffer must not trust headers.
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("\x89PNG\r\n\x1a\n"))
	}))

	asset, err := loader.Load(context.Background(), server.URL+"/img")
	require.NoError(t, err)
	assert.Equal(t, "image/png", asset.ContentType)
}

func TestLoadDeduplicatesConcurrentFetches(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	loader, server := testLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte("shared"))
	}))

	ctx := context.Background()
	url := server.URL + "/shared.bin"

	const callers = 5
	var wg sync.WaitGroup
	results := make([]*Asset, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = loader.Load(ctx, url)
		}(i)
	}

	// Let every caller reach the in-flight table before the fetch returns.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []byte("shared"), results[i].Data)
	}
	assert.Equal(t, int64(1), hits.Load(), "at most one in-flight fetch per identifier")
}

func TestLoadErrorStatus(t *testing.T) {
	loader, server := testLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := loader.Load(context.Background(), server.URL+"/denied")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, 0, loader.Len())
}

func TestLoadEmptyIdentifier(t *testing.T) {
	loader, err := NewLoader(config.AssetConfig{CacheSize: 2, Timeout: time.Second}, logging.NewNop(), nil)
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), "")
	assert.Error(t, err)
}
