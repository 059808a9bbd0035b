// Package assets loads binary theme assets (fonts, background images) by
// identifier.
//
// Loads are de-duplicated: a keyed in-flight table guarantees at most one
// outstanding fetch per identifier, and completed fetches land in a bounded
// LRU cache.
package assets

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hueforge/themed/internal/infrastructure/config"
	"github.com/hueforge/themed/internal/infrastructure/logging"
	"github.com/hueforge/themed/internal/infrastructure/monitoring"
)

// Asset is a fetched binary with its sniffed content type.
type Asset struct {
	ID          string
	Data        []byte
	ContentType string
}

// Loader fetches, de-duplicates and caches assets.
type Loader struct {
	client  *resty.Client
	cache   *lru.Cache[string, *Asset]
	group   singleflight.Group
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewLoader creates an asset loader. Metrics may be nil.
func NewLoader(cfg config.AssetConfig, log *logging.Logger, metrics *monitoring.Metrics) (*Loader, error) {
	cache, err := lru.New[string, *Asset](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset cache: %w", err)
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "themed/1.0")

	return &Loader{
		client:  client,
		cache:   cache,
		log:     log,
		metrics: metrics,
	}, nil
}

// Load returns the asset for an identifier, fetching it at most once no
// matter how many callers ask concurrently.
func (l *Loader) Load(ctx context.Context, id string) (*Asset, error) {
	if id == "" {
		return nil, fmt.Errorf("asset identifier required")
	}

	if asset, ok := l.cache.Get(id); ok {
		l.recordCache(true)
		return asset, nil
	}
	l.recordCache(false)

	result, err, shared := l.group.Do(id, func() (interface{}, error) {
		// Another caller may have completed while this one queued.
		if asset, ok := l.cache.Get(id); ok {
			return asset, nil
		}
		return l.fetch(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	if shared {
		l.log.Debug("asset load coalesced", zap.String("id", id))
	}
	return result.(*Asset), nil
}

// Len returns the number of cached assets.
func (l *Loader) Len() int {
	return l.cache.Len()
}

func (l *Loader) fetch(ctx context.Context, id string) (*Asset, error) {
	resp, err := l.client.R().SetContext(ctx).Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset %q: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to load asset %q: unexpected status %d", id, resp.StatusCode())
	}

	data := resp.Body()
	asset := &Asset{
		ID:          id,
		Data:        data,
		ContentType: mimetype.Detect(data).String(),
	}
	l.cache.Add(id, asset)

	l.log.Debug("asset loaded",
		zap.String("id", id),
		zap.String("content_type", asset.ContentType),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", resp.Time()),
	)
	return asset, nil
}

func (l *Loader) recordCache(hit bool) {
	if l.metrics == nil {
		return
	}
	if hit {
		l.metrics.AssetCacheHits.Inc()
	} else {
		l.metrics.AssetCacheMisses.Inc()
	}
}
