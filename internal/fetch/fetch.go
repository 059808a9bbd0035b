// Package fetch retrieves theme documents by identifier over HTTP.
//
// An identifier is either a full URL or a registry slug resolved against the
// configured base URL. Fetched bodies pass through schema validation before
// they are returned, so callers only ever see valid documents.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/hueforge/themed/internal/infrastructure/config"
	"github.com/hueforge/themed/internal/infrastructure/logging"
	"github.com/hueforge/themed/internal/infrastructure/monitoring"
	"github.com/hueforge/themed/internal/theme"
)

// ErrNotFound is returned when the remote end has no document for an
// identifier.
var ErrNotFound = errors.New("theme not found")

// Fetcher retrieves and validates remote theme documents.
type Fetcher struct {
	client  *resty.Client
	baseURL string
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New creates a fetcher. Metrics may be nil.
func New(cfg config.FetchConfig, log *logging.Logger, metrics *monitoring.Metrics) *Fetcher {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// The retry loop lives in retryablehttp's client, so it must be mounted
	// as a round tripper rather than its bare transport.
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "themed/1.0").
		SetTransport(&retryablehttp.RoundTripper{Client: retryClient})

	return &Fetcher{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		log:     log,
		metrics: metrics,
	}
}

// ByIdentifier fetches a document and validates it against the theme schema.
func (f *Fetcher) ByIdentifier(ctx context.Context, id string) (*theme.ThemeDocument, error) {
	if id == "" {
		return nil, fmt.Errorf("identifier required")
	}

	url := f.resolveURL(id)
	start := time.Now()

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		f.record("error", start)
		return nil, fmt.Errorf("failed to fetch %q: %w", id, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		f.record("not_found", start)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode() != http.StatusOK:
		f.record("error", start)
		return nil, fmt.Errorf("failed to fetch %q: unexpected status %d", id, resp.StatusCode())
	}

	doc, err := theme.Validate(resp.Body())
	if err != nil {
		f.record("invalid", start)
		return nil, fmt.Errorf("fetched document %q is invalid: %w", id, err)
	}

	f.record("success", start)
	f.log.Debug("fetched theme document",
		zap.String("id", id),
		zap.String("name", doc.Name),
	)
	return doc, nil
}

// resolveURL treats full URLs as-is and everything else as a registry slug.
func (f *Fetcher) resolveURL(id string) string {
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id
	}
	return f.baseURL + "/" + theme.SanitizeName(id) + ".json"
}

func (f *Fetcher) record(status string, start time.Time) {
	if f.metrics != nil {
		f.metrics.RecordFetch(status, time.Since(start))
	}
}
