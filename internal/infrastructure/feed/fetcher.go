package feed

import (
	"context"
	"io"
	"time"

	"github.com/b2bprocure/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// HTTPFetcher downloads feed documents over HTTP(S)
type HTTPFetcher struct {
	client   *resty.Client
	maxBytes int64
	logger   *zap.Logger
}

// NewHTTPFetcher creates a fetcher honouring the timeout, size and retry settings of cfg
func NewHTTPFetcher(cfg config.FeedConfig, logger *zap.Logger) *HTTPFetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Accept", "application/x-yaml, text/yaml, text/plain, */*")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &HTTPFetcher{
		client:   client,
		maxBytes: cfg.MaxBytes,
		logger:   logger,
	}
}

// Fetch returns the body of rawURL. Transport errors, timeouts, non-2xx
// responses and oversized bodies are all reported as *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode()}
	}

	data, err := io.ReadAll(io.LimitReader(body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &FetchError{URL: rawURL, Err: ErrFeedTooLarge}
	}

	f.logger.Debug("Feed fetched",
		zap.String("url", rawURL),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}
