package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const maxFeedBytes = 10 << 20 // 10 MiB

type Fetcher struct {
	client *resty.Client
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml, text/xml").
		SetRetryCount(0).
		SetResponseBodyLimit(maxFeedBytes)

	return &Fetcher{client: client}
}

// Run downloads the source document at url.
func (f *Fetcher) Run(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return body, nil
}
