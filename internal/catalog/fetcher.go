package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// maxSourceSize bounds how much of a remote data file is read
const maxSourceSize = 64 * 1024 * 1024

// Fetcher reads data files from local paths or http(s) URLs
type Fetcher struct {
	HTTPClient *retryablehttp.Client
}

// NewFetcher creates a fetcher. Remote requests are retried up to retries times;
// zero disables retries.
func NewFetcher(timeout time.Duration, retries int) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.HTTPClient.Timeout = timeout
	client.Logger = slog.Default()

	return &Fetcher{HTTPClient: client}
}

// IsRemote reports whether a source is fetched over HTTP
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch returns the full contents of a source
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if !IsRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return data, nil
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", source, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	slog.Debug("Fetched remote source", "url", source, "bytes", len(data))

	return data, nil
}
