// Package netx contains thin HTTP client helpers.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchBytes downloads the body of url, giving up after timeout. The whole
// body is read into memory; callers only use this for small assets such as
// track layout images.
func FetchBytes(ctx context.Context, url string, timeout time.Duration) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}
