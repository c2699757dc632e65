// Package source provides the two byte sources the pipeline reads
// compressed archives from: a local file, or an HTTP response body
// (spec §2, §6).
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Local opens a local archive file. The returned ReadCloser must be
// closed by the caller once the pipeline is done with it.
func Local(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Remote streams the body of an HTTP GET against url, cancellable via
// ctx (spec §5 "Cancellation": aborting ctx closes the HTTP
// connection). Grounded on eunmann-s3-inv-db/pkg/s3fetch's
// context-aware fetch pattern and the Rust original's
// reqwest::blocking::get(...).error_for_status().
func Remote(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}
