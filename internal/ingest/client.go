package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// maxPayload caps a downloaded or read dataset.
const maxPayload = 64 << 20

type Client struct {
	hc *http.Client
}

func NewClient(timeout time.Duration) *Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		hc: &http.Client{Timeout: timeout, Transport: tr},
	}
}

// FetchCSV downloads the dataset payload from u.
func (c *Client) FetchCSV(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("User-Agent", "pulse-analytics/1.0")
	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("GET %s: status=%d body=%q", u, res.StatusCode, string(b))
	}
	return readAllLimit(res.Body, maxPayload)
}

// ReadFile reads a dataset payload from disk.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readAllLimit(f, maxPayload)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	const maxAttempts = 3
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		r := req.Clone(req.Context())
		res, err := c.hc.Do(r)
		if err == nil {
			if retryableStatus(res.StatusCode) {
				_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 32*1024))
				_ = res.Body.Close()
				lastErr = fmt.Errorf("GET %s: status=%d", r.URL.String(), res.StatusCode)
			} else {
				return res, nil
			}
		} else {
			lastErr = err
		}
		if attempt < maxAttempts-1 {
			delay := time.Duration(250*(1<<attempt)) * time.Millisecond
			log.Warn().Err(lastErr).Int("attempt", attempt+1).Dur("backoff", delay).Msg("fetch failed, retrying")
			t := time.NewTimer(delay)
			select {
			case <-req.Context().Done():
				t.Stop()
				return nil, req.Context().Err()
			case <-t.C:
			}
		}
	}
	return nil, lastErr
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("payload exceeds %d bytes", limit)
	}
	return b, nil
}
