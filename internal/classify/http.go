package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"razor/pkg/api"
)

// maxResponse bounds a classifier response body.
const maxResponse = 16 << 20

// HTTP POSTs an api.RequestV1 to URL and expects an api.BundleV1 back.
// Limiter, if set, throttles requests across all workers.
type HTTP struct {
	URL     string
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewHTTP builds an HTTP classifier. rps <= 0 disables throttling; burst is
// raised to at least 1. timeout 0 means no client-side limit.
func NewHTTP(url string, rps float64, burst int, timeout time.Duration) *HTTP {
	h := &HTTP{URL: url, Client: &http.Client{Timeout: timeout}}
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		h.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return h
}

func (h *HTTP) Classify(ctx context.Context, seq string, maxScan int) (Bundle, error) {
	if h.Limiter != nil {
		if err := h.Limiter.Wait(ctx); err != nil {
			return Bundle{}, &Error{Op: "http", Err: err}
		}
	}
	body, err := json.Marshal(api.RequestV1{Sequence: seq, MaxScan: maxScan})
	if err != nil {
		return Bundle{}, &Error{Op: "http", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return Bundle{}, &Error{Op: "http", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Bundle{}, &Error{Op: "http", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return Bundle{}, &Error{Op: "http", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(data))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return Bundle{}, &Error{Op: "http", Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg)}
	}
	return Decode(data)
}
