package viacep

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Prober checks reachability of a known host with a single HEAD request.
// Any HTTP response counts as reachable; only transport failures do not.
type Prober struct {
	url        string
	httpClient *http.Client
}

// NewProber creates a connectivity probe against url.
func NewProber(url string, timeout time.Duration) *Prober {
	return &Prober{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *Prober) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return fmt.Errorf("create probe request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connectivity probe: %w", err)
	}
	resp.Body.Close()
	return nil
}
