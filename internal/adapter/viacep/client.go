package viacep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/couchcryptid/route-formatter/internal/observability"
	"github.com/jonboulle/clockwork"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br/ws"

// ErrNotFound is returned when the API reports an unknown postal code.
var ErrNotFound = errors.New("postal code not found")

// Client implements domain.AddressLookup using the ViaCEP postal code API.
// Every outbound request is preceded by a fixed pacing delay.
type Client struct {
	httpClient *http.Client
	baseURL    string
	delay      time.Duration
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a ViaCEP client.
func NewClient(baseURL string, timeout, delay time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		delay:   delay,
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
		logger:  logger,
	}
}

// LookupPostalCode resolves an 8-digit postal code. Codes of any other shape
// return empty fields without touching the network.
func (c *Client) LookupPostalCode(ctx context.Context, code string) (domain.Address, error) {
	digits := domain.PostalCodeDigits(code)
	if digits == "" {
		return domain.Address{}, nil
	}

	if err := c.pace(ctx); err != nil {
		return domain.Address{}, err
	}

	start := time.Now()
	addr, err := c.doRequest(ctx, fmt.Sprintf("%s/%s/json/", c.baseURL, digits))
	c.metrics.LookupAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.LookupRequests.WithLabelValues("error").Inc()
	case addr.IsEmpty():
		c.metrics.LookupRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.LookupRequests.WithLabelValues("success").Inc()
	}
	return addr, err
}

// pace waits out the fixed delay the public API expects between requests.
func (c *Client) pace(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(c.delay):
		return nil
	}
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Address, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Address{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Address{}, fmt.Errorf("postal code request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Address{}, fmt.Errorf("viacep API error: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return domain.Address{}, fmt.Errorf("decode response: %w", err)
	}
	if r.Erro {
		return domain.Address{}, ErrNotFound
	}

	c.logger.Debug("postal code resolved", "cep", r.CEP, "city", r.Localidade)
	return domain.Address{
		Street:       r.Logradouro,
		Neighborhood: r.Bairro,
		City:         r.Localidade,
	}, nil
}

// ViaCEP API response types.

type response struct {
	CEP        string   `json:"cep"`
	Logradouro string   `json:"logradouro"`
	Bairro     string   `json:"bairro"`
	Localidade string   `json:"localidade"`
	UF         string   `json:"uf"`
	Erro       flexBool `json:"erro"`
}

// flexBool accepts both true and "true"; the API has returned either.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*b = flexBool(strings.EqualFold(s, "true"))
	return nil
}
