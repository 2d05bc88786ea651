//go:build viacep

package viacep

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/route-formatter/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real ViaCEP API.
// Run with: go test -tags=viacep ./internal/adapter/viacep/ -v -count=1

func smokeClient() *Client {
	return NewClient(DefaultBaseURL, 10*time.Second, 300*time.Millisecond,
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_LookupPostalCode(t *testing.T) {
	c := smokeClient()

	addr, err := c.LookupPostalCode(context.Background(), "01310-100")
	require.NoError(t, err)

	assert.Contains(t, addr.Street, "Paulista")
	assert.Equal(t, "São Paulo", addr.City)
}

func TestSmoke_UnknownPostalCode(t *testing.T) {
	c := smokeClient()

	_, err := c.LookupPostalCode(context.Background(), "99999999")
	require.Error(t, err)
}

func TestSmoke_Probe(t *testing.T) {
	require.NoError(t, NewProber("https://viacep.com.br", 5*time.Second).Probe(context.Background()))
}

func TestSmoke_Memo(t *testing.T) {
	memo := NewMemo(smokeClient(), 10, observability.NewMetricsForTesting())

	a1, err := memo.LookupPostalCode(context.Background(), "12227010")
	require.NoError(t, err)
	a2, err := memo.LookupPostalCode(context.Background(), "12227010")
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
}
