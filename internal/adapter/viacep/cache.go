package viacep

import (
	"context"

	"github.com/bluele/gcache"
	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/couchcryptid/route-formatter/internal/observability"
)

// Memo wraps an AddressLookup with an LRU memo keyed by postal code digits.
// A Memo belongs to a single run: create one per upload with NewMemo.
// Failures are memoized too, so a bad code costs one request per run.
type Memo struct {
	inner   domain.AddressLookup
	cache   gcache.Cache
	metrics *observability.Metrics
}

type memoEntry struct {
	addr domain.Address
	err  error
}

// NewMemo creates a memo decorator around a lookup.
func NewMemo(inner domain.AddressLookup, maxEntries int, metrics *observability.Metrics) *Memo {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Memo{
		inner:   inner,
		cache:   gcache.New(maxEntries).LRU().Build(),
		metrics: metrics,
	}
}

func (m *Memo) LookupPostalCode(ctx context.Context, code string) (domain.Address, error) {
	key := domain.PostalCodeDigits(code)
	if key == "" {
		return domain.Address{}, nil
	}
	if v, err := m.cache.Get(key); err == nil {
		m.metrics.LookupCache.WithLabelValues("hit").Inc()
		e := v.(memoEntry)
		return e.addr, e.err
	}
	m.metrics.LookupCache.WithLabelValues("miss").Inc()

	addr, err := m.inner.LookupPostalCode(ctx, key)
	_ = m.cache.Set(key, memoEntry{addr: addr, err: err})
	return addr, err
}
