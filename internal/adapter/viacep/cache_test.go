package viacep

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for memo tests ---

type countingLookup struct {
	calls  map[string]int
	result domain.Address
	err    error
}

func (m *countingLookup) LookupPostalCode(_ context.Context, code string) (domain.Address, error) {
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[code]++
	return m.result, m.err
}

// --- Memo tests ---

func TestMemo_Hit(t *testing.T) {
	inner := &countingLookup{result: domain.Address{City: "Jacareí"}}
	memo := NewMemo(inner, 10, testMetrics())

	a1, err := memo.LookupPostalCode(context.Background(), "12327-000")
	require.NoError(t, err)
	a2, err := memo.LookupPostalCode(context.Background(), "12327000")
	require.NoError(t, err)

	assert.Equal(t, "Jacareí", a1.City)
	assert.Equal(t, a1, a2)
	assert.Equal(t, 1, inner.calls["12327000"], "should only call inner once")
}

func TestMemo_FailuresAreMemoized(t *testing.T) {
	inner := &countingLookup{err: errors.New("status 400")}
	memo := NewMemo(inner, 10, testMetrics())

	_, err1 := memo.LookupPostalCode(context.Background(), "99999999")
	_, err2 := memo.LookupPostalCode(context.Background(), "99999999")

	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, 1, inner.calls["99999999"])
}

func TestMemo_DifferentKeysMiss(t *testing.T) {
	inner := &countingLookup{result: domain.Address{City: "X"}}
	memo := NewMemo(inner, 10, testMetrics())

	_, _ = memo.LookupPostalCode(context.Background(), "12210000")
	_, _ = memo.LookupPostalCode(context.Background(), "12220000")

	assert.Len(t, inner.calls, 2)
}

func TestMemo_MalformedCodeBypassesInner(t *testing.T) {
	inner := &countingLookup{}
	memo := NewMemo(inner, 10, testMetrics())

	addr, err := memo.LookupPostalCode(context.Background(), "123")
	require.NoError(t, err)
	assert.True(t, addr.IsEmpty())
	assert.Empty(t, inner.calls)
}

func TestMemo_EvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingLookup{result: domain.Address{City: "X"}}
	memo := NewMemo(inner, 2, testMetrics())
	ctx := context.Background()

	_, _ = memo.LookupPostalCode(ctx, "11111111")
	_, _ = memo.LookupPostalCode(ctx, "22222222")
	_, _ = memo.LookupPostalCode(ctx, "11111111") // promote
	_, _ = memo.LookupPostalCode(ctx, "33333333") // evicts 22222222
	_, _ = memo.LookupPostalCode(ctx, "11111111")
	_, _ = memo.LookupPostalCode(ctx, "22222222")

	assert.Equal(t, 1, inner.calls["11111111"])
	assert.Equal(t, 2, inner.calls["22222222"])
}

func TestMemo_IsScopedToInstance(t *testing.T) {
	inner := &countingLookup{result: domain.Address{City: "X"}}

	_, _ = NewMemo(inner, 10, testMetrics()).LookupPostalCode(context.Background(), "12210000")
	_, _ = NewMemo(inner, 10, testMetrics()).LookupPostalCode(context.Background(), "12210000")

	assert.Equal(t, 2, inner.calls["12210000"], "a new run starts with an empty memo")
}
