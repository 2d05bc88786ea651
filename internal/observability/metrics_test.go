package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWith_RegistersAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	m.RunsTotal.WithLabelValues("success").Inc()
	m.LookupRequests.WithLabelValues("success").Inc()
	m.LookupCache.WithLabelValues("hit").Inc()
	m.RunDuration.WithLabelValues("xlsx").Observe(0.2)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "route_formatter_runs_total")
	assert.Contains(t, names, "route_formatter_lookup_cache_total")
	assert.Contains(t, names, "route_formatter_run_duration_seconds")
	assert.Contains(t, names, "route_formatter_rows_read_total")
}

func TestNewMetricsWith_DuplicatePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetricsWith(reg)

	assert.Panics(t, func() { NewMetricsWith(reg) })
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.RowsRead.Add(3)

	assert.InDelta(t, 3, testutil.ToFloat64(a.RowsRead), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.RowsRead), 0)
}
