package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.CulvertsClassified.WithLabelValues("matched").Add(2)
	assert.InDelta(t, 2.0, testutil.ToFloat64(a.CulvertsClassified.WithLabelValues("matched")), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.CulvertsClassified.WithLabelValues("matched")), 0)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RowsLoaded.WithLabelValues("culverts").Add(12)
	m.MaxReturnPeriod.WithLabelValues("current").Observe(25)

	path := filepath.Join(t.TempDir(), "culverts.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `culverts_rows_loaded_total{table="culverts"} 12`)
	assert.Contains(t, string(data), `culverts_max_return_period_years_bucket{scenario="current",le="25"} 1`)
}

func TestMetrics_WriteTextfileBadPath(t *testing.T) {
	m := NewMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	require.Error(t, err)
}
