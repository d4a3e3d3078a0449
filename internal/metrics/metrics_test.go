package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveFetch("nse", "error", 120*time.Millisecond)
	r.ObserveFetch("yahoo", "ok", 80*time.Millisecond)
	r.ObserveFetch("yahoo", "ok", 90*time.Millisecond)
	r.RecordTicker("signal")
	r.RecordTicker("skipped")
	r.RecordSignal("TCS.NS", "long", 0.9)
	r.RecordRun("ok", 1, 2*time.Second, time.Unix(1718330000, 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetches.WithLabelValues("yahoo", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("nse", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tickers.WithLabelValues("skipped")))
	assert.Equal(t, 0.9, testutil.ToFloat64(r.lastConfidence.WithLabelValues("TCS.NS")))
	assert.Equal(t, 1718330000.0, testutil.ToFloat64(r.lastRun))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
