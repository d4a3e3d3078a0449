package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes scan and fetch telemetry as Prometheus collectors.
type Recorder struct {
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	tickers        *prometheus.CounterVec
	signals        *prometheus.CounterVec
	lastSignals    prometheus.Gauge
	lastRun        prometheus.Gauge
	fetches        *prometheus.CounterVec
	fetchLatency   *prometheus.HistogramVec
	lastConfidence *prometheus.GaugeVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_runs_total",
				Help: "Total number of orchestrator runs by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sentinel_run_duration_seconds",
				Help:    "Wall time of a full universe scan",
				Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),
		tickers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_tickers_total",
				Help: "Tickers processed by result",
			},
			[]string{"result"},
		),
		signals: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_signals_emitted_total",
				Help: "Signals emitted by holding duration",
			},
			[]string{"holding"},
		),
		lastSignals: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentinel_last_run_signals",
				Help: "Number of signals in the latest snapshot",
			},
		),
		lastRun: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentinel_last_run_timestamp_seconds",
				Help: "Unix time the latest run finished",
			},
		),
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_source_fetches_total",
				Help: "Data source attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentinel_source_fetch_duration_seconds",
				Help:    "Duration of data source requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		lastConfidence: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sentinel_signal_confidence",
				Help: "Confidence of the latest signal per symbol",
			},
			[]string{"symbol"},
		),
	}
}

// ObserveFetch implements collector.FetchObserver.
func (r *Recorder) ObserveFetch(source, outcome string, elapsed time.Duration) {
	r.fetches.WithLabelValues(source, outcome).Inc()
	r.fetchLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// RecordTicker counts one ticker outcome ("signal", "no_signal", "skipped").
func (r *Recorder) RecordTicker(result string) {
	r.tickers.WithLabelValues(result).Inc()
}

// RecordSignal counts an emitted signal.
func (r *Recorder) RecordSignal(symbol, holding string, confidence float64) {
	r.signals.WithLabelValues(holding).Inc()
	r.lastConfidence.WithLabelValues(symbol).Set(confidence)
}

// RecordRun records a finished run.
func (r *Recorder) RecordRun(outcome string, signals int, elapsed time.Duration, finished time.Time) {
	r.runs.WithLabelValues(outcome).Inc()
	r.runDuration.Observe(elapsed.Seconds())
	r.lastSignals.Set(float64(signals))
	r.lastRun.Set(float64(finished.Unix()))
}
