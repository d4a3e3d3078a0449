package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// Fetch outcomes reported to a FetchObserver.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// FetchObserver receives one event per source attempt.
type FetchObserver interface {
	ObserveFetch(source, outcome string, elapsed time.Duration)
}

// Chain tries capability-equivalent fetchers in order and returns the first
// non-empty series. It never returns an error: exhausting every fetcher is
// reported as absence.
type Chain struct {
	fetchers []Fetcher
	log      zerolog.Logger
	observer FetchObserver
}

// NewChain creates a fallback chain over fetchers, tried in the given order.
func NewChain(log zerolog.Logger, fetchers ...Fetcher) *Chain {
	return &Chain{
		fetchers: fetchers,
		log:      log.With().Str("component", "collector").Logger(),
	}
}

// WithObserver attaches a metrics observer.
func (c *Chain) WithObserver(o FetchObserver) *Chain {
	c.observer = o
	return c
}

// Names returns the fetcher names in fallback order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.fetchers))
	for i, f := range c.fetchers {
		names[i] = f.Name()
	}
	return names
}

// Fetch implements BarSource.
func (c *Chain) Fetch(ctx context.Context, ticker string, interval model.Interval, days int) (model.BarSeries, bool) {
	for _, f := range c.fetchers {
		start := time.Now()
		bars, err := attempt(ctx, f, ticker, interval, days)
		elapsed := time.Since(start)

		switch {
		case err != nil:
			c.observe(f.Name(), OutcomeError, elapsed)
			c.log.Warn().Err(err).Str("source", f.Name()).Str("ticker", ticker).
				Str("interval", string(interval)).Msg("source failed, trying next")
		case len(bars) == 0:
			c.observe(f.Name(), OutcomeEmpty, elapsed)
			c.log.Warn().Str("source", f.Name()).Str("ticker", ticker).
				Str("interval", string(interval)).Msg("source returned no bars, trying next")
		default:
			c.observe(f.Name(), OutcomeOK, elapsed)
			c.log.Debug().Str("source", f.Name()).Str("ticker", ticker).
				Str("interval", string(interval)).Int("bars", len(bars)).Msg("fetched")
			return bars, true
		}
		if ctx.Err() != nil {
			break
		}
	}
	c.log.Warn().Str("ticker", ticker).Str("interval", string(interval)).Msg("all sources exhausted")
	return nil, false
}

// attempt calls one fetcher, converting a panic into an error.
func attempt(ctx context.Context, f Fetcher, ticker string, interval model.Interval, days int) (bars model.BarSeries, err error) {
	defer func() {
		if r := recover(); r != nil {
			bars, err = nil, fmt.Errorf("%s panicked: %v", f.Name(), r)
		}
	}()
	return fetchInterval(ctx, f, ticker, interval, days)
}

func (c *Chain) observe(source, outcome string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveFetch(source, outcome, elapsed)
	}
}

// SourceReport is the per-fetcher outcome of a diagnostic probe.
type SourceReport struct {
	Source  string        `json:"source"`
	Rows    int           `json:"rows"`
	Err     string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Diagnose queries every fetcher for daily bars without falling back, so the
// caller can see which sources serve ticker.
func (c *Chain) Diagnose(ctx context.Context, ticker string, days int) []SourceReport {
	reports := make([]SourceReport, 0, len(c.fetchers))
	for _, f := range c.fetchers {
		start := time.Now()
		bars, err := attempt(ctx, f, ticker, model.IntervalDaily, days)
		r := SourceReport{Source: f.Name(), Rows: len(bars), Elapsed: time.Since(start)}
		if err != nil {
			r.Err = err.Error()
		}
		reports = append(reports, r)
	}
	return reports
}
