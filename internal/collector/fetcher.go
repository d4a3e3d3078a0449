package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

var (
	// ErrNoData is returned when a source answers successfully but carries no usable bars.
	ErrNoData = errors.New("no data returned")
	// ErrUnsupportedSymbol is returned when a source cannot serve the ticker's exchange.
	ErrUnsupportedSymbol = errors.New("unsupported symbol")
)

// HTTPStatusError reports a non-2xx response from a data source.
type HTTPStatusError struct {
	Source string
	Status int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("%s: status %d, body: %s", e.Source, e.Status, e.Body)
}

// Fetcher defines the interface for fetching market data from one source.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, ticker string, days int) (model.BarSeries, error)
	FetchWeeklyBars(ctx context.Context, ticker string, days int) (model.BarSeries, error)
	Name() string
}

// BarSource yields a normalized series for ticker or reports absence.
type BarSource interface {
	Fetch(ctx context.Context, ticker string, interval model.Interval, days int) (model.BarSeries, bool)
}

func fetchInterval(ctx context.Context, f Fetcher, ticker string, interval model.Interval, days int) (model.BarSeries, error) {
	switch interval {
	case model.IntervalDaily:
		return f.FetchDailyBars(ctx, ticker, days)
	case model.IntervalWeekly:
		return f.FetchWeeklyBars(ctx, ticker, days)
	default:
		return nil, fmt.Errorf("unknown interval %q", interval)
	}
}
