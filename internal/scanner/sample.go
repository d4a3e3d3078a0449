package scanner

import (
	"context"
	"time"

	"github.com/breakoutsentinel/sentinel/internal/collector"
	"github.com/breakoutsentinel/sentinel/internal/model"
)

// sampleSource serves synthetic breakout series, one base price per ticker.
type sampleSource struct {
	prices map[string]float64
	now    func() time.Time
}

func (s sampleSource) Fetch(ctx context.Context, ticker string, interval model.Interval, days int) (model.BarSeries, bool) {
	m := &collector.MockFetcher{Price: s.prices[ticker], Now: s.now}
	var (
		bars model.BarSeries
		err  error
	)
	switch interval {
	case model.IntervalDaily:
		bars, err = m.FetchDailyBars(ctx, ticker, days)
	case model.IntervalWeekly:
		bars, err = m.FetchWeeklyBars(ctx, ticker, days)
	}
	return bars, err == nil && len(bars) > 0
}

// GenerateSample runs the pipeline over synthetic data for the configured
// universe and persists the result like a regular run. It lets the
// dashboard be exercised without network access.
func (s *Scanner) GenerateSample(ctx context.Context, dailyDays, weeklyDays int) (*Report, error) {
	prices := make(map[string]float64, len(s.opts.Universe))
	for i, t := range s.opts.Universe {
		prices[t] = 100 + 50*float64(i)
	}
	src := sampleSource{prices: prices, now: s.now}

	col := collector.NewCollector(src, dailyDays, weeklyDays, s.log)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execute(ctx, TriggerSample, col)
}
