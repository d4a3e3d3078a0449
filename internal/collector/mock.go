package collector

import (
	"context"
	"time"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// With no fixed data it synthesizes a gently rising series whose final bar
// breaks out on heavy volume.
type MockFetcher struct {
	Price      float64
	DailyData  model.BarSeries
	WeeklyData model.BarSeries
	Err        error
	Now        func() time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) (model.BarSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, days, 24*time.Hour, m.now()), nil
}

func (m *MockFetcher) FetchWeeklyBars(_ context.Context, _ string, days int) (model.BarSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.WeeklyData != nil {
		return m.WeeklyData, nil
	}
	return generateMockBars(m.Price, days/7, 7*24*time.Hour, m.now()), nil
}

func (m *MockFetcher) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func generateMockBars(basePrice float64, count int, step time.Duration, end time.Time) model.BarSeries {
	if count <= 0 {
		return nil
	}
	if basePrice <= 0 {
		basePrice = 100
	}
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		vol := 1_000_000.0
		high := p * 1.005
		if i == count-1 && i > 0 {
			// breakout bar: close clears the prior high on a volume spike
			p = bars[i-1].High * 1.01
			high = p * 1.002
			vol *= 2
		}
		bars[i] = model.Bar{
			Time:   end.Add(-time.Duration(count-1-i) * step),
			Open:   p * 0.999,
			High:   high,
			Low:    p * 0.995,
			Close:  p,
			Volume: vol,
		}
	}
	return model.Normalize(bars)
}
