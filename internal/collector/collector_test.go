package collector

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// weekdays builds n consecutive weekday bars ending on a Friday.
func weekdays(n int) model.BarSeries {
	end := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	var out []model.Bar
	for d := end; len(out) < n; d = d.AddDate(0, 0, -1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := 100 + float64(n-len(out))
		out = append(out, model.Bar{Time: d, Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 1000})
	}
	return model.Normalize(out)
}

func TestResampleWeekly(t *testing.T) {
	daily := weekdays(10)
	weekly := ResampleWeekly(daily)
	require.Len(t, weekly, 2)

	first := weekly[0]
	assert.Equal(t, daily[0].Time, first.Time)
	assert.Equal(t, daily[0].Open, first.Open)
	assert.Equal(t, daily[4].Close, first.Close)
	assert.Equal(t, 5000.0, first.Volume)
	assert.Equal(t, daily[4].High, first.High)
	assert.Equal(t, daily[0].Low, first.Low)

	assert.Nil(t, ResampleWeekly(nil))
}

type mapSource map[model.Interval]model.BarSeries

func (m mapSource) Fetch(_ context.Context, _ string, interval model.Interval, _ int) (model.BarSeries, bool) {
	s, ok := m[interval]
	return s, ok && len(s) > 0
}

func TestCollector_ResamplesWhenWeeklyMissing(t *testing.T) {
	src := mapSource{model.IntervalDaily: weekdays(60)}
	c := NewCollector(src, 365, 1095, zerolog.Nop())

	frames, err := c.Collect(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.True(t, frames.WeeklyResampled)
	assert.Equal(t, 60, frames.Daily.Len())
	assert.Equal(t, 12, frames.Weekly.Len())
	assert.Len(t, frames.Daily.RSI, 60)
	assert.False(t, math.IsNaN(model.Latest(frames.Daily.SMALong)))
}

func TestCollector_ResamplesSingleWeeklyBar(t *testing.T) {
	src := mapSource{
		model.IntervalDaily:  weekdays(10),
		model.IntervalWeekly: weekdays(1),
	}
	frames, err := NewCollector(src, 365, 1095, zerolog.Nop()).Collect(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.True(t, frames.WeeklyResampled)
	assert.Equal(t, 2, frames.Weekly.Len())
}

func TestCollector_UsesFetchedWeekly(t *testing.T) {
	src := mapSource{
		model.IntervalDaily:  weekdays(10),
		model.IntervalWeekly: weekdays(3),
	}
	frames, err := NewCollector(src, 365, 1095, zerolog.Nop()).Collect(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.False(t, frames.WeeklyResampled)
	assert.Equal(t, 3, frames.Weekly.Len())
}

func TestCollector_NoDaily(t *testing.T) {
	_, err := NewCollector(mapSource{}, 365, 1095, zerolog.Nop()).Collect(context.Background(), "XYZ")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMockFetcher_BreakoutOnLastBar(t *testing.T) {
	m := &MockFetcher{Price: 200, Now: fixedNow}
	bars, err := m.FetchDailyBars(context.Background(), "X", 100)
	require.NoError(t, err)
	require.Len(t, bars, 100)
	last, prev := bars[len(bars)-1], bars[len(bars)-2]
	assert.Greater(t, last.Close, prev.High)
	assert.Greater(t, last.Volume, prev.Volume)

	weekly, err := m.FetchWeeklyBars(context.Background(), "X", 700)
	require.NoError(t, err)
	assert.Len(t, weekly, 100)
}
