package collector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/breakoutsentinel/sentinel/internal/calculator"
	"github.com/breakoutsentinel/sentinel/internal/model"
)

// Frames holds the annotated daily and weekly views of one ticker.
type Frames struct {
	Daily  *model.Frame
	Weekly *model.Frame
	// WeeklyResampled is set when the weekly frame was built from daily bars.
	WeeklyResampled bool
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Source     BarSource
	DailyDays  int
	WeeklyDays int
	Params     calculator.Params
	Log        zerolog.Logger
}

// NewCollector creates a Collector with the default indicator parameters.
func NewCollector(source BarSource, dailyDays, weeklyDays int, log zerolog.Logger) *Collector {
	return &Collector{
		Source:     source,
		DailyDays:  dailyDays,
		WeeklyDays: weeklyDays,
		Params:     calculator.DefaultParams(),
		Log:        log.With().Str("component", "collector").Logger(),
	}
}

// Collect fetches daily and weekly bars for ticker and computes all
// indicators. A missing daily series is an error. A missing or single-bar
// weekly series is replaced by the daily series resampled to weeks.
func (c *Collector) Collect(ctx context.Context, ticker string) (*Frames, error) {
	daily, ok := c.Source.Fetch(ctx, ticker, model.IntervalDaily, c.DailyDays)
	if !ok || len(daily) == 0 {
		return nil, fmt.Errorf("fetch daily bars for %s: %w", ticker, ErrNoData)
	}

	out := &Frames{}
	weekly, ok := c.Source.Fetch(ctx, ticker, model.IntervalWeekly, c.WeeklyDays)
	if !ok || len(weekly) < 2 {
		c.Log.Debug().Str("ticker", ticker).Int("weekly_bars", len(weekly)).
			Msg("weekly series unavailable, resampling daily")
		weekly = ResampleWeekly(daily)
		out.WeeklyResampled = true
	}

	out.Daily = calculator.AnnotateWith(daily, c.Params)
	out.Weekly = calculator.AnnotateWith(weekly, c.Params)
	return out, nil
}
