package model

import (
	"sort"
	"time"
)

// Interval is the bar timeframe requested from a data source.
type Interval string

const (
	IntervalDaily  Interval = "1d"
	IntervalWeekly Interval = "1wk"
)

// Bar represents a single trading session.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// BarSeries is an ordered, duplicate-free sequence of bars, oldest first.
// Downstream stages treat it as read-only.
type BarSeries []Bar

// Len returns the number of bars.
func (s BarSeries) Len() int { return len(s) }

// Closes returns the closing prices in series order.
func (s BarSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

func (s BarSeries) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

func (s BarSeries) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

func (s BarSeries) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// Last returns the most recent n bars (or fewer when the series is shorter).
func (s BarSeries) Last(n int) BarSeries {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Normalize returns a copy of bars truncated to UTC dates, sorted ascending
// and de-duplicated by date. When two bars share a date the later one wins.
func Normalize(bars []Bar) BarSeries {
	if len(bars) == 0 {
		return nil
	}
	tmp := make([]Bar, len(bars))
	for i, b := range bars {
		t := b.Time.UTC()
		b.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		tmp[i] = b
	}
	sort.SliceStable(tmp, func(i, j int) bool { return tmp[i].Time.Before(tmp[j].Time) })

	out := make(BarSeries, 0, len(tmp))
	for _, b := range tmp {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
