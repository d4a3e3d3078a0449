package strategy

import (
	"github.com/breakoutsentinel/sentinel/internal/calculator"
	"github.com/breakoutsentinel/sentinel/internal/model"
)

// reversalSessions is the number of most recent daily changes summed by the
// reversal guard.
const reversalSessions = 3

// Snapshot is the immutable view of one ticker's latest bars and indicator
// values that rules evaluate. Undefined indicators hold NaN.
type Snapshot struct {
	Close          float64
	PrevHigh       float64
	WeeklyClose    float64
	WeeklyPrevHigh float64

	RSI        float64
	MACD       float64
	MACDSignal float64
	EMAShort   float64
	EMALong    float64
	VWAP       float64
	ATR        float64
	Volume     float64
	VolumeAvg  float64

	// RecentChange is the summed fractional change over the last
	// reversalSessions daily closes.
	RecentChange float64
	// ReturnStdDev is the sample standard deviation of daily fractional returns.
	ReturnStdDev float64
}

// NewSnapshot extracts the latest values from daily and weekly. ok is false
// when either frame holds fewer than 2 bars.
func NewSnapshot(daily, weekly *model.Frame) (snap Snapshot, ok bool) {
	if daily.Len() < 2 || weekly.Len() < 2 {
		return Snapshot{}, false
	}
	d := daily.Len() - 1
	w := weekly.Len() - 1

	returns := calculator.PctChange(daily.Bars.Closes())
	recent := nan
	for _, r := range returns[max(len(returns)-reversalSessions, 0):] {
		if !calculator.IsDefined(r) {
			continue
		}
		if !calculator.IsDefined(recent) {
			recent = 0
		}
		recent += r
	}

	return Snapshot{
		Close:          daily.Bars[d].Close,
		PrevHigh:       daily.Bars[d-1].High,
		WeeklyClose:    weekly.Bars[w].Close,
		WeeklyPrevHigh: weekly.Bars[w-1].High,
		RSI:            model.Latest(daily.RSI),
		MACD:           model.Latest(daily.MACD),
		MACDSignal:     model.Latest(daily.MACDSignal),
		EMAShort:       model.Latest(daily.EMAShort),
		EMALong:        model.Latest(daily.EMALong),
		VWAP:           model.Latest(daily.VWAP),
		ATR:            model.Latest(daily.ATR),
		Volume:         daily.Bars[d].Volume,
		VolumeAvg:      model.Latest(daily.VolumeAvg),
		RecentChange:   recent,
		ReturnStdDev:   calculator.SampleStdDev(returns),
	}, true
}

// DailyBreakout reports whether the latest close cleared the previous session's high.
func (s Snapshot) DailyBreakout() bool { return s.Close > s.PrevHigh }

// WeeklyBreakout reports whether the latest weekly close cleared the previous week's high.
func (s Snapshot) WeeklyBreakout() bool { return s.WeeklyClose > s.WeeklyPrevHigh }

// MACDPositive reports whether the oscillator is above its signal line.
func (s Snapshot) MACDPositive() bool {
	return defined(s.MACD, s.MACDSignal) && s.MACD > s.MACDSignal
}

// Uptrend reports whether the short EMA is above the long EMA.
func (s Snapshot) Uptrend() bool {
	return defined(s.EMAShort, s.EMALong) && s.EMAShort > s.EMALong
}

func defined(values ...float64) bool {
	for _, v := range values {
		if !calculator.IsDefined(v) {
			return false
		}
	}
	return true
}
