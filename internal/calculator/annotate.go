package calculator

import (
	"math"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// Annotate computes the default indicator battery over series.
func Annotate(series model.BarSeries) *model.Frame {
	return AnnotateWith(series, DefaultParams())
}

// AnnotateWith computes every indicator column over series using p. It is
// pure: series is not modified and identical input yields identical output.
// Columns whose window exceeds the series length are entirely NaN.
func AnnotateWith(series model.BarSeries, p Params) *model.Frame {
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()

	f := &model.Frame{Bars: series}
	f.SMAShort = SMA(closes, p.ShortWindow)
	f.SMALong = SMA(closes, p.LongWindow)
	f.EMAShort = EMA(closes, p.ShortWindow)
	f.EMALong = EMA(closes, p.LongWindow)
	f.MACD, f.MACDSignal = MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	f.RSI = RSI(closes, p.RSIPeriod)
	f.ATR = ATR(highs, lows, closes, p.ATRPeriod)
	f.BBUpper, f.BBMiddle, f.BBLower = Bands(closes, p.BandWindow, p.BandWidth)
	f.VWAP = RollingVWAP(highs, lows, closes, volumes, p.VWAPWindow)
	f.VolumeAvg = SMA(volumes, p.VolumeWindow)
	return f
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// masked runs fn only when the input holds more than lookback values and
// overwrites the warm-up entries with NaN.
func masked(n, lookback int, fn func() []float64) []float64 {
	if lookback < 0 || n <= lookback {
		return nanSeries(n)
	}
	out := fn()
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

// IsDefined reports whether v is a usable indicator value.
func IsDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
