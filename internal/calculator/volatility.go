package calculator

import (
	"github.com/markcheno/go-talib"
)

// ATR returns the Wilder-averaged true range over period.
func ATR(highs, lows, closes []float64, period int) []float64 {
	if period < 2 {
		return nanSeries(len(closes))
	}
	return masked(len(closes), period, func() []float64 {
		return talib.Atr(highs, lows, closes, period)
	})
}

// Bands returns Bollinger bands: a simple moving average with envelopes width
// standard deviations above and below.
func Bands(closes []float64, period int, width float64) (upper, middle, lower []float64) {
	n := len(closes)
	if period < 2 || n < period {
		return nanSeries(n), nanSeries(n), nanSeries(n)
	}
	upper, middle, lower = talib.BBands(closes, period, width, width, talib.SMA)
	for i := 0; i < period-1; i++ {
		upper[i], middle[i], lower[i] = nan, nan, nan
	}
	return upper, middle, lower
}

// RollingVWAP returns the rolling volume-weighted typical price:
// sum(typical*volume) / sum(volume) over window. Windows with zero total
// volume are NaN.
func RollingVWAP(highs, lows, closes, volumes []float64, window int) []float64 {
	n := len(closes)
	if window <= 0 || n < window {
		return nanSeries(n)
	}
	weighted := make([]float64, n)
	for i := range closes {
		typical := (highs[i] + lows[i] + closes[i]) / 3
		weighted[i] = typical * volumes[i]
	}

	num := talib.Sum(weighted, window)
	den := talib.Sum(volumes, window)
	out := nanSeries(n)
	for i := window - 1; i < n; i++ {
		if den[i] > 0 {
			out[i] = num[i] / den[i]
		}
	}
	return out
}
