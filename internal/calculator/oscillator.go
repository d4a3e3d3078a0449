package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// MACD returns the trend oscillator (fast EMA minus slow EMA) and its signal
// line, an EMA of the oscillator over signal periods.
func MACD(closes []float64, fast, slow, signal int) (macd, sig []float64) {
	n := len(closes)
	macd = nanSeries(n)
	sig = nanSeries(n)
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return macd, sig
	}
	if slow < fast {
		fast, slow = slow, fast
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	start := slow - 1
	if n <= start {
		return macd, sig
	}
	for i := start; i < n; i++ {
		macd[i] = fastEMA[i] - slowEMA[i]
	}

	smoothed := EMA(macd[start:], signal)
	copy(sig[start:], smoothed)
	return macd, sig
}

// RSI returns the Wilder-smoothed relative strength index, bounded 0-100.
func RSI(closes []float64, period int) []float64 {
	if period < 2 {
		return nanSeries(len(closes))
	}
	out := masked(len(closes), period, func() []float64 {
		return talib.Rsi(closes, period)
	})
	for i, v := range out {
		if IsDefined(v) {
			out[i] = math.Max(0, math.Min(100, v))
		}
	}
	return out
}
