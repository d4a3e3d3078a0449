package calculator

import (
	"github.com/markcheno/go-talib"
)

// SMA returns the simple moving average of values over period.
func SMA(values []float64, period int) []float64 {
	if period <= 0 {
		return nanSeries(len(values))
	}
	return masked(len(values), period-1, func() []float64 {
		return talib.Sma(values, period)
	})
}

// EMA returns the exponential moving average of values, seeded with the
// simple average of the first period values.
func EMA(values []float64, period int) []float64 {
	if period <= 0 {
		return nanSeries(len(values))
	}
	return masked(len(values), period-1, func() []float64 {
		return talib.Ema(values, period)
	})
}
