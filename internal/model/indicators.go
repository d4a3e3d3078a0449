package model

import "math"

// Frame is a BarSeries extended with indicator columns sharing its index.
// Every column has len(Bars) entries; entries whose lookback window is not
// yet satisfied hold NaN.
type Frame struct {
	Bars BarSeries

	SMAShort   []float64
	SMALong    []float64
	EMAShort   []float64
	EMALong    []float64
	MACD       []float64
	MACDSignal []float64
	RSI        []float64
	ATR        []float64
	BBUpper    []float64
	BBMiddle   []float64
	BBLower    []float64
	VWAP       []float64
	VolumeAvg  []float64
}

// Len returns the number of bars in the frame.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Bars)
}

// At returns column[i], or NaN when i is out of range.
func At(column []float64, i int) float64 {
	if i < 0 || i >= len(column) {
		return math.NaN()
	}
	return column[i]
}

// Latest returns the last entry of column, or NaN for an empty column.
func Latest(column []float64) float64 {
	return At(column, len(column)-1)
}
