package calculator

import "math"

var nan = math.NaN()

// PctChange returns the fractional change between consecutive values. The
// first entry, and any entry whose predecessor is zero, is NaN.
func PctChange(values []float64) []float64 {
	out := nanSeries(len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			out[i] = values[i]/values[i-1] - 1
		}
	}
	return out
}

// SampleStdDev returns the sample (n-1) standard deviation of the defined
// entries of values, or NaN when fewer than two are defined.
func SampleStdDev(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if IsDefined(v) {
			sum += v
			n++
		}
	}
	if n < 2 {
		return math.NaN()
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range values {
		if IsDefined(v) {
			d := v - mean
			ss += d * d
		}
	}
	return math.Sqrt(ss / float64(n-1))
}
