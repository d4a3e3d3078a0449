package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

func rising(n int) model.BarSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make(model.BarSeries, n)
	for i := range out {
		p := 100 + float64(i)
		out[i] = model.Bar{Time: start.AddDate(0, 0, i), Open: p - 0.5, High: p + 1, Low: p - 1, Close: p, Volume: 1000 + float64(i)}
	}
	return out
}

func countNaN(col []float64) int {
	n := 0
	for _, v := range col {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

func TestAnnotate_ColumnsAlignedWithWarmUp(t *testing.T) {
	s := rising(120)
	f := Annotate(s)
	require.Equal(t, 120, f.Len())

	cols := map[string][]float64{
		"sma_short": f.SMAShort, "sma_long": f.SMALong, "ema_short": f.EMAShort, "ema_long": f.EMALong,
		"macd": f.MACD, "macd_signal": f.MACDSignal, "rsi": f.RSI, "atr": f.ATR,
		"bb_upper": f.BBUpper, "bb_middle": f.BBMiddle, "bb_lower": f.BBLower,
		"vwap": f.VWAP, "volume_avg": f.VolumeAvg,
	}
	for name, col := range cols {
		assert.Len(t, col, 120, name)
	}

	assert.Equal(t, 19, countNaN(f.SMAShort))
	assert.Equal(t, 49, countNaN(f.SMALong))
	assert.Equal(t, 19, countNaN(f.EMAShort))
	assert.Equal(t, 25, countNaN(f.MACD))
	assert.Equal(t, 25+8, countNaN(f.MACDSignal))
	assert.Equal(t, 14, countNaN(f.RSI))
	assert.Equal(t, 14, countNaN(f.ATR))
	assert.Equal(t, 19, countNaN(f.BBMiddle))
	assert.Equal(t, 19, countNaN(f.VWAP))
	assert.Equal(t, 19, countNaN(f.VolumeAvg))
}

func TestAnnotate_Values(t *testing.T) {
	f := Annotate(rising(120))
	last := 119

	// mean of closes 200..219
	assert.InDelta(t, 209.5, f.SMAShort[last], 1e-9)
	assert.InDelta(t, 194.5, f.SMALong[last], 1e-9)
	assert.Greater(t, f.EMAShort[last], f.EMALong[last])
	assert.Greater(t, f.MACD[last], 0.0)
	// strictly rising closes have no losses
	assert.InDelta(t, 100, f.RSI[last], 1e-6)
	// true range is the constant 2.0 high-low span
	assert.InDelta(t, 2.0, f.ATR[last], 1e-9)
	assert.Greater(t, f.BBUpper[last], f.BBMiddle[last])
	assert.Less(t, f.BBLower[last], f.BBMiddle[last])
	assert.InDelta(t, f.SMAShort[last], f.BBMiddle[last], 1e-9)
	assert.InDelta(t, 1000+109.5, f.VolumeAvg[last], 1e-9)
	assert.InDelta(t, 209.5, f.VWAP[last], 0.1)
}

func TestAnnotate_ShortSeriesIsAllNaN(t *testing.T) {
	f := Annotate(rising(10))
	assert.Equal(t, 10, countNaN(f.SMAShort))
	assert.Equal(t, 10, countNaN(f.EMALong))
	assert.Equal(t, 10, countNaN(f.MACD))
	assert.Equal(t, 10, countNaN(f.RSI))
	assert.Equal(t, 10, countNaN(f.ATR))
	assert.Equal(t, 10, countNaN(f.BBUpper))
	assert.Equal(t, 10, countNaN(f.VWAP))

	empty := Annotate(nil)
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.RSI)
}

func TestAnnotate_Deterministic(t *testing.T) {
	s := rising(80)
	a, b := Annotate(s), Annotate(s)
	assert.Equal(t, a.MACD[79], b.MACD[79])
	assert.Equal(t, a.RSI[79], b.RSI[79])
	assert.Equal(t, 179.0, s[79].Close, "input is not modified")
}

func TestRollingVWAP_ZeroVolumeIsNaN(t *testing.T) {
	h := []float64{2, 2, 2}
	l := []float64{1, 1, 1}
	c := []float64{1.5, 1.5, 1.5}
	v := []float64{0, 0, 0}
	out := RollingVWAP(h, l, c, v, 2)
	assert.Equal(t, 3, countNaN(out))
}

func TestPctChange(t *testing.T) {
	out := PctChange([]float64{100, 110, 0, 5})
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 0.10, out[1], 1e-12)
	assert.InDelta(t, -1.0, out[2], 1e-12)
	assert.True(t, math.IsNaN(out[3]))
}

func TestSampleStdDev(t *testing.T) {
	assert.InDelta(t, 1.0, SampleStdDev([]float64{math.NaN(), 1, 2, 3}), 1e-12)
	assert.True(t, math.IsNaN(SampleStdDev([]float64{math.NaN(), 1})))
	assert.False(t, IsDefined(math.Inf(1)))
	assert.True(t, IsDefined(0))
}
