package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	bars := []Bar{
		{Time: time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC), Close: 3},
		{Time: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), Close: 1},
		{Time: time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC), Close: 2},
		{Time: time.Date(2024, 3, 7, 4, 0, 0, 0, ist), Close: 4},
	}
	out := Normalize(bars)
	require.Len(t, out, 3)
	assert.Equal(t, 1.0, out[0].Close)
	// both 2024-03-05 bars collapse; stable sort keeps input order so the later input wins
	assert.Equal(t, 2.0, out[1].Close)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), out[2].Time)
	assert.Equal(t, time.UTC, out[2].Time.Location())

	assert.Nil(t, Normalize(nil))
	assert.Equal(t, 3.0, bars[0].Close, "input is not modified")
}

func TestBarSeriesHelpers(t *testing.T) {
	s := BarSeries{
		{High: 2, Low: 1, Close: 1.5, Volume: 10},
		{High: 3, Low: 2, Close: 2.5, Volume: 20},
		{High: 4, Low: 3, Close: 3.5, Volume: 30},
	}
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, s.Closes())
	assert.Equal(t, []float64{2, 3, 4}, s.Highs())
	assert.Equal(t, []float64{1, 2, 3}, s.Lows())
	assert.Equal(t, []float64{10, 20, 30}, s.Volumes())
	assert.Len(t, s.Last(2), 2)
	assert.Equal(t, 3.5, s.Last(2)[1].Close)
	assert.Len(t, s.Last(10), 3)
}

func TestFrameAccessors(t *testing.T) {
	var f *Frame
	assert.Equal(t, 0, f.Len())

	col := []float64{1, 2, 3}
	assert.Equal(t, 3.0, Latest(col))
	assert.Equal(t, 2.0, At(col, 1))
	assert.True(t, math.IsNaN(At(col, 5)))
	assert.True(t, math.IsNaN(At(col, -1)))
	assert.True(t, math.IsNaN(Latest(nil)))
}

func TestHoldingDurationValid(t *testing.T) {
	assert.True(t, HoldingLong.Valid())
	assert.True(t, HoldingShort.Valid())
	assert.False(t, HoldingDuration("forever").Valid())
}
