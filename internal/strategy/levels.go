package strategy

import (
	"github.com/shopspring/decimal"
)

// Multipliers applied to the volatility estimate.
const (
	EntrySlippage  = 1.001
	StopMultiple   = 2
	TargetMultiple = 3
)

// Levels are the trade prices attached to a signal, rounded to 2 decimals.
type Levels struct {
	Entry      float64
	StopLoss   float64
	Target     float64
	Volatility float64 // unrounded estimate the stop and target were derived from
}

// Volatility returns ATR when defined, else the sample deviation of daily
// returns scaled to price, else 0.
func (s Snapshot) Volatility() float64 {
	if defined(s.ATR) {
		return s.ATR
	}
	if defined(s.ReturnStdDev) {
		return s.ReturnStdDev * s.Close
	}
	return 0
}

// ComputeLevels derives entry, stop and target from the latest close.
func ComputeLevels(s Snapshot) Levels {
	vol := s.Volatility()
	c := decimal.NewFromFloat(s.Close)
	v := decimal.NewFromFloat(vol)

	return Levels{
		Entry:      round2(c.Mul(decimal.NewFromFloat(EntrySlippage))),
		StopLoss:   round2(c.Sub(v.Mul(decimal.NewFromInt(StopMultiple)))),
		Target:     round2(c.Add(v.Mul(decimal.NewFromInt(TargetMultiple)))),
		Volatility: vol,
	}
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
