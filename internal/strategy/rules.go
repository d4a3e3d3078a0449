package strategy

import "math"

var nan = math.NaN()

// Rule is one weighted predicate of the confidence score. When Eval holds,
// Weight is added and Reason recorded; otherwise Penalty is subtracted and
// PenaltyReason recorded (a zero Penalty means the rule simply abstains).
type Rule struct {
	Name          string
	Weight        float64
	Reason        string
	Penalty       float64
	PenaltyReason string
	Eval          func(Snapshot) bool
}

// Thresholds shared by the default rule set.
const (
	MomentumThreshold = 55.0
	VolumeMultiplier  = 1.2
	ReversalThreshold = -0.05
)

// DefaultRules is the breakout/momentum rule set in evaluation order.
var DefaultRules = []Rule{
	{
		Name:   "daily_breakout",
		Weight: 0.20,
		Reason: "daily breakout above previous high",
		Eval:   Snapshot.DailyBreakout,
	},
	{
		Name:   "weekly_breakout",
		Weight: 0.35,
		Reason: "weekly breakout above previous week's high",
		Eval:   Snapshot.WeeklyBreakout,
	},
	{
		Name:   "momentum",
		Weight: 0.15,
		Reason: "RSI above 55",
		Eval: func(s Snapshot) bool {
			return defined(s.RSI) && s.RSI > MomentumThreshold
		},
	},
	{
		Name:   "macd_positive",
		Weight: 0.10,
		Reason: "MACD above signal line",
		Eval:   Snapshot.MACDPositive,
	},
	{
		Name:   "ema_uptrend",
		Weight: 0.10,
		Reason: "EMA20 above EMA50",
		Eval:   Snapshot.Uptrend,
	},
	{
		// an undefined or zero VWAP counts as satisfied
		Name:   "above_vwap",
		Weight: 0.05,
		Reason: "price above VWAP",
		Eval: func(s Snapshot) bool {
			if !defined(s.VWAP) || s.VWAP == 0 {
				return true
			}
			return s.Close/s.VWAP > 1
		},
	},
	{
		Name:          "volume_confirmation",
		Weight:        0.15,
		Reason:        "volume above 1.2x 20-day average",
		Penalty:       0.10,
		PenaltyReason: "weak volume, possible fakeout",
		Eval: func(s Snapshot) bool {
			return defined(s.Volume, s.VolumeAvg) && s.Volume > VolumeMultiplier*s.VolumeAvg
		},
	},
	{
		Name:   "reversal_guard",
		Weight: -0.15,
		Reason: "sharp reversal over last 3 sessions",
		Eval: func(s Snapshot) bool {
			return defined(s.RecentChange) && s.RecentChange <= ReversalThreshold
		},
	},
}
