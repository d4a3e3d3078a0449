package strategy

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// Timeframe is the label stamped on every emitted signal.
const Timeframe = "1d"

// MinConfidence is the accept bar; lower scores produce no signal.
const MinConfidence = 0.50

// Holding-duration cutoffs.
const (
	LongConfidence   = 0.70
	MediumConfidence = 0.80
)

// Holding rationales attached to each horizon.
const (
	ReasonLong   = "weekly breakout with strong momentum"
	ReasonMedium = "high confidence and trend alignment"
	ReasonShort  = "moderate confidence — prefer quick review"
)

// Evaluation is the outcome of running a rule set over one snapshot.
type Evaluation struct {
	Confidence float64 // clamped to [0,1], two decimals
	Reasons    []string
	Triggered  []string // names of rules whose predicate held
}

// Evaluate accumulates rule weights over snap. Accumulation is exact in
// decimal so threshold comparisons do not depend on float rounding.
func Evaluate(snap Snapshot, rules []Rule) Evaluation {
	score := decimal.Zero
	var ev Evaluation
	for _, r := range rules {
		if r.Eval(snap) {
			score = score.Add(decimal.NewFromFloat(r.Weight))
			ev.Reasons = append(ev.Reasons, r.Reason)
			ev.Triggered = append(ev.Triggered, r.Name)
			continue
		}
		if r.Penalty != 0 {
			score = score.Sub(decimal.NewFromFloat(r.Penalty))
			ev.Reasons = append(ev.Reasons, r.PenaltyReason)
		}
	}

	if score.IsNegative() {
		score = decimal.Zero
	}
	if score.GreaterThan(decimal.NewFromInt(1)) {
		score = decimal.NewFromInt(1)
	}
	ev.Confidence = score.Round(2).InexactFloat64()
	return ev
}

// Classify applies the default rule set to one ticker's annotated frames and
// returns a BUY signal, or false when the ticker does not qualify.
func Classify(ticker string, daily, weekly *model.Frame, now time.Time) (*model.Signal, bool) {
	return ClassifyWith(DefaultRules, ticker, daily, weekly, now)
}

// ClassifyWith is Classify with an explicit rule set.
func ClassifyWith(rules []Rule, ticker string, daily, weekly *model.Frame, now time.Time) (*model.Signal, bool) {
	snap, ok := NewSnapshot(daily, weekly)
	if !ok {
		return nil, false
	}

	ev := Evaluate(snap, rules)
	if ev.Confidence < MinConfidence {
		return nil, false
	}

	levels := ComputeLevels(snap)
	holding, rationale := mapHolding(snap, ev.Confidence)

	return &model.Signal{
		Symbol:          ticker,
		Timeframe:       Timeframe,
		SignalTime:      now.UTC().Truncate(time.Second),
		Action:          model.ActionBuy,
		BuyPrice:        levels.Entry,
		StopLoss:        levels.StopLoss,
		Target:          levels.Target,
		HoldingDuration: holding,
		HoldingReason:   rationale,
		Confidence:      ev.Confidence,
		Reasons:         strings.Join(ev.Reasons, model.ReasonSeparator),
	}, true
}

// mapHolding picks the horizon; the first matching tier wins.
func mapHolding(snap Snapshot, confidence float64) (model.HoldingDuration, string) {
	switch {
	case snap.WeeklyBreakout() && confidence > LongConfidence:
		return model.HoldingLong, ReasonLong
	case confidence > MediumConfidence && snap.Uptrend() && snap.MACDPositive():
		return model.HoldingMedium, ReasonMedium
	default:
		return model.HoldingShort, ReasonShort
	}
}
