package model

import "time"

// Action is the outcome recorded on a signal. Rejections produce no record,
// so BUY is the only value ever emitted.
type Action string

const ActionBuy Action = "BUY"

// HoldingDuration is the coarse horizon recommendation attached to a signal.
type HoldingDuration string

const (
	HoldingShort  HoldingDuration = "short"
	HoldingMedium HoldingDuration = "medium"
	HoldingLong   HoldingDuration = "long"
)

// Valid reports whether h is one of the three known horizons.
func (h HoldingDuration) Valid() bool {
	switch h {
	case HoldingShort, HoldingMedium, HoldingLong:
		return true
	}
	return false
}

// ReasonSeparator joins triggered rule reasons in Signal.Reasons.
const ReasonSeparator = "; "

// Signal is the engine's output record. It is created once per qualifying
// ticker per run and never updated in place.
type Signal struct {
	Symbol          string          `json:"symbol"`
	Timeframe       string          `json:"timeframe"`
	SignalTime      time.Time       `json:"signal_time"`
	Action          Action          `json:"action"`
	BuyPrice        float64         `json:"buy_price"`
	StopLoss        float64         `json:"stoploss"`
	Target          float64         `json:"target"`
	HoldingDuration HoldingDuration `json:"holding_duration"`
	HoldingReason   string          `json:"holding_reason"`
	Confidence      float64         `json:"confidence"`
	Reasons         string          `json:"reasons"`
}
