package calculator

// Params holds the indicator window lengths.
type Params struct {
	ShortWindow  int
	LongWindow   int
	MACDFast     int
	MACDSlow     int
	MACDSignal   int
	RSIPeriod    int
	ATRPeriod    int
	BandWindow   int
	BandWidth    float64 // in standard deviations
	VWAPWindow   int
	VolumeWindow int
}

// DefaultParams returns the standard indicator battery.
func DefaultParams() Params {
	return Params{
		ShortWindow:  20,
		LongWindow:   50,
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		RSIPeriod:    14,
		ATRPeriod:    14,
		BandWindow:   20,
		BandWidth:    2,
		VWAPWindow:   20,
		VolumeWindow: 20,
	}
}
