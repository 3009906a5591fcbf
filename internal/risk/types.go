package risk

import "time"

// Config holds the risk rule parameters. Percentages compare against
// price/balance changes expressed in percent; the loss-side limits are
// negative numbers.
type Config struct {
	StopLossPct     float64 // negative, e.g. -5.0
	TakeProfitPct   float64 // e.g. 10.0
	TrailingStopPct float64 // e.g. 3.0, drop from highest price
	MaxDailyLossPct float64 // negative, e.g. -3.0
	MaxDrawdownPct  float64 // negative, e.g. -15.0
	MaxPositions    int
	InitialBalance  float64
}

// DefaultConfig returns the stock risk parameters.
func DefaultConfig() Config {
	return Config{
		StopLossPct:     -5.0,
		TakeProfitPct:   10.0,
		TrailingStopPct: 3.0,
		MaxDailyLossPct: -3.0,
		MaxDrawdownPct:  -15.0,
		MaxPositions:    5,
		InitialBalance:  1_000_000,
	}
}

// Check is the result of one risk rule evaluation. For gating checks,
// Allowed means the order may proceed; for exit checks, Allowed means the
// exit triggered and Reason carries the human-readable explanation.
type Check struct {
	Allowed bool
	Reason  string
}

// DailyPnL is the rolling daily realized profit/loss aggregate. It resets
// lazily whenever the current UTC date differs from the stored one.
type DailyPnL struct {
	Date        time.Time // UTC midnight of the tracked day
	RealizedPnL float64
	TradesToday int
}
