package strategy

import (
	"github.com/cointrader/coin-trader/pkg/types"
)

// Strategy defines the interface for trading strategies. Evaluate must be
// pure: no I/O, no blocking, deterministic given its configured parameters
// and the supplied market view. Cost is bounded by the lookback window.
type Strategy interface {
	// Evaluate analyzes the market view for one ticker and returns a
	// signal, or nil when the strategy has nothing to say.
	Evaluate(ticker string, view *types.MarketView) (*types.Signal, error)

	// Name returns the unique, parameter-derived name of this instance
	Name() string

	// Template returns the strategy template type (e.g. "dip_buy")
	Template() string

	// Describe returns the configured parameters for logging and reporting
	Describe() map[string]interface{}
}
