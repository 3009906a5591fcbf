package types

import (
	"github.com/cointrader/coin-trader/internal/errors"
)

// SignalType represents the direction of a trading signal
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
)

// Signal is a strategy's recommendation for one ticker. Signals are
// immutable and produced fresh on every evaluation.
type Signal struct {
	StrategyName string
	Ticker       string
	Type         SignalType
	Strength     float64
	Reason       string
	Params       map[string]interface{}
}

// NewSignal creates a validated signal. Strength must fall inside [0, 1];
// anything else fails construction without touching engine state.
func NewSignal(strategyName, ticker string, sigType SignalType, strength float64, reason string) (*Signal, error) {
	if sigType != SignalBuy && sigType != SignalSell {
		return nil, errors.NewValidationError("signal", "invalid signal type: "+string(sigType))
	}
	if strength < 0 || strength > 1 {
		return nil, errors.NewValidationError("signal", "strength out of range [0,1]").
			WithContext("strength", strength)
	}
	return &Signal{
		StrategyName: strategyName,
		Ticker:       ticker,
		Type:         sigType,
		Strength:     strength,
		Reason:       reason,
		Params:       make(map[string]interface{}),
	}, nil
}

// WithParam attaches an opaque key-value pair to the signal's param bag.
func (s *Signal) WithParam(key string, value interface{}) *Signal {
	if s.Params == nil {
		s.Params = make(map[string]interface{})
	}
	s.Params[key] = value
	return s
}
