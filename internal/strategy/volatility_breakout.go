package strategy

import (
	"fmt"
	"math"

	"github.com/cointrader/coin-trader/pkg/types"
)

// VolatilityBreakoutStrategy implements a Larry Williams style breakout:
// buy when price clears open + k * (previous high - previous low). Exits
// are left to the risk manager.
type VolatilityBreakoutStrategy struct {
	kFactor float64
}

// NewVolatilityBreakout creates a volatility breakout strategy.
func NewVolatilityBreakout(kFactor float64) *VolatilityBreakoutStrategy {
	return &VolatilityBreakoutStrategy{kFactor: kFactor}
}

// NewVolatilityBreakoutFromParams builds a breakout strategy from a parameter map.
func NewVolatilityBreakoutFromParams(params map[string]interface{}) (*VolatilityBreakoutStrategy, error) {
	return NewVolatilityBreakout(floatParam(params, "k_factor", 0.5)), nil
}

func (s *VolatilityBreakoutStrategy) Name() string {
	return fmt.Sprintf("volatility_breakout_%d", int(s.kFactor*10))
}

func (s *VolatilityBreakoutStrategy) Template() string {
	return "volatility_breakout"
}

// Evaluate checks whether the current price broke above the breakout target.
func (s *VolatilityBreakoutStrategy) Evaluate(ticker string, view *types.MarketView) (*types.Signal, error) {
	if view.CurrentPrice <= 0 || view.PrevHigh <= 0 || view.PrevLow <= 0 {
		return nil, nil
	}

	rangeVal := view.PrevHigh - view.PrevLow
	if rangeVal <= 0 {
		return nil, nil
	}

	var target float64
	if view.OpenPrice > 0 {
		target = view.OpenPrice + s.kFactor*rangeVal
	}

	if !view.HasPosition && target > 0 && view.CurrentPrice > target {
		strength := math.Min((view.CurrentPrice-target)/rangeVal, 1.0)
		return types.NewSignal(s.Name(), ticker, types.SignalBuy, math.Max(strength, 0.1),
			fmt.Sprintf("Breakout: %.0f > target %.0f", view.CurrentPrice, target))
	}

	return nil, nil
}

func (s *VolatilityBreakoutStrategy) Describe() map[string]interface{} {
	return map[string]interface{}{
		"name":     s.Name(),
		"template": s.Template(),
		"k_factor": s.kFactor,
	}
}
