package strategy

import (
	"fmt"
	"math"

	"github.com/cointrader/coin-trader/pkg/types"
)

// MomentumStrategy is trend-following: buy on strong upward movement over
// the lookback window, sell when the position reverses past the exit
// threshold.
type MomentumStrategy struct {
	lookbackHours  int
	entryThreshold float64
	exitThreshold  float64 // negative
}

// NewMomentum creates a momentum strategy.
func NewMomentum(lookbackHours int, entryThreshold, exitThreshold float64) *MomentumStrategy {
	return &MomentumStrategy{
		lookbackHours:  lookbackHours,
		entryThreshold: entryThreshold,
		exitThreshold:  exitThreshold,
	}
}

// NewMomentumFromParams builds a momentum strategy from a parameter map.
func NewMomentumFromParams(params map[string]interface{}) (*MomentumStrategy, error) {
	return NewMomentum(
		intParam(params, "lookback_hours", 12),
		floatParam(params, "entry_threshold", 5.0),
		floatParam(params, "exit_threshold", -3.0),
	), nil
}

func (s *MomentumStrategy) Name() string {
	return fmt.Sprintf("momentum_%d_%d_%d", s.lookbackHours, int(s.entryThreshold), int(s.exitThreshold))
}

func (s *MomentumStrategy) Template() string {
	return "momentum"
}

// Evaluate checks the momentum entry and reversal exit conditions.
func (s *MomentumStrategy) Evaluate(ticker string, view *types.MarketView) (*types.Signal, error) {
	if len(view.PriceHistory) == 0 || view.CurrentPrice <= 0 {
		return nil, nil
	}

	history := view.PriceHistory
	if len(history) > s.lookbackHours+1 {
		history = history[len(history)-(s.lookbackHours+1):]
	}
	if len(history) < 2 {
		return nil, nil
	}

	startPrice := history[0]
	changePct := (view.CurrentPrice/startPrice - 1) * 100

	// SELL: exit on reversal from entry
	if view.HasPosition && view.EntryPrice > 0 {
		profitPct := (view.CurrentPrice/view.EntryPrice - 1) * 100
		if profitPct <= s.exitThreshold {
			strength := math.Min(math.Abs(profitPct)/10, 1.0)
			return types.NewSignal(s.Name(), ticker, types.SignalSell, strength,
				fmt.Sprintf("Momentum reversal %.1f%% <= %.1f%%", profitPct, s.exitThreshold))
		}
	}

	// BUY: enter on strong momentum
	if !view.HasPosition && changePct >= s.entryThreshold {
		strength := math.Min(changePct/(s.entryThreshold*2), 1.0)
		return types.NewSignal(s.Name(), ticker, types.SignalBuy, strength,
			fmt.Sprintf("Momentum %.1f%% >= %.1f%%", changePct, s.entryThreshold))
	}

	return nil, nil
}

func (s *MomentumStrategy) Describe() map[string]interface{} {
	return map[string]interface{}{
		"name":            s.Name(),
		"template":        s.Template(),
		"lookback_hours":  s.lookbackHours,
		"entry_threshold": s.entryThreshold,
		"exit_threshold":  s.exitThreshold,
	}
}
