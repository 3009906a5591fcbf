package strategy

import (
	"fmt"
	"math"

	"github.com/cointrader/coin-trader/pkg/types"
)

// DipBuyStrategy buys when price drops by dropPct within the timeframe and
// sells once price recovers by recoveryPct from entry.
type DipBuyStrategy struct {
	dropPct        float64 // negative, e.g. -7.0
	recoveryPct    float64
	timeframeHours int
	name           string
}

// NewDipBuy creates a dip-buy strategy. An optional name suffix keeps
// parallel instances with identical parameters distinguishable.
func NewDipBuy(dropPct, recoveryPct float64, timeframeHours int, nameSuffix string) *DipBuyStrategy {
	name := fmt.Sprintf("dip_buy_%d_%d_%d", int(dropPct), int(recoveryPct), timeframeHours)
	if nameSuffix != "" {
		name += "_" + nameSuffix
	}
	return &DipBuyStrategy{
		dropPct:        dropPct,
		recoveryPct:    recoveryPct,
		timeframeHours: timeframeHours,
		name:           name,
	}
}

// NewDipBuyFromParams builds a dip-buy strategy from a parameter map.
func NewDipBuyFromParams(params map[string]interface{}) (*DipBuyStrategy, error) {
	return NewDipBuy(
		floatParam(params, "drop_pct", -7.0),
		floatParam(params, "recovery_pct", 2.0),
		intParam(params, "timeframe_hours", 24),
		"",
	), nil
}

func (s *DipBuyStrategy) Name() string {
	return s.name
}

func (s *DipBuyStrategy) Template() string {
	return "dip_buy"
}

// Evaluate checks the dip entry and recovery exit conditions.
func (s *DipBuyStrategy) Evaluate(ticker string, view *types.MarketView) (*types.Signal, error) {
	if len(view.PriceHistory) == 0 || view.CurrentPrice <= 0 {
		return nil, nil
	}

	// Trim history to the configured timeframe
	history := view.PriceHistory
	if len(history) > s.timeframeHours+1 {
		history = history[len(history)-(s.timeframeHours+1):]
	}
	if len(history) < 2 {
		return nil, nil
	}

	startPrice := history[0]
	changePct := (view.CurrentPrice/startPrice - 1) * 100

	// SELL: recovery from entry
	if view.HasPosition && view.EntryPrice > 0 {
		profitPct := (view.CurrentPrice/view.EntryPrice - 1) * 100
		if profitPct >= s.recoveryPct {
			strength := math.Min(profitPct/(s.recoveryPct*2), 1.0)
			sig, err := types.NewSignal(s.name, ticker, types.SignalSell, strength,
				fmt.Sprintf("Recovery %.1f%% >= %.1f%%", profitPct, s.recoveryPct))
			if err != nil {
				return nil, err
			}
			sig.WithParam("change_pct", changePct).
				WithParam("profit_pct", profitPct).
				WithParam("entry_price", view.EntryPrice)
			return sig, nil
		}
	}

	// BUY: dip threshold crossed
	if !view.HasPosition && changePct <= s.dropPct {
		strength := math.Min(math.Abs(changePct)/math.Abs(s.dropPct*2), 1.0)
		sig, err := types.NewSignal(s.name, ticker, types.SignalBuy, strength,
			fmt.Sprintf("Dip %.1f%% <= %.1f%%", changePct, s.dropPct))
		if err != nil {
			return nil, err
		}
		sig.WithParam("change_pct", changePct).
			WithParam("start_price", startPrice).
			WithParam("current_price", view.CurrentPrice)
		return sig, nil
	}

	return nil, nil
}

func (s *DipBuyStrategy) Describe() map[string]interface{} {
	return map[string]interface{}{
		"name":            s.name,
		"template":        s.Template(),
		"drop_pct":        s.dropPct,
		"recovery_pct":    s.recoveryPct,
		"timeframe_hours": s.timeframeHours,
	}
}
