package strategy

import (
	"fmt"
	"math"

	"github.com/cointrader/coin-trader/pkg/types"
)

// FearGreedStrategy trades contrarian on the market fear & greed index:
// buy on extreme fear, sell on extreme greed.
type FearGreedStrategy struct {
	buyThreshold  int
	sellThreshold int
}

// NewFearGreed creates a fear & greed strategy.
func NewFearGreed(buyThreshold, sellThreshold int) *FearGreedStrategy {
	return &FearGreedStrategy{
		buyThreshold:  buyThreshold,
		sellThreshold: sellThreshold,
	}
}

// NewFearGreedFromParams builds a fear & greed strategy from a parameter map.
func NewFearGreedFromParams(params map[string]interface{}) (*FearGreedStrategy, error) {
	return NewFearGreed(
		intParam(params, "buy_threshold", 25),
		intParam(params, "sell_threshold", 75),
	), nil
}

func (s *FearGreedStrategy) Name() string {
	return fmt.Sprintf("fear_greed_%d_%d", s.buyThreshold, s.sellThreshold)
}

func (s *FearGreedStrategy) Template() string {
	return "fear_greed"
}

// Evaluate reads the index from the market view; a value below zero means
// the feed did not supply one this tick.
func (s *FearGreedStrategy) Evaluate(ticker string, view *types.MarketView) (*types.Signal, error) {
	fg := view.FearGreedValue
	if fg < 0 {
		return nil, nil
	}

	// SELL: extreme greed
	if view.HasPosition && fg >= s.sellThreshold {
		strength := math.Min(float64(fg-s.sellThreshold)/25, 1.0)
		return types.NewSignal(s.Name(), ticker, types.SignalSell, math.Max(strength, 0.3),
			fmt.Sprintf("Extreme Greed: F&G=%d >= %d", fg, s.sellThreshold))
	}

	// BUY: extreme fear
	if !view.HasPosition && fg <= s.buyThreshold {
		strength := math.Min(float64(s.buyThreshold-fg)/25, 1.0)
		return types.NewSignal(s.Name(), ticker, types.SignalBuy, math.Max(strength, 0.3),
			fmt.Sprintf("Extreme Fear: F&G=%d <= %d", fg, s.buyThreshold))
	}

	return nil, nil
}

func (s *FearGreedStrategy) Describe() map[string]interface{} {
	return map[string]interface{}{
		"name":           s.Name(),
		"template":       s.Template(),
		"buy_threshold":  s.buyThreshold,
		"sell_threshold": s.sellThreshold,
	}
}
