package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cointrader/coin-trader/internal/risk"
	"github.com/cointrader/coin-trader/internal/strategy"
	"github.com/cointrader/coin-trader/pkg/types"
)

func candlesFromCloses(closes []float64) []types.OHLCV {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		candles[i] = types.OHLCV{
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    10,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return candles
}

func newTestBacktester(windowSize int) *Backtester {
	return NewBacktester(1_000_000, 100_000, 0.05, risk.DefaultConfig(), windowSize)
}

// TestRun_EmptyCandles tests the zero-data short circuit
func TestRun_EmptyCandles(t *testing.T) {
	bt := newTestBacktester(24)
	st := strategy.NewDipBuy(-7.0, 2.0, 24, "")

	result := bt.Run(st, "KRW-BTC", nil)

	assert.Equal(t, st.Name(), result.StrategyName)
	assert.Equal(t, 1_000_000.0, result.EndBalance)
	assert.Equal(t, 0.0, result.ReturnPct)
	assert.Empty(t, result.Trades)
}

// TestRun_DipBuyRoundTrip tests a scripted crash and recovery producing one
// full buy/sell cycle through the real engine
func TestRun_DipBuyRoundTrip(t *testing.T) {
	// Flat, then a -10% crash, then recovery above entry
	closes := []float64{
		50_000_000, 50_000_000, 50_000_000, 50_000_000,
		45_000_000, // dip entry fires here
		45_000_000,
		47_500_000, // > +5% above entry, recovery exit fires
		47_500_000,
	}
	bt := newTestBacktester(24)
	st := strategy.NewDipBuy(-7.0, 2.0, 24, "")

	result := bt.Run(st, "KRW-BTC", candlesFromCloses(closes))

	require.NotEmpty(t, result.Trades)
	assert.Equal(t, types.SideBuy, result.Trades[0].Side)

	sides := make([]types.Side, 0, len(result.Trades))
	for _, trade := range result.Trades {
		sides = append(sides, trade.Side)
	}
	assert.Contains(t, sides, types.SideSell)
	assert.Equal(t, 1, result.TotalTrades)
	assert.Positive(t, result.EndBalance)
	assert.Equal(t, 0, result.OpenPositions)
}

// TestRun_MarksOpenPositionToFinalClose tests that equity includes an
// unexited position at the last candle's close
func TestRun_MarksOpenPositionToFinalClose(t *testing.T) {
	// Crash and stay down: the dip entry fires, the exit never does, and
	// the stop-loss does not trigger because entry happens at the bottom
	closes := []float64{
		50_000_000, 50_000_000, 50_000_000,
		45_000_000,
		45_000_000, 45_000_000,
	}
	bt := newTestBacktester(24)
	st := strategy.NewDipBuy(-7.0, 2.0, 24, "")

	result := bt.Run(st, "KRW-BTC", candlesFromCloses(closes))

	assert.Equal(t, 1, result.OpenPositions)
	assert.Equal(t, 0, result.TotalTrades)

	// Balance 900,000 plus the open position marked at 45,000,000
	assert.Greater(t, result.EndBalance, 900_000.0)
	assert.Less(t, result.EndBalance, 1_000_000.0)
	assert.Negative(t, result.ReturnPct)
}

// TestRun_MaxDrawdownTracksEquityTrough tests the drawdown statistic
func TestRun_MaxDrawdownTracksEquityTrough(t *testing.T) {
	closes := []float64{
		50_000_000, 50_000_000, 50_000_000,
		44_000_000, // entry
		40_000_000, // trough while holding
		44_500_000,
	}
	bt := newTestBacktester(24)
	st := strategy.NewDipBuy(-7.0, 2.0, 24, "")

	result := bt.Run(st, "KRW-BTC", candlesFromCloses(closes))

	assert.Positive(t, result.MaxDrawdown)
	assert.Less(t, result.MaxDrawdown, 1.0)
}

// TestRun_QuietStrategyNeverTrades tests a flat series producing no activity
func TestRun_QuietStrategyNeverTrades(t *testing.T) {
	closes := []float64{
		50_000_000, 50_000_000, 50_000_000, 50_000_000, 50_000_000,
	}
	bt := newTestBacktester(24)
	st := strategy.NewDipBuy(-7.0, 2.0, 24, "")

	result := bt.Run(st, "KRW-BTC", candlesFromCloses(closes))

	assert.Empty(t, result.Trades)
	assert.Equal(t, 1_000_000.0, result.EndBalance)
	assert.Equal(t, 0.0, result.ReturnPct)
	assert.Equal(t, 0.0, result.MaxDrawdown)
}

// TestRunAll_IsolatedPortfolios tests that each strategy replays against its
// own fresh portfolio
func TestRunAll_IsolatedPortfolios(t *testing.T) {
	closes := []float64{
		50_000_000, 50_000_000, 50_000_000, 50_000_000,
		45_000_000, 45_000_000,
	}
	bt := newTestBacktester(24)
	strategies := []strategy.Strategy{
		strategy.NewDipBuy(-7.0, 2.0, 24, "a"),
		strategy.NewDipBuy(-7.0, 2.0, 24, "b"),
	}

	results := bt.RunAll(strategies, "KRW-BTC", candlesFromCloses(closes))

	require.Len(t, results, 2)
	assert.Equal(t, results[0].EndBalance, results[1].EndBalance)
	assert.NotEqual(t, results[0].StrategyName, results[1].StrategyName)
	for _, result := range results {
		assert.Equal(t, 1, result.OpenPositions)
	}
}

// TestRun_WindowLimitsHistory tests that a small window hides an old crash
func TestRun_WindowLimitsHistory(t *testing.T) {
	// The drop is outside the 2-candle window by the time it would matter
	closes := []float64{
		50_000_000, 45_000_000, 45_000_000, 45_000_000, 45_000_000, 45_000_000,
	}
	bt := newTestBacktester(2)
	st := strategy.NewDipBuy(-7.0, 2.0, 24, "")

	result := bt.Run(st, "KRW-BTC", candlesFromCloses(closes))

	// Only the tick right after the drop sees it; later windows are flat
	require.NotEmpty(t, result.Trades)
	assert.Len(t, result.Trades, 1)
}
