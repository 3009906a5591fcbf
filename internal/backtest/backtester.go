package backtest

import (
	"github.com/cointrader/coin-trader/internal/engine"
	"github.com/cointrader/coin-trader/internal/portfolio"
	"github.com/cointrader/coin-trader/internal/risk"
	"github.com/cointrader/coin-trader/internal/strategy"
	"github.com/cointrader/coin-trader/pkg/types"
)

// Backtester replays historical candles through the real execution engine,
// one strategy at a time, each against a fresh portfolio so results are
// comparable on the leaderboard.
type Backtester struct {
	initialBalance float64
	buyAmount      float64
	feeRatePct     float64
	riskConfig     risk.Config
	windowSize     int
}

// Result is the outcome of one strategy's replay.
type Result struct {
	StrategyName  string
	Template      string
	StartBalance  float64
	EndBalance    float64
	ReturnPct     float64
	MaxDrawdown   float64 // fraction of peak equity
	TotalTrades   int
	WinningTrades int
	WinRate       float64
	TotalProfit   float64
	OpenPositions int
	Trades        []*types.Trade
}

// NewBacktester creates a backtester. windowSize is the price-history
// lookback handed to strategies on every simulated tick.
func NewBacktester(initialBalance, buyAmount, feeRatePct float64, riskConfig risk.Config, windowSize int) *Backtester {
	if windowSize < 2 {
		windowSize = 2
	}
	return &Backtester{
		initialBalance: initialBalance,
		buyAmount:      buyAmount,
		feeRatePct:     feeRatePct,
		riskConfig:     riskConfig,
		windowSize:     windowSize,
	}
}

// Run replays the candles for one strategy and returns its result. The
// final equity marks any still-open position to the last close.
func (b *Backtester) Run(st strategy.Strategy, ticker string, candles []types.OHLCV) *Result {
	result := &Result{
		StrategyName: st.Name(),
		Template:     st.Template(),
		StartBalance: b.initialBalance,
		EndBalance:   b.initialBalance,
	}
	if len(candles) == 0 {
		return result
	}

	riskConfig := b.riskConfig
	riskConfig.InitialBalance = b.initialBalance

	pm := portfolio.NewManager(types.NewPortfolio(b.initialBalance), b.feeRatePct)
	rm := risk.NewManager(riskConfig)
	eng := engine.New(pm, rm, []strategy.Strategy{st}, b.buyAmount)

	maxEquity := b.initialBalance

	for i := 1; i < len(candles); i++ {
		candle := candles[i]
		prev := candles[i-1]

		tick := b.buildTick(ticker, candles, i, candle, prev)
		trades := eng.ProcessTick(tick)
		result.Trades = append(result.Trades, trades...)

		equity := b.equity(pm, candle.Close)
		if equity > maxEquity {
			maxEquity = equity
		}
		if maxEquity > 0 {
			drawdown := (maxEquity - equity) / maxEquity
			if drawdown > result.MaxDrawdown {
				result.MaxDrawdown = drawdown
			}
		}
	}

	finalPrice := candles[len(candles)-1].Close
	snapshot := pm.Snapshot()

	result.EndBalance = b.equity(pm, finalPrice)
	result.ReturnPct = (result.EndBalance - b.initialBalance) / b.initialBalance * 100
	result.TotalTrades = snapshot.TotalTrades
	result.WinningTrades = snapshot.WinningTrades
	result.WinRate = snapshot.WinRate
	result.TotalProfit = snapshot.TotalProfit
	result.OpenPositions = snapshot.OpenPositions
	return result
}

// RunAll replays the candles once per strategy and returns the results in
// strategy order.
func (b *Backtester) RunAll(strategies []strategy.Strategy, ticker string, candles []types.OHLCV) []*Result {
	results := make([]*Result, 0, len(strategies))
	for _, st := range strategies {
		results = append(results, b.Run(st, ticker, candles))
	}
	return results
}

// buildTick materializes one simulated tick from the candle window,
// price history ordered oldest to newest.
func (b *Backtester) buildTick(ticker string, candles []types.OHLCV, i int, candle, prev types.OHLCV) *types.Tick {
	start := i - b.windowSize
	if start < 0 {
		start = 0
	}
	window := candles[start : i+1]

	priceHistory := make([]float64, len(window))
	volumeHistory := make([]float64, len(window))
	for j, c := range window {
		priceHistory[j] = c.Close
		volumeHistory[j] = c.Volume
	}

	changePct := 0.0
	if priceHistory[0] > 0 {
		changePct = (candle.Close/priceHistory[0] - 1) * 100
	}

	tick := types.NewTick(ticker, candle.Close)
	tick.Volume = candle.Volume
	tick.ChangePct = changePct
	tick.HighPrice = candle.High
	tick.LowPrice = candle.Low
	tick.OpenPrice = candle.Open
	tick.PrevHigh = prev.High
	tick.PrevLow = prev.Low
	tick.PriceHistory = priceHistory
	tick.VolumeHistory = volumeHistory
	tick.Timestamp = candle.Timestamp
	return tick
}

// equity is balance plus open positions marked at price.
func (b *Backtester) equity(pm *portfolio.Manager, price float64) float64 {
	equity := pm.Portfolio().QuoteBalance
	for _, position := range pm.OpenPositions() {
		equity += position.Quantity * price
	}
	return equity
}
