package engine

import (
	"fmt"
	"strings"

	"github.com/cointrader/coin-trader/internal/logger"
	"github.com/cointrader/coin-trader/internal/monitoring"
	"github.com/cointrader/coin-trader/internal/portfolio"
	"github.com/cointrader/coin-trader/internal/risk"
	"github.com/cointrader/coin-trader/internal/strategy"
	"github.com/cointrader/coin-trader/pkg/types"
)

// Engine orchestrates one tick: trailing-high update, risk-exit check,
// strategy evaluation, risk-gated execution. One ProcessTick call runs to
// completion before the next; hosts processing tickers concurrently must
// serialize access to a given engine instance.
type Engine struct {
	portfolio  *portfolio.Manager
	risk       *risk.Manager
	strategies []strategy.Strategy
	buyAmount  float64
	advisor    Advisor
	tradeLog   []*types.Trade
	log        *logger.Logger
}

// New creates an execution engine. The strategy list is evaluated in the
// order given; buyAmount is the fixed quote amount spent per entry.
func New(pm *portfolio.Manager, rm *risk.Manager, strategies []strategy.Strategy, buyAmount float64) *Engine {
	return &Engine{
		portfolio:  pm,
		risk:       rm,
		strategies: strategies,
		buyAmount:  buyAmount,
		tradeLog:   make([]*types.Trade, 0),
	}
}

// SetAdvisor installs the optional signal advisor.
func (e *Engine) SetAdvisor(advisor Advisor) {
	e.advisor = advisor
}

// SetLogger attaches the session logger.
func (e *Engine) SetLogger(log *logger.Logger) {
	e.log = log
}

// ProcessTick runs one tick through the engine and returns the trades it
// produced, in execution order. A tick with a missing ticker or a
// non-positive price is rejected without touching any state.
func (e *Engine) ProcessTick(tick *types.Tick) []*types.Trade {
	trades := make([]*types.Trade, 0)
	if tick == nil || tick.Ticker == "" || tick.Price <= 0 {
		return trades
	}

	ticker := tick.Ticker
	price := tick.Price
	monitoring.UpdatePrice(ticker, price)

	// Track the running high for trailing stops before any exit check
	e.portfolio.UpdateHighestPrice(ticker, price)

	// Risk exits run first; a fired exit ends the tick so strategies do
	// not immediately re-enter the ticker they just left.
	if exitTrade := e.checkRiskExits(ticker, price); exitTrade != nil {
		trades = append(trades, exitTrade)
		e.recordTrade(exitTrade)
		return trades
	}

	for _, st := range e.strategies {
		view := e.buildMarketView(ticker, tick)
		signal, err := e.evaluate(st, ticker, view)
		if err != nil {
			// An individual strategy fault never aborts the tick
			e.log.LogError(fmt.Sprintf("strategy %s evaluation failed", st.Name()), err)
			monitoring.RecordError("strategy_evaluation")
			continue
		}
		if signal == nil {
			continue
		}
		monitoring.RecordSignal(signal.StrategyName, string(signal.Type))

		if trade := e.executeSignal(signal, price); trade != nil {
			trades = append(trades, trade)
		}
	}

	snapshot := e.portfolio.Snapshot()
	monitoring.UpdatePortfolio(snapshot.QuoteBalance, snapshot.OpenPositions)
	return trades
}

// evaluate isolates a single strategy call, converting panics to errors so
// a faulty strategy cannot take down the tick.
func (e *Engine) evaluate(st strategy.Strategy, ticker string, view *types.MarketView) (signal *types.Signal, err error) {
	defer func() {
		if r := recover(); r != nil {
			signal = nil
			err = fmt.Errorf("strategy panic: %v", r)
		}
	}()
	return st.Evaluate(ticker, view)
}

// checkRiskExits evaluates stop-loss, take-profit, and trailing stop in
// that order and executes the sell for the first one that fires.
func (e *Engine) checkRiskExits(ticker string, price float64) *types.Trade {
	open := e.portfolio.OpenPositions()
	position, ok := open[ticker]
	if !ok {
		return nil
	}

	for _, check := range []risk.Check{
		e.risk.CheckStopLoss(position, price),
		e.risk.CheckTakeProfit(position, price),
		e.risk.CheckTrailingStop(position, price),
	} {
		if check.Allowed {
			return e.portfolio.ExecuteSell(position.StrategyName, ticker, price, check.Reason)
		}
	}

	return nil
}

// executeSignal routes a signal through the advisor (if any) and the risk
// manager, then into the portfolio manager. A rejection produces no trade
// and no mutation.
func (e *Engine) executeSignal(signal *types.Signal, price float64) *types.Trade {
	if e.advisor != nil {
		advice, err := e.advisor.EvaluateSignal(signal, e.marketContext(signal, price))
		if err != nil {
			e.log.LogError("advisor evaluation failed", err)
		} else if advice != nil && advice.Decision == DecisionSkip {
			e.log.Info("Signal skipped by advisor: %s %s (confidence %.2f)",
				signal.StrategyName, signal.Ticker, advice.Confidence)
			return nil
		}
	}

	switch signal.Type {
	case types.SignalBuy:
		check := e.risk.CheckBuy(signal, e.portfolio.Portfolio(), e.buyAmount)
		if !check.Allowed {
			e.log.Info("Buy blocked: %s %s - %s", signal.StrategyName, signal.Ticker, check.Reason)
			monitoring.RecordRiskRejection(rejectionRule(check.Reason))
			return nil
		}
		trade := e.portfolio.ExecuteBuy(signal.StrategyName, signal.Ticker, price, e.buyAmount, signal.Reason)
		if trade != nil {
			e.recordTrade(trade)
		}
		return trade

	case types.SignalSell:
		check := e.risk.CheckSell(signal, e.portfolio.Portfolio())
		if !check.Allowed {
			e.log.Info("Sell blocked: %s %s - %s", signal.StrategyName, signal.Ticker, check.Reason)
			monitoring.RecordRiskRejection(rejectionRule(check.Reason))
			return nil
		}
		trade := e.portfolio.ExecuteSell(signal.StrategyName, signal.Ticker, price, signal.Reason)
		if trade != nil && trade.Profit != nil {
			e.recordTrade(trade)
		}
		return trade
	}

	return nil
}

// recordTrade appends to the trade log, records realized PnL with the risk
// manager, and updates metrics. Buys record zero PnL so the daily trade
// counter still advances.
func (e *Engine) recordTrade(trade *types.Trade) {
	e.tradeLog = append(e.tradeLog, trade)
	monitoring.RecordTrade(trade.Ticker, string(trade.Side), trade.TotalQuote)

	if trade.Side == types.SideSell && trade.Profit != nil {
		e.risk.RecordTradePnL(*trade.Profit)
	} else {
		e.risk.RecordTradePnL(0)
	}
}

// buildMarketView assembles the strategy input from the tick plus current
// open-position lookups. This is the one place engine state feeds back
// into strategy input, and it is rebuilt per strategy because an earlier
// strategy's buy changes HasPosition for the next one.
func (e *Engine) buildMarketView(ticker string, tick *types.Tick) *types.MarketView {
	open := e.portfolio.OpenPositions()
	position, hasPosition := open[ticker]

	view := &types.MarketView{
		CurrentPrice:   tick.Price,
		Volume:         tick.Volume,
		ChangePct:      tick.ChangePct,
		HighPrice:      tick.HighPrice,
		LowPrice:       tick.LowPrice,
		OpenPrice:      tick.OpenPrice,
		HasPosition:    hasPosition,
		PriceHistory:   tick.PriceHistory,
		FearGreedValue: tick.FearGreedValue,
		VolumeHistory:  tick.VolumeHistory,
		Notices:        tick.Notices,
		PrevHigh:       tick.PrevHigh,
		PrevLow:        tick.PrevLow,
	}
	if hasPosition {
		view.EntryPrice = position.EntryPrice
	}
	return view
}

// marketContext packages the signal surroundings for the advisor.
func (e *Engine) marketContext(signal *types.Signal, price float64) map[string]interface{} {
	snapshot := e.portfolio.Snapshot()
	return map[string]interface{}{
		"ticker":         signal.Ticker,
		"current_price":  price,
		"signal_type":    string(signal.Type),
		"strength":       signal.Strength,
		"reason":         signal.Reason,
		"quote_balance":  snapshot.QuoteBalance,
		"open_positions": snapshot.OpenPositions,
	}
}

// rejectionRule maps a rejection reason to a stable metric label.
func rejectionRule(reason string) string {
	switch {
	case strings.HasPrefix(reason, "Max positions"):
		return "max_positions"
	case strings.HasPrefix(reason, "Insufficient"):
		return "insufficient_balance"
	case strings.HasPrefix(reason, "Daily loss"):
		return "daily_loss"
	case strings.HasPrefix(reason, "Max drawdown"):
		return "max_drawdown"
	case strings.HasPrefix(reason, "Already have"):
		return "duplicate_position"
	case strings.HasPrefix(reason, "No position"):
		return "no_position"
	case strings.HasPrefix(reason, "Position in"):
		return "position_not_open"
	default:
		return "other"
	}
}

// Summary is the execution summary exposed to reporting consumers.
type Summary struct {
	QuoteBalance  float64
	TotalTrades   int
	WinningTrades int
	WinRate       float64
	TotalProfit   float64
	OpenPositions int
	TradeLogCount int
}

// Summary returns the current execution summary.
func (e *Engine) Summary() Summary {
	snapshot := e.portfolio.Snapshot()
	return Summary{
		QuoteBalance:  snapshot.QuoteBalance,
		TotalTrades:   snapshot.TotalTrades,
		WinningTrades: snapshot.WinningTrades,
		WinRate:       snapshot.WinRate,
		TotalProfit:   snapshot.TotalProfit,
		OpenPositions: snapshot.OpenPositions,
		TradeLogCount: len(e.tradeLog),
	}
}

// TradeLog returns all trades recorded this session, oldest first.
func (e *Engine) TradeLog() []*types.Trade {
	return e.tradeLog
}

// Strategies returns the configured strategy list in evaluation order.
func (e *Engine) Strategies() []strategy.Strategy {
	return e.strategies
}
