package portfolio

import (
	"time"

	"github.com/cointrader/coin-trader/internal/logger"
	"github.com/cointrader/coin-trader/pkg/types"
)

// Manager is the only component permitted to mutate portfolio state. All
// methods are synchronous and expect the caller (the execution engine) to
// serialize access to one portfolio instance.
type Manager struct {
	portfolio *types.Portfolio
	feeRate   float64 // fraction, converted from the configured percentage
	log       *logger.Logger
}

// NewManager creates a portfolio manager. feeRatePct is the per-leg trading
// fee as a percentage (0.05 means 0.05%).
func NewManager(portfolio *types.Portfolio, feeRatePct float64) *Manager {
	return &Manager{
		portfolio: portfolio,
		feeRate:   feeRatePct / 100,
	}
}

// SetLogger attaches the session logger.
func (m *Manager) SetLogger(log *logger.Logger) {
	m.log = log
}

// Portfolio returns the managed portfolio. Callers must treat it as
// read-only; all mutation goes through this manager.
func (m *Manager) Portfolio() *types.Portfolio {
	return m.portfolio
}

// ExecuteBuy spends quoteAmount on ticker at price. The fee comes out of
// the spent amount, so the full quoteAmount leaves the balance while only
// the net buys quantity. Returns nil without mutating anything when the
// balance cannot cover the order.
func (m *Manager) ExecuteBuy(strategyName, ticker string, price, quoteAmount float64, reason string) *types.Trade {
	if m.portfolio.QuoteBalance < quoteAmount {
		m.log.Warning("Buy rejected, insufficient funds: %s balance=%.2f needed=%.2f",
			ticker, m.portfolio.QuoteBalance, quoteAmount)
		return nil
	}

	fee := quoteAmount * m.feeRate
	netAmount := quoteAmount - fee
	quantity := netAmount / price

	m.portfolio.QuoteBalance -= quoteAmount

	// A later buy on a CLOSED position overwrites the map slot; durability
	// of the closed record is the persistence collaborator's job.
	m.portfolio.Positions[ticker] = types.NewPosition(strategyName, ticker, price, quantity)

	trade := types.NewTrade(strategyName, ticker, types.SideBuy, price, quantity, quoteAmount, fee, reason)
	m.log.LogTradeExecution("BUY", ticker, trade.ID, price, quantity, quoteAmount, fee, reason)
	return trade
}

// ExecuteSell closes the full open position for ticker at price. Profit
// accounts for the fees on both legs: the entry fee was folded into the
// quantity, so the cost basis is grossed back up by 1/(1-feeRate).
// Returns nil when there is no open position.
func (m *Manager) ExecuteSell(strategyName, ticker string, price float64, reason string) *types.Trade {
	position, ok := m.portfolio.Positions[ticker]
	if !ok {
		m.log.Warning("Sell rejected, no position in %s", ticker)
		return nil
	}
	if !position.IsOpen() {
		return nil
	}

	grossQuote := position.Quantity * price
	fee := grossQuote * m.feeRate
	netQuote := grossQuote - fee

	rawCost := position.Quantity * position.EntryPrice
	buyFee := 0.0
	if m.feeRate < 1 {
		buyFee = rawCost * m.feeRate / (1 - m.feeRate)
	}
	cost := rawCost + buyFee
	profit := netQuote - cost
	profitPct := 0.0
	if cost > 0 {
		profitPct = profit / cost * 100
	}

	m.portfolio.QuoteBalance += netQuote
	m.portfolio.TotalTrades++
	m.portfolio.TotalProfit += profit
	if profit > 0 {
		m.portfolio.WinningTrades++
	}

	now := time.Now().UTC()
	position.Status = types.PositionClosed
	position.ExitPrice = &price
	position.ExitTime = &now
	position.Profit = &profit
	position.ProfitPct = &profitPct

	trade := types.NewTrade(strategyName, ticker, types.SideSell, price, position.Quantity, netQuote, fee, reason)
	trade.Profit = &profit
	trade.ProfitPct = &profitPct

	m.log.LogTradeExecution("SELL", ticker, trade.ID, price, position.Quantity, netQuote, fee, reason)
	m.log.LogPositionClosed(ticker, position.EntryPrice, price, profit, profitPct)
	return trade
}

// UpdateHighestPrice tracks the running high for trailing-stop purposes.
// No-op unless the position exists, is open, and price is a new high.
func (m *Manager) UpdateHighestPrice(ticker string, price float64) {
	position, ok := m.portfolio.Positions[ticker]
	if !ok || !position.IsOpen() {
		return
	}
	if price > position.HighestPrice {
		position.HighestPrice = price
	}
}

// OpenPositions returns the subset of the position map in OPEN status.
func (m *Manager) OpenPositions() map[string]*types.Position {
	open := make(map[string]*types.Position)
	for ticker, position := range m.portfolio.Positions {
		if position.IsOpen() {
			open[ticker] = position
		}
	}
	return open
}

// Snapshot is a read-only view of portfolio state for reporting consumers.
type Snapshot struct {
	QuoteBalance  float64
	TotalTrades   int
	WinningTrades int
	WinRate       float64
	TotalProfit   float64
	OpenPositions int
}

// Snapshot captures the current portfolio counters.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		QuoteBalance:  m.portfolio.QuoteBalance,
		TotalTrades:   m.portfolio.TotalTrades,
		WinningTrades: m.portfolio.WinningTrades,
		WinRate:       m.portfolio.WinRate(),
		TotalProfit:   m.portfolio.TotalProfit,
		OpenPositions: m.portfolio.OpenPositionCount(),
	}
}
