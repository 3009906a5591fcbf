package risk

import (
	"fmt"
	"time"

	"github.com/cointrader/coin-trader/internal/logger"
	"github.com/cointrader/coin-trader/pkg/types"
)

// Manager enforces risk rules on trading decisions. Its only mutable state
// is the daily PnL aggregate; every rule check is otherwise a pure function
// of the portfolio snapshot it is handed.
type Manager struct {
	config Config
	daily  DailyPnL
	log    *logger.Logger
	now    func() time.Time
}

// NewManager creates a risk manager with the given rule configuration.
func NewManager(config Config) *Manager {
	m := &Manager{
		config: config,
		now:    time.Now,
	}
	m.daily = DailyPnL{Date: utcDate(m.now())}
	return m
}

// SetLogger attaches the session logger.
func (m *Manager) SetLogger(log *logger.Logger) {
	m.log = log
}

// Config returns the active rule configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Daily returns a copy of the current daily PnL aggregate.
func (m *Manager) Daily() DailyPnL {
	m.resetDailyIfNeeded()
	return m.daily
}

func utcDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (m *Manager) resetDailyIfNeeded() {
	today := utcDate(m.now())
	if !m.daily.Date.Equal(today) {
		m.daily = DailyPnL{Date: today}
	}
}

// CheckBuy runs every buy-side gate in fixed precedence; the first failing
// rule wins and its reason is returned.
func (m *Manager) CheckBuy(signal *types.Signal, portfolio *types.Portfolio, buyAmount float64) Check {
	m.resetDailyIfNeeded()

	if signal.Type != types.SignalBuy {
		return Check{Allowed: false, Reason: "Not a BUY signal"}
	}

	// Max positions
	if portfolio.OpenPositionCount() >= m.config.MaxPositions {
		return Check{
			Allowed: false,
			Reason:  fmt.Sprintf("Max positions reached (%d)", m.config.MaxPositions),
		}
	}

	// Sufficient balance
	if portfolio.QuoteBalance < buyAmount {
		return Check{
			Allowed: false,
			Reason:  fmt.Sprintf("Insufficient balance: %.2f < %.2f", portfolio.QuoteBalance, buyAmount),
		}
	}

	// Daily loss limit
	dailyLossPct := 0.0
	if m.config.InitialBalance > 0 {
		dailyLossPct = m.daily.RealizedPnL / m.config.InitialBalance * 100
	}
	if dailyLossPct <= m.config.MaxDailyLossPct {
		return Check{
			Allowed: false,
			Reason:  fmt.Sprintf("Daily loss limit hit: %.2f%%", dailyLossPct),
		}
	}

	// Max drawdown
	if portfolio.TotalTrades > 0 && m.config.InitialBalance > 0 {
		returnPct := portfolio.TotalProfit / m.config.InitialBalance * 100
		if returnPct <= m.config.MaxDrawdownPct {
			return Check{
				Allowed: false,
				Reason:  fmt.Sprintf("Max drawdown hit: %.2f%%", returnPct),
			}
		}
	}

	// Duplicate position
	if pos, ok := portfolio.Positions[signal.Ticker]; ok && pos.IsOpen() {
		return Check{
			Allowed: false,
			Reason:  fmt.Sprintf("Already have open position in %s", signal.Ticker),
		}
	}

	return Check{Allowed: true}
}

// CheckSell validates that a sell signal has an open position behind it.
func (m *Manager) CheckSell(signal *types.Signal, portfolio *types.Portfolio) Check {
	if signal.Type != types.SignalSell {
		return Check{Allowed: false, Reason: "Not a SELL signal"}
	}

	pos, ok := portfolio.Positions[signal.Ticker]
	if !ok {
		return Check{Allowed: false, Reason: fmt.Sprintf("No position in %s", signal.Ticker)}
	}
	if !pos.IsOpen() {
		return Check{Allowed: false, Reason: fmt.Sprintf("Position in %s is not open", signal.Ticker)}
	}

	return Check{Allowed: true}
}

// CheckStopLoss triggers when the change from entry falls to the stop-loss
// threshold or below. The boundary is inclusive.
func (m *Manager) CheckStopLoss(position *types.Position, currentPrice float64) Check {
	if !position.IsOpen() {
		return Check{Allowed: false, Reason: "Position not open"}
	}

	changePct := (currentPrice - position.EntryPrice) / position.EntryPrice * 100
	if changePct <= m.config.StopLossPct {
		return Check{
			Allowed: true,
			Reason:  fmt.Sprintf("Stop-loss triggered: %.2f%% <= %.1f%%", changePct, m.config.StopLossPct),
		}
	}
	return Check{Allowed: false}
}

// CheckTakeProfit triggers when the change from entry reaches the
// take-profit threshold. The boundary is inclusive.
func (m *Manager) CheckTakeProfit(position *types.Position, currentPrice float64) Check {
	if !position.IsOpen() {
		return Check{Allowed: false, Reason: "Position not open"}
	}

	changePct := (currentPrice - position.EntryPrice) / position.EntryPrice * 100
	if changePct >= m.config.TakeProfitPct {
		return Check{
			Allowed: true,
			Reason:  fmt.Sprintf("Take-profit triggered: %.2f%% >= %.1f%%", changePct, m.config.TakeProfitPct),
		}
	}
	return Check{Allowed: false}
}

// CheckTrailingStop triggers on a retracement from the highest price seen
// since entry. A fresh high never triggers.
func (m *Manager) CheckTrailingStop(position *types.Position, currentPrice float64) Check {
	if !position.IsOpen() {
		return Check{Allowed: false, Reason: "Position not open"}
	}

	highest := position.HighestPrice
	if highest <= 0 {
		highest = position.EntryPrice
	}
	if currentPrice > highest {
		return Check{Allowed: false, Reason: "New high, no trailing stop"}
	}

	dropFromHigh := (highest - currentPrice) / highest * 100
	if dropFromHigh >= m.config.TrailingStopPct {
		return Check{
			Allowed: true,
			Reason: fmt.Sprintf("Trailing stop: dropped %.2f%% from high >= %.1f%%",
				dropFromHigh, m.config.TrailingStopPct),
		}
	}
	return Check{Allowed: false}
}

// RecordTradePnL accumulates realized profit/loss into the daily aggregate.
func (m *Manager) RecordTradePnL(pnl float64) {
	m.resetDailyIfNeeded()
	m.daily.RealizedPnL += pnl
	m.daily.TradesToday++
	m.log.Info("Daily PnL updated: %.2f (%d trades today)", m.daily.RealizedPnL, m.daily.TradesToday)
}
