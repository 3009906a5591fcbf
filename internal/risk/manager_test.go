package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cointrader/coin-trader/pkg/types"
)

func testConfig() Config {
	return Config{
		StopLossPct:     -5.0,
		TakeProfitPct:   10.0,
		TrailingStopPct: 3.0,
		MaxDailyLossPct: -3.0,
		MaxDrawdownPct:  -15.0,
		MaxPositions:    5,
		InitialBalance:  1_000_000,
	}
}

func buySignal(t *testing.T, ticker string) *types.Signal {
	t.Helper()
	sig, err := types.NewSignal("test", ticker, types.SignalBuy, 0.5, "")
	require.NoError(t, err)
	return sig
}

func sellSignal(t *testing.T, ticker string) *types.Signal {
	t.Helper()
	sig, err := types.NewSignal("test", ticker, types.SignalSell, 0.5, "")
	require.NoError(t, err)
	return sig
}

func openPosition(ticker string, entryPrice float64) *types.Position {
	return types.NewPosition("test", ticker, entryPrice, 0.002)
}

// TestCheckBuy_Allowed tests the happy path through every gate
func TestCheckBuy_Allowed(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(1_000_000)

	check := m.CheckBuy(buySignal(t, "KRW-BTC"), pf, 100_000)
	assert.True(t, check.Allowed)
	assert.Empty(t, check.Reason)
}

// TestCheckBuy_WrongSignalType tests that a SELL signal cannot pass the buy gate
func TestCheckBuy_WrongSignalType(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(1_000_000)

	check := m.CheckBuy(sellSignal(t, "KRW-BTC"), pf, 100_000)
	assert.False(t, check.Allowed)
	assert.Equal(t, "Not a BUY signal", check.Reason)
}

// TestCheckBuy_MaxPositions tests the position-count gate
func TestCheckBuy_MaxPositions(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(1_000_000)
	for _, ticker := range []string{"KRW-BTC", "KRW-ETH", "KRW-XRP", "KRW-SOL", "KRW-DOGE"} {
		pf.Positions[ticker] = openPosition(ticker, 1000)
	}

	check := m.CheckBuy(buySignal(t, "KRW-ADA"), pf, 100_000)
	assert.False(t, check.Allowed)
	assert.Contains(t, check.Reason, "Max positions")
}

// TestCheckBuy_InsufficientBalance tests the balance gate
func TestCheckBuy_InsufficientBalance(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(50_000)

	check := m.CheckBuy(buySignal(t, "KRW-BTC"), pf, 100_000)
	assert.False(t, check.Allowed)
	assert.Contains(t, check.Reason, "Insufficient balance")
}

// TestCheckBuy_DailyLossLimit tests the daily realized-loss gate
func TestCheckBuy_DailyLossLimit(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(1_000_000)

	// -3% of the 1,000,000 initial balance
	m.RecordTradePnL(-30_000)

	check := m.CheckBuy(buySignal(t, "KRW-BTC"), pf, 100_000)
	assert.False(t, check.Allowed)
	assert.Contains(t, check.Reason, "Daily loss limit")
}

// TestCheckBuy_MaxDrawdown tests the cumulative drawdown gate
func TestCheckBuy_MaxDrawdown(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(1_000_000)
	pf.TotalTrades = 10
	pf.TotalProfit = -150_000 // exactly -15%

	check := m.CheckBuy(buySignal(t, "KRW-BTC"), pf, 100_000)
	assert.False(t, check.Allowed)
	assert.Contains(t, check.Reason, "Max drawdown")
}

// TestCheckBuy_DrawdownIgnoredWithoutTrades tests that the drawdown gate
// only applies once at least one trade closed
func TestCheckBuy_DrawdownIgnoredWithoutTrades(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(1_000_000)
	pf.TotalProfit = -500_000

	check := m.CheckBuy(buySignal(t, "KRW-BTC"), pf, 100_000)
	assert.True(t, check.Allowed)
}

// TestCheckBuy_DuplicatePosition tests the one-open-position-per-ticker gate
func TestCheckBuy_DuplicatePosition(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(1_000_000)
	pf.Positions["KRW-BTC"] = openPosition("KRW-BTC", 50_000_000)

	check := m.CheckBuy(buySignal(t, "KRW-BTC"), pf, 100_000)
	assert.False(t, check.Allowed)
	assert.Contains(t, check.Reason, "Already have open position in KRW-BTC")
}

// TestCheckBuy_ClosedPositionNoDuplicate tests that a closed position does
// not block re-entry
func TestCheckBuy_ClosedPositionNoDuplicate(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(1_000_000)
	pos := openPosition("KRW-BTC", 50_000_000)
	pos.Status = types.PositionClosed
	pf.Positions["KRW-BTC"] = pos

	check := m.CheckBuy(buySignal(t, "KRW-BTC"), pf, 100_000)
	assert.True(t, check.Allowed)
}

// TestCheckBuy_Precedence tests that the earliest failing gate wins when
// several would fail
func TestCheckBuy_Precedence(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(0) // balance gate would also fail
	for _, ticker := range []string{"A", "B", "C", "D", "E"} {
		pf.Positions[ticker] = openPosition(ticker, 1000)
	}

	check := m.CheckBuy(buySignal(t, "A"), pf, 100_000)
	assert.False(t, check.Allowed)
	// Max positions outranks balance and duplicate-position
	assert.Contains(t, check.Reason, "Max positions")
}

// TestCheckSell tests the three sell-gate rejections and the happy path
func TestCheckSell(t *testing.T) {
	m := NewManager(testConfig())
	pf := types.NewPortfolio(1_000_000)

	check := m.CheckSell(buySignal(t, "KRW-BTC"), pf)
	assert.False(t, check.Allowed)
	assert.Equal(t, "Not a SELL signal", check.Reason)

	check = m.CheckSell(sellSignal(t, "KRW-BTC"), pf)
	assert.False(t, check.Allowed)
	assert.Equal(t, "No position in KRW-BTC", check.Reason)

	pos := openPosition("KRW-BTC", 50_000_000)
	pos.Status = types.PositionClosed
	pf.Positions["KRW-BTC"] = pos
	check = m.CheckSell(sellSignal(t, "KRW-BTC"), pf)
	assert.False(t, check.Allowed)
	assert.Equal(t, "Position in KRW-BTC is not open", check.Reason)

	pf.Positions["KRW-BTC"] = openPosition("KRW-BTC", 50_000_000)
	check = m.CheckSell(sellSignal(t, "KRW-BTC"), pf)
	assert.True(t, check.Allowed)
}

// TestCheckStopLoss_BoundaryInclusive tests that exactly the threshold triggers
func TestCheckStopLoss_BoundaryInclusive(t *testing.T) {
	m := NewManager(testConfig())
	pos := openPosition("KRW-BTC", 50_000_000)

	// Exactly -5%
	check := m.CheckStopLoss(pos, 47_500_000)
	assert.True(t, check.Allowed)
	assert.Contains(t, check.Reason, "Stop-loss triggered")

	// Just above the threshold
	check = m.CheckStopLoss(pos, 47_500_001)
	assert.False(t, check.Allowed)
}

// TestCheckTakeProfit_BoundaryInclusive tests that exactly the threshold triggers
func TestCheckTakeProfit_BoundaryInclusive(t *testing.T) {
	m := NewManager(testConfig())
	pos := openPosition("KRW-BTC", 50_000_000)

	// Exactly +10%
	check := m.CheckTakeProfit(pos, 55_000_000)
	assert.True(t, check.Allowed)
	assert.Contains(t, check.Reason, "Take-profit triggered")

	check = m.CheckTakeProfit(pos, 54_999_999)
	assert.False(t, check.Allowed)
}

// TestCheckTrailingStop tests new-high, boundary, and no-trigger cases
func TestCheckTrailingStop(t *testing.T) {
	m := NewManager(testConfig())
	pos := openPosition("KRW-BTC", 50_000_000)
	pos.HighestPrice = 60_000_000

	// New high never triggers
	check := m.CheckTrailingStop(pos, 61_000_000)
	assert.False(t, check.Allowed)
	assert.Equal(t, "New high, no trailing stop", check.Reason)

	// Exactly -3% from the high triggers
	check = m.CheckTrailingStop(pos, 58_200_000)
	assert.True(t, check.Allowed)
	assert.Contains(t, check.Reason, "Trailing stop")

	// Small retracement does not
	check = m.CheckTrailingStop(pos, 59_500_000)
	assert.False(t, check.Allowed)
}

// TestExitChecks_ClosedPosition tests that closed positions never trigger exits
func TestExitChecks_ClosedPosition(t *testing.T) {
	m := NewManager(testConfig())
	pos := openPosition("KRW-BTC", 50_000_000)
	pos.Status = types.PositionClosed

	assert.False(t, m.CheckStopLoss(pos, 1).Allowed)
	assert.False(t, m.CheckTakeProfit(pos, 100_000_000).Allowed)
	assert.False(t, m.CheckTrailingStop(pos, 1).Allowed)
}

// TestRecordTradePnL tests accumulation into the daily aggregate
func TestRecordTradePnL(t *testing.T) {
	m := NewManager(testConfig())

	m.RecordTradePnL(5_000)
	m.RecordTradePnL(-2_000)

	daily := m.Daily()
	assert.InDelta(t, 3_000.0, daily.RealizedPnL, 1e-9)
	assert.Equal(t, 2, daily.TradesToday)
}

// TestDailyReset_UTCBoundary tests the lazy reset across a UTC date change
func TestDailyReset_UTCBoundary(t *testing.T) {
	m := NewManager(testConfig())
	current := time.Date(2026, 3, 1, 23, 50, 0, 0, time.UTC)
	m.now = func() time.Time { return current }
	m.daily = DailyPnL{Date: utcDate(current)}

	m.RecordTradePnL(-40_000)
	pf := types.NewPortfolio(1_000_000)
	assert.False(t, m.CheckBuy(buySignal(t, "KRW-BTC"), pf, 100_000).Allowed)

	// Cross midnight UTC; the aggregate resets lazily on the next call
	current = current.Add(20 * time.Minute)
	check := m.CheckBuy(buySignal(t, "KRW-BTC"), pf, 100_000)
	assert.True(t, check.Allowed)

	daily := m.Daily()
	assert.Equal(t, 0.0, daily.RealizedPnL)
	assert.Equal(t, 0, daily.TradesToday)
	assert.Equal(t, utcDate(current), daily.Date)
}
