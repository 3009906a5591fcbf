package types

// Portfolio holds the in-memory trading account state: the quote-currency
// balance available for buys, the per-ticker position map, and realized
// performance counters. All mutation goes through the portfolio manager.
type Portfolio struct {
	QuoteBalance  float64
	Positions     map[string]*Position
	TotalTrades   int
	WinningTrades int
	TotalProfit   float64
}

// NewPortfolio creates a portfolio seeded with the initial quote balance.
func NewPortfolio(initialBalance float64) *Portfolio {
	return &Portfolio{
		QuoteBalance: initialBalance,
		Positions:    make(map[string]*Position),
	}
}

// WinRate returns winning trades over total trades, 0 when no trades yet.
func (p *Portfolio) WinRate() float64 {
	if p.TotalTrades == 0 {
		return 0
	}
	return float64(p.WinningTrades) / float64(p.TotalTrades)
}

// OpenPositionCount counts positions currently in OPEN status.
func (p *Portfolio) OpenPositionCount() int {
	count := 0
	for _, pos := range p.Positions {
		if pos.IsOpen() {
			count++
		}
	}
	return count
}
