package types

import (
	"time"

	"github.com/google/uuid"
)

// Side represents which side of the book a trade was on
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is the append-only record of one executed order. Trades are never
// mutated after creation; Profit and ProfitPct are only set on SELL trades
// that closed a position.
type Trade struct {
	ID           string
	StrategyName string
	Ticker       string
	Side         Side
	Price        float64
	Quantity     float64
	TotalQuote   float64
	Fee          float64
	Reason       string
	Profit       *float64
	ProfitPct    *float64
	Timestamp    time.Time
}

// NewTrade creates a trade record with a fresh id and timestamp.
func NewTrade(strategyName, ticker string, side Side, price, quantity, totalQuote, fee float64, reason string) *Trade {
	return &Trade{
		ID:           uuid.NewString(),
		StrategyName: strategyName,
		Ticker:       ticker,
		Side:         side,
		Price:        price,
		Quantity:     quantity,
		TotalQuote:   totalQuote,
		Fee:          fee,
		Reason:       reason,
		Timestamp:    time.Now().UTC(),
	}
}
