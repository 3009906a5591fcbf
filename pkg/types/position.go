package types

import (
	"time"

	"github.com/google/uuid"
)

// PositionStatus is the lifecycle state of a position
type PositionStatus string

const (
	PositionOpen   PositionStatus = "OPEN"
	PositionClosed PositionStatus = "CLOSED"
)

// Position records the currently (or formerly) held quantity of one ticker.
// A position is created OPEN on a successful buy, has HighestPrice tracked
// while open, and transitions to CLOSED exactly once on a successful sell.
// It is never deleted, only superseded by a later buy on the same ticker.
type Position struct {
	ID           string
	StrategyName string
	Ticker       string
	Status       PositionStatus
	EntryPrice   float64
	Quantity     float64
	EntryTime    time.Time
	HighestPrice float64
	ExitPrice    *float64
	ExitTime     *time.Time
	Profit       *float64
	ProfitPct    *float64
}

// NewPosition creates an open position with the highest price seeded at the
// entry price.
func NewPosition(strategyName, ticker string, entryPrice, quantity float64) *Position {
	return &Position{
		ID:           uuid.NewString(),
		StrategyName: strategyName,
		Ticker:       ticker,
		Status:       PositionOpen,
		EntryPrice:   entryPrice,
		Quantity:     quantity,
		EntryTime:    time.Now().UTC(),
		HighestPrice: entryPrice,
	}
}

// IsOpen reports whether the position is still held.
func (p *Position) IsOpen() bool {
	return p.Status == PositionOpen
}
