package types

import "time"

// OHLCV is one historical candle, used by the backtester to replay ticks.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// Tick is one price/market update for a single ticker. Only Ticker and
// Price are required; everything else is supplied by market-data
// collaborators when available.
type Tick struct {
	Ticker         string
	Price          float64
	Volume         float64
	ChangePct      float64
	HighPrice      float64
	LowPrice       float64
	OpenPrice      float64
	PrevHigh       float64
	PrevLow        float64
	FearGreedValue int // -1 when not supplied
	PriceHistory   []float64
	VolumeHistory  []float64
	Notices        []Notice
	Timestamp      time.Time
}

// NewTick creates a tick with the optional fear/greed field marked absent.
func NewTick(ticker string, price float64) *Tick {
	return &Tick{
		Ticker:         ticker,
		Price:          price,
		FearGreedValue: -1,
		Timestamp:      time.Now().UTC(),
	}
}

// MarketView is the structured snapshot handed to strategies. It is
// assembled by the execution engine from the tick plus current position
// lookups; strategies read the fields they declare and must treat the
// optional ones as possibly zero-valued.
type MarketView struct {
	CurrentPrice float64
	Volume       float64
	ChangePct    float64
	HighPrice    float64
	LowPrice     float64
	OpenPrice    float64
	HasPosition  bool
	EntryPrice   float64

	// PriceHistory is ordered oldest to newest.
	PriceHistory []float64

	// Strategy-specific optional fields.
	FearGreedValue int // -1 when not supplied
	VolumeHistory  []float64
	Notices        []Notice
	PrevHigh       float64
	PrevLow        float64
}

// Notice is one exchange announcement already matched against alpha
// keywords by the notice-feed collaborator.
type Notice struct {
	ID              int64
	Title           string
	Tickers         []string
	MatchedKeywords []string
}

// Mentions reports whether the notice names the given ticker.
func (n *Notice) Mentions(ticker string) bool {
	for _, t := range n.Tickers {
		if t == ticker {
			return true
		}
	}
	return false
}
