package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/cointrader/coin-trader/internal/backtest"
	"github.com/cointrader/coin-trader/internal/config"
	"github.com/cointrader/coin-trader/internal/strategy"
	"github.com/cointrader/coin-trader/pkg/data"
	"github.com/cointrader/coin-trader/pkg/reporting"
)

func main() {
	configFile := flag.String("config", "", "Path to JSON config file")
	dataFile := flag.String("data", "", "Path to CSV candle file (timestamp,open,high,low,close,volume)")
	ticker := flag.String("ticker", "KRW-BTC", "Ticker the candle file belongs to")
	windowSize := flag.Int("window", 48, "Price-history lookback window per tick")
	topN := flag.Int("top", 10, "Leaderboard size")
	exportPath := flag.String("output", "", "Write the best strategy's trades to this .xlsx path")
	flag.Parse()

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("⚠️ Failed to load .env: %v", err)
		}
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	candleFile := *dataFile
	if candleFile == "" {
		candleFile = cfg.Data.CandleFile
	}
	if candleFile == "" {
		log.Fatal("❌ No candle file given (use -data or the data.candle_file config key)")
	}

	candles, err := data.NewCSVProvider().LoadCandles(candleFile)
	if err != nil {
		log.Fatalf("❌ Failed to load candles: %v", err)
	}
	log.Printf("📈 Loaded %d candles from %s", len(candles), candleFile)

	strategies, err := buildStrategies(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to build strategies: %v", err)
	}

	bt := backtest.NewBacktester(
		cfg.Trading.InitialBalance,
		cfg.Trading.BuyAmount,
		cfg.Trading.FeeRatePct,
		cfg.RiskConfig(),
		*windowSize,
	)
	results := bt.RunAll(strategies, *ticker, candles)

	leaderboard := reporting.NewLeaderboard()
	leaderboard.Print(results, *topN)

	if *exportPath != "" && len(results) > 0 {
		best := leaderboard.Rank(results)[0]
		if err := reporting.NewExcelReporter().WriteTradesXLSX(best.Trades, *exportPath); err != nil {
			log.Printf("❌ Failed to write trade export: %v", err)
		} else {
			log.Printf("📁 %s trades written to %s", best.StrategyName, *exportPath)
		}
	}
}

// buildStrategies instantiates every configured strategy; for backtesting
// the enabled flag is ignored so all candidates land on the leaderboard.
func buildStrategies(cfg *config.Config) ([]strategy.Strategy, error) {
	factory := strategy.NewFactory()
	var strategies []strategy.Strategy
	for _, sc := range cfg.Strategies {
		st, err := factory.Create(sc.Template, sc.Params)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, st)
	}
	if len(strategies) == 0 {
		// Fall back to every template at stock parameters
		for _, template := range factory.List() {
			st, err := factory.Create(template, map[string]interface{}{})
			if err != nil {
				return nil, err
			}
			strategies = append(strategies, st)
		}
	}
	return strategies, nil
}
