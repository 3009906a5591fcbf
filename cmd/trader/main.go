package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cointrader/coin-trader/internal/config"
	"github.com/cointrader/coin-trader/internal/engine"
	"github.com/cointrader/coin-trader/internal/logger"
	"github.com/cointrader/coin-trader/internal/monitoring"
	"github.com/cointrader/coin-trader/internal/portfolio"
	"github.com/cointrader/coin-trader/internal/risk"
	"github.com/cointrader/coin-trader/internal/strategy"
	"github.com/cointrader/coin-trader/pkg/reporting"
	"github.com/cointrader/coin-trader/pkg/types"
)

// tickWire is the JSONL shape produced by market-data collaborators.
type tickWire struct {
	Ticker        string         `json:"ticker"`
	Price         float64        `json:"price"`
	Volume        float64        `json:"volume"`
	ChangePct     float64        `json:"change_pct"`
	HighPrice     float64        `json:"high_price"`
	LowPrice      float64        `json:"low_price"`
	OpenPrice     float64        `json:"open_price"`
	PrevHigh      float64        `json:"prev_high"`
	PrevLow       float64        `json:"prev_low"`
	FearGreed     *int           `json:"fear_greed_value"`
	PriceHistory  []float64      `json:"price_history"`
	VolumeHistory []float64      `json:"volume_history"`
	Notices       []types.Notice `json:"notices"`
}

func (w *tickWire) toTick() *types.Tick {
	tick := types.NewTick(w.Ticker, w.Price)
	tick.Volume = w.Volume
	tick.ChangePct = w.ChangePct
	tick.HighPrice = w.HighPrice
	tick.LowPrice = w.LowPrice
	tick.OpenPrice = w.OpenPrice
	tick.PrevHigh = w.PrevHigh
	tick.PrevLow = w.PrevLow
	tick.PriceHistory = w.PriceHistory
	tick.VolumeHistory = w.VolumeHistory
	tick.Notices = w.Notices
	if w.FearGreed != nil {
		tick.FearGreedValue = *w.FearGreed
	}
	return tick
}

func main() {
	configFile := flag.String("config", "", "Path to JSON config file")
	envFile := flag.String("env", "", "Path to .env file (optional)")
	ticksFile := flag.String("ticks", "", "Path to JSONL tick stream (default: stdin)")
	exportPath := flag.String("export", "", "Write trade history to this .xlsx path on exit")
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("⚠️ No .env file loaded: %v", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	sessionLog, err := logger.NewLogger("trader", cfg.Mode)
	if err != nil {
		log.Fatalf("❌ Failed to create session logger: %v", err)
	}
	defer sessionLog.Close()

	strategies, err := buildStrategies(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to build strategies: %v", err)
	}
	for _, st := range strategies {
		sessionLog.Info("Strategy loaded: %v", st.Describe())
	}

	pm := portfolio.NewManager(types.NewPortfolio(cfg.Trading.InitialBalance), cfg.Trading.FeeRatePct)
	pm.SetLogger(sessionLog)
	rm := risk.NewManager(cfg.RiskConfig())
	rm.SetLogger(sessionLog)

	eng := engine.New(pm, rm, strategies, cfg.Trading.BuyAmount)
	eng.SetLogger(sessionLog)

	health := monitoring.NewHealthChecker()
	startMonitoringServers(cfg, health)

	log.Printf("🚀 Paper trader started - balance %.0f, %d strategies", cfg.Trading.InitialBalance, len(strategies))

	input := os.Stdin
	if *ticksFile != "" {
		f, err := os.Open(*ticksFile)
		if err != nil {
			log.Fatalf("❌ Failed to open tick stream: %v", err)
		}
		defer f.Close()
		input = f
	}

	currentPrices := make(map[string]float64)
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var wire tickWire
		if err := json.Unmarshal(line, &wire); err != nil {
			sessionLog.Error("Malformed tick: %v", err)
			monitoring.RecordError("tick_decode")
			continue
		}

		tick := wire.toTick()
		health.RecordTick(tick.Price)
		currentPrices[tick.Ticker] = tick.Price

		trades := eng.ProcessTick(tick)
		for _, trade := range trades {
			log.Printf("💸 %s %s %.8f @ %.2f (%s)", trade.Side, trade.Ticker, trade.Quantity, trade.Price, trade.Reason)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("⚠️ Tick stream ended with error: %v", err)
	}

	reporting.PrintSummary(eng.Summary())
	reporting.PrintPositions(pm.OpenPositions(), currentPrices)

	if *exportPath != "" {
		if err := reporting.NewExcelReporter().WriteTradesXLSX(eng.TradeLog(), *exportPath); err != nil {
			log.Printf("❌ Failed to write trade export: %v", err)
		} else {
			log.Printf("📁 Trade history written to %s", *exportPath)
		}
	}
}

// buildStrategies instantiates the enabled strategies from configuration,
// preserving declaration order.
func buildStrategies(cfg *config.Config) ([]strategy.Strategy, error) {
	factory := strategy.NewFactory()
	var strategies []strategy.Strategy
	for _, sc := range cfg.EnabledStrategies() {
		st, err := factory.Create(sc.Template, sc.Params)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, st)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no strategies enabled")
	}
	return strategies, nil
}

func startMonitoringServers(cfg *config.Config, health *monitoring.HealthChecker) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", monitoring.NewMetricsHandler())
		addr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("⚠️ Metrics server stopped: %v", err)
		}
	}()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/health", health)
		addr := fmt.Sprintf(":%d", cfg.Monitoring.HealthPort)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("⚠️ Health server stopped: %v", err)
		}
	}()
	// Give the listeners a moment before ticks start flowing
	time.Sleep(10 * time.Millisecond)
}

// loadEnvFile loads the named .env file, or the default one when present.
func loadEnvFile(envFile string) error {
	if envFile != "" {
		return godotenv.Load(envFile)
	}
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load()
	}
	return fmt.Errorf("no .env file found")
}
