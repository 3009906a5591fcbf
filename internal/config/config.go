package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/cointrader/coin-trader/internal/errors"
	"github.com/cointrader/coin-trader/internal/risk"
)

// Config is the full application configuration: trading parameters, risk
// rules, the ordered strategy set, and monitoring ports. Values come from
// defaults, then an optional JSON file, then environment overrides.
type Config struct {
	Mode string `json:"mode"`

	Trading struct {
		InitialBalance float64  `json:"initial_balance"`
		BuyAmount      float64  `json:"buy_amount"`
		FeeRatePct     float64  `json:"fee_rate_pct"`
		TargetTickers  []string `json:"target_tickers"`
	} `json:"trading"`

	Risk struct {
		StopLossPct     float64 `json:"stop_loss_pct"`
		TakeProfitPct   float64 `json:"take_profit_pct"`
		TrailingStopPct float64 `json:"trailing_stop_pct"`
		MaxDailyLossPct float64 `json:"max_daily_loss_pct"`
		MaxDrawdownPct  float64 `json:"max_drawdown_pct"`
		MaxPositions    int     `json:"max_positions"`
	} `json:"risk"`

	// Strategies are instantiated in declaration order; the engine
	// evaluates them in the same order.
	Strategies []StrategyConfig `json:"strategies"`

	Monitoring struct {
		PrometheusPort int `json:"prometheus_port"`
		HealthPort     int `json:"health_port"`
	} `json:"monitoring"`

	Data struct {
		CandleFile string `json:"candle_file"`
	} `json:"data"`
}

// StrategyConfig selects a strategy template with its parameter map.
type StrategyConfig struct {
	Template string                 `json:"template"`
	Enabled  bool                   `json:"enabled"`
	Params   map[string]interface{} `json:"params"`
}

// Default returns the stock configuration.
func Default() *Config {
	cfg := &Config{Mode: "paper"}

	cfg.Trading.InitialBalance = 1_000_000
	cfg.Trading.BuyAmount = 100_000
	cfg.Trading.FeeRatePct = 0.05
	cfg.Trading.TargetTickers = []string{"KRW-BTC", "KRW-ETH", "KRW-XRP", "KRW-SOL", "KRW-DOGE"}

	cfg.Risk.StopLossPct = -5.0
	cfg.Risk.TakeProfitPct = 10.0
	cfg.Risk.TrailingStopPct = 3.0
	cfg.Risk.MaxDailyLossPct = -3.0
	cfg.Risk.MaxDrawdownPct = -15.0
	cfg.Risk.MaxPositions = 5

	cfg.Strategies = []StrategyConfig{
		{Template: "dip_buy", Enabled: true, Params: map[string]interface{}{}},
	}

	cfg.Monitoring.PrometheusPort = 8080
	cfg.Monitoring.HealthPort = 8081

	return cfg
}

// Load builds the configuration from defaults, an optional JSON file, and
// environment overrides, then validates it.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorCategoryConfig, "config", "failed to read config file")
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrorCategoryConfig, "config", "failed to parse config file")
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Mode = getEnv("TRADING_MODE", c.Mode)
	c.Trading.InitialBalance = getEnvFloat("INITIAL_BALANCE", c.Trading.InitialBalance)
	c.Trading.BuyAmount = getEnvFloat("BUY_AMOUNT", c.Trading.BuyAmount)
	c.Trading.FeeRatePct = getEnvFloat("FEE_RATE_PCT", c.Trading.FeeRatePct)
	c.Risk.MaxPositions = getEnvInt("MAX_POSITIONS", c.Risk.MaxPositions)
	c.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", c.Monitoring.PrometheusPort)
	c.Monitoring.HealthPort = getEnvInt("HEALTH_PORT", c.Monitoring.HealthPort)
	c.Data.CandleFile = getEnv("CANDLE_FILE", c.Data.CandleFile)
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Trading.InitialBalance <= 0 {
		return errors.NewConfigError("config", "initial_balance must be positive")
	}
	if c.Trading.BuyAmount <= 0 {
		return errors.NewConfigError("config", "buy_amount must be positive")
	}
	if c.Trading.FeeRatePct < 0 || c.Trading.FeeRatePct >= 100 {
		return errors.NewConfigError("config", "fee_rate_pct must be in [0, 100)")
	}
	if c.Risk.MaxPositions <= 0 {
		return errors.NewConfigError("config", "max_positions must be positive")
	}
	if c.Risk.StopLossPct >= 0 {
		return errors.NewConfigError("config", "stop_loss_pct must be negative")
	}
	if c.Risk.MaxDailyLossPct >= 0 {
		return errors.NewConfigError("config", "max_daily_loss_pct must be negative")
	}
	for i, sc := range c.Strategies {
		if sc.Template == "" {
			return errors.NewConfigError("config", fmt.Sprintf("strategy %d has no template", i))
		}
	}
	return nil
}

// RiskConfig converts the risk section into the risk manager's config.
func (c *Config) RiskConfig() risk.Config {
	return risk.Config{
		StopLossPct:     c.Risk.StopLossPct,
		TakeProfitPct:   c.Risk.TakeProfitPct,
		TrailingStopPct: c.Risk.TrailingStopPct,
		MaxDailyLossPct: c.Risk.MaxDailyLossPct,
		MaxDrawdownPct:  c.Risk.MaxDrawdownPct,
		MaxPositions:    c.Risk.MaxPositions,
		InitialBalance:  c.Trading.InitialBalance,
	}
}

// EnabledStrategies returns the strategy configs flagged enabled, in order.
func (c *Config) EnabledStrategies() []StrategyConfig {
	enabled := make([]StrategyConfig, 0, len(c.Strategies))
	for _, sc := range c.Strategies {
		if sc.Enabled {
			enabled = append(enabled, sc)
		}
	}
	return enabled
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
