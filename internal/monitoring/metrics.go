package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Trading metrics
	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coin_trader_trades_total",
			Help: "Total number of trades executed",
		},
		[]string{"ticker", "side"},
	)

	tradeAmount = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coin_trader_trade_amount",
			Help:    "Distribution of trade quote amounts",
			Buckets: prometheus.ExponentialBuckets(1000, 10, 6),
		},
		[]string{"ticker"},
	)

	// Market data metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coin_trader_current_price",
			Help: "Last observed price per ticker",
		},
		[]string{"ticker"},
	)

	// Portfolio metrics
	quoteBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "coin_trader_quote_balance",
			Help: "Quote currency balance available for buys",
		},
	)

	openPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "coin_trader_open_positions",
			Help: "Number of currently open positions",
		},
	)

	// Strategy metrics
	strategySignals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coin_trader_strategy_signals_total",
			Help: "Signals emitted per strategy and type",
		},
		[]string{"strategy", "type"},
	)

	// Risk metrics
	riskRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coin_trader_risk_rejections_total",
			Help: "Signals rejected by the risk manager, per rule",
		},
		[]string{"rule"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coin_trader_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(tradeAmount)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(quoteBalance)
	prometheus.MustRegister(openPositions)
	prometheus.MustRegister(strategySignals)
	prometheus.MustRegister(riskRejections)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordTrade records a trade metric
func RecordTrade(ticker, side string, quoteAmount float64) {
	tradesTotal.WithLabelValues(ticker, side).Inc()
	tradeAmount.WithLabelValues(ticker).Observe(quoteAmount)
}

// UpdatePrice updates the current price metric
func UpdatePrice(ticker string, price float64) {
	currentPrice.WithLabelValues(ticker).Set(price)
}

// UpdatePortfolio updates the balance and open-position gauges
func UpdatePortfolio(balance float64, open int) {
	quoteBalance.Set(balance)
	openPositions.Set(float64(open))
}

// RecordSignal records a strategy signal metric
func RecordSignal(strategy, signalType string) {
	strategySignals.WithLabelValues(strategy, signalType).Inc()
}

// RecordRiskRejection records a risk-manager rejection metric
func RecordRiskRejection(rule string) {
	riskRejections.WithLabelValues(rule).Inc()
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
