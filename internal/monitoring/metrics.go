package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alpha_agent_trades_total",
			Help: "Total number of trades submitted",
		},
		[]string{"symbol", "action"},
	)

	tradeQuantity = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alpha_agent_trade_quantity",
			Help:    "Distribution of trade quantities",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"symbol"},
	)

	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "alpha_agent_current_price",
			Help: "Latest observed price per trading pair",
		},
		[]string{"symbol"},
	)

	strategyStrength = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "alpha_agent_strategy_strength",
			Help: "Latest signal strength per strategy",
		},
		[]string{"strategy"},
	)

	riskScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "alpha_agent_risk_score",
			Help: "Latest overall risk score",
		},
	)

	portfolioValue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "alpha_agent_portfolio_value",
			Help: "Latest portfolio value",
		},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alpha_agent_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(tradeQuantity)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(strategyStrength)
	prometheus.MustRegister(riskScore)
	prometheus.MustRegister(portfolioValue)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler serves the Prometheus metrics endpoint.
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordTrade records a submitted trade.
func RecordTrade(symbol, action string, quantity float64) {
	tradesTotal.WithLabelValues(symbol, action).Inc()
	tradeQuantity.WithLabelValues(symbol).Observe(quantity)
}

// UpdatePrice updates the latest price gauge.
func UpdatePrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}

// UpdateStrategyStrength updates a strategy's signal strength gauge.
func UpdateStrategyStrength(strategy string, strength float64) {
	strategyStrength.WithLabelValues(strategy).Set(strength)
}

// UpdateRiskScore updates the overall risk score gauge.
func UpdateRiskScore(score float64) {
	riskScore.Set(score)
}

// UpdatePortfolioValue updates the portfolio value gauge.
func UpdatePortfolioValue(value float64) {
	portfolioValue.Set(value)
}

// RecordError records an error by type.
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
