package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the engine's self-contained prometheus collector set. The
// engine only owns the Registry; wiring it to an http.Handler for scraping
// is left to whoever embeds the engine.
type Metrics struct {
	Registry *prometheus.Registry

	ordersSubmitted *prometheus.CounterVec
	ordersRejected  *prometheus.CounterVec
	tradesExecuted  *prometheus.CounterVec
	restingDepth    *prometheus.GaugeVec
}

// NewMetrics builds and registers a fresh collector set.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		ordersSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clob_orders_submitted_total",
			Help: "Orders accepted for matching, by symbol and order type.",
		}, []string{"symbol", "type"}),
		ordersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clob_orders_rejected_total",
			Help: "Orders rejected before or during matching, by reason.",
		}, []string{"symbol", "reason"}),
		tradesExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clob_trades_executed_total",
			Help: "Trades executed, by symbol.",
		}, []string{"symbol"}),
		restingDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "clob_resting_orders",
			Help: "Resting order count per symbol and side.",
		}, []string{"symbol", "side"}),
	}

	reg.MustRegister(m.ordersSubmitted, m.ordersRejected, m.tradesExecuted, m.restingDepth)
	return m
}

func (m *Metrics) observeSubmit(symbol, orderType string) {
	m.ordersSubmitted.WithLabelValues(symbol, orderType).Inc()
}

func (m *Metrics) observeReject(symbol, reason string) {
	m.ordersRejected.WithLabelValues(symbol, reason).Inc()
}

func (m *Metrics) observeTrades(symbol string, n int) {
	if n > 0 {
		m.tradesExecuted.WithLabelValues(symbol).Add(float64(n))
	}
}

func (m *Metrics) setRestingDepth(symbol string, bidOrders, askOrders int) {
	m.restingDepth.WithLabelValues(symbol, "buy").Set(float64(bidOrders))
	m.restingDepth.WithLabelValues(symbol, "sell").Set(float64(askOrders))
}
