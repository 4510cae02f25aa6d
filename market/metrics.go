package market

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSubsystem is the prometheus subsystem label for all engine metrics.
const MetricsSubsystem = "market"

// Metrics holds the engine's prometheus instruments. Use PrometheusMetrics
// for a registered set or NopMetrics for unregistered throwaways in tests.
type Metrics struct {
	MintedTotal    prometheus.Counter
	PurchasesTotal prometheus.Counter
	DepositsTotal  prometheus.Counter

	FloorPrice     prometheus.Gauge
	NextPrice      prometheus.Gauge
	ActiveListings prometheus.Gauge
	PoolBalance    prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		MintedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: MetricsSubsystem,
			Name:      "minted_total",
			Help:      "Assets issued from the curve.",
		}),
		PurchasesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: MetricsSubsystem,
			Name:      "purchases_total",
			Help:      "Completed marketplace purchases.",
		}),
		DepositsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: MetricsSubsystem,
			Name:      "deposits_total",
			Help:      "Minting pool deposits.",
		}),
		FloorPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem: MetricsSubsystem,
			Name:      "floor_price",
			Help:      "Current floor price in whole units, 0 when nothing is listed.",
		}),
		NextPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem: MetricsSubsystem,
			Name:      "next_price",
			Help:      "Curve price of the next issuance in whole units.",
		}),
		ActiveListings: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem: MetricsSubsystem,
			Name:      "active_listings",
			Help:      "Listings currently on the book.",
		}),
		PoolBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem: MetricsSubsystem,
			Name:      "pool_balance",
			Help:      "Minting pool balance in whole units.",
		}),
	}
}

// PrometheusMetrics registers the instrument set with the given registerer.
func PrometheusMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.MintedTotal, m.PurchasesTotal, m.DepositsTotal,
		m.FloorPrice, m.NextPrice, m.ActiveListings, m.PoolBalance,
	)
	return m
}

// NopMetrics returns unregistered instruments that still accept writes.
func NopMetrics() *Metrics {
	return newMetrics()
}

// observe refreshes the gauges from current engine state; counters are bumped
// at the call sites.
func (e *Engine) observe() {
	e.metrics.FloorPrice.Set(AmountToFloat(e.book.floor))
	e.metrics.ActiveListings.Set(float64(e.book.len()))
	e.metrics.PoolBalance.Set(AmountToFloat(e.pool.balance))
	if p, err := e.params.curve().Price(e.issued); err == nil {
		e.metrics.NextPrice.Set(AmountToFloat(p))
	}
}
