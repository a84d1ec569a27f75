package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionsOpened = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pos_finance",
			Subsystem: "register",
			Name:      "sessions_opened_total",
			Help:      "Total number of register sessions opened",
		},
	)

	sessionsClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pos_finance",
			Subsystem: "register",
			Name:      "sessions_closed_total",
			Help:      "Total number of register sessions closed",
		},
	)

	lastCashDifference = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pos_finance",
			Subsystem: "register",
			Name:      "last_cash_difference",
			Help:      "Cash difference of the most recently closed session (negative = shortage)",
		},
	)

	ordersMigrated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pos_finance",
			Subsystem: "archiver",
			Name:      "orders_migrated_total",
			Help:      "Total number of orders moved to the archive",
		},
	)

	migrationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pos_finance",
			Subsystem: "archiver",
			Name:      "migration_failures_total",
			Help:      "Total number of orders that failed to migrate",
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		sessionsOpened,
		sessionsClosed,
		lastCashDifference,
		ordersMigrated,
		migrationFailures,
	)
}
