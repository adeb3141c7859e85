package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	finalizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuelpos_sessions_finalized_total",
		Help: "Sale sessions settled and written to the ledger.",
	})
	cancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuelpos_sessions_cancelled_total",
		Help: "Sale sessions cancelled by the cashier.",
	})
)
