// Package metrics exposes the handful of counters and gauges that let an
// operator watch STFS's shift schedule from the outside: total accesses,
// total shifts, and the locator's last search depth.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccessesTotal counts every completed Mount.Access call.
	AccessesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stfs",
		Name:      "accesses_total",
		Help:      "Total number of table accesses gated through shift.Mount.Access.",
	})

	// ShiftsTotal counts every completed table relocation.
	ShiftsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stfs",
		Name:      "shifts_total",
		Help:      "Total number of table shifts (relocations), including wraps.",
	})

	// AccessesLeft reports the current table's remaining access budget.
	AccessesLeft = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "stfs",
		Name:      "accesses_left",
		Help:      "Accesses remaining before the next shift, as of the last Access call.",
	})

	// SearchIterations reports the number of bisection iterations of the
	// most recent Locator search, confirming the O(log N) bound empirically.
	SearchIterations = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "stfs",
		Name:      "search_iterations",
		Help:      "Bisection iterations performed by the most recent trail search.",
	})
)
