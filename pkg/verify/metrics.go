package verify

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	lookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelreg",
			Subsystem: "verify",
			Name:      "lookups_total",
			Help:      "Total catalog lookups by outcome",
		},
		[]string{"outcome"},
	)

	lookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "modelreg",
			Subsystem: "verify",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of catalog lookups in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(lookupsTotal, lookupDuration)
}

func observe(res Result) {
	lookupsTotal.WithLabelValues(res.Status.String()).Inc()
	if res.Duration > 0 {
		lookupDuration.Observe(res.Duration.Seconds())
	}
}
