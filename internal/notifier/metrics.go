package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_events_total",
		Help: "Live events by type and delivery result.",
	}, []string{"type", "result"})

	subscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notifier_subscribers",
		Help: "Currently connected live subscribers.",
	})
)
