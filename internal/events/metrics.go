package events

import "github.com/prometheus/client_golang/prometheus"

var (
	publishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Number of roster events delivered to Kafka.",
	}, []string{"event_type"})

	publishFailedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Number of roster events that could not be delivered.",
	}, []string{"event_type"})

	droppedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "events",
		Name:      "dropped_total",
		Help:      "Number of roster events dropped because the queue was full.",
	})

	queueDepthGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "signup_service",
		Subsystem: "events",
		Name:      "queue_depth",
		Help:      "Number of roster events waiting to be delivered.",
	})
)

func init() {
	prometheus.MustRegister(publishedCounter, publishFailedCounter, droppedCounter, queueDepthGauge)
}
