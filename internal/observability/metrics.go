// Package observability registers the Prometheus metrics for the signup service.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	signupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "registry",
		Name:      "signups_total",
		Help:      "Number of successful signups per activity.",
	}, []string{"activity"})

	unregistrationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "registry",
		Name:      "unregistrations_total",
		Help:      "Number of successful unregistrations per activity.",
	}, []string{"activity"})

	rejectionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "registry",
		Name:      "rejections_total",
		Help:      "Number of rejected roster mutations grouped by operation and reason.",
	}, []string{"operation", "reason"})

	rosterSizeGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "signup_service",
		Subsystem: "registry",
		Name:      "roster_size",
		Help:      "Current number of participants per activity.",
	}, []string{"activity"})
)

func init() {
	prometheus.MustRegister(signupCounter, unregistrationCounter, rejectionCounter, rosterSizeGauge)
}

// RecordSignup increments the signup counter for the activity.
func RecordSignup(activity string) {
	signupCounter.WithLabelValues(activity).Inc()
}

// RecordUnregistration increments the unregistration counter for the activity.
func RecordUnregistration(activity string) {
	unregistrationCounter.WithLabelValues(activity).Inc()
}

// RecordRejection counts a rejected mutation.
func RecordRejection(operation, reason string) {
	rejectionCounter.WithLabelValues(operation, reason).Inc()
}

// SetRosterSize updates the roster size gauge for the activity.
func SetRosterSize(activity string, size int) {
	rosterSizeGauge.WithLabelValues(activity).Set(float64(size))
}
