package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Audit loss is a degraded-observability event, not a provisioning
// failure; the counter is the out-of-band channel operators watch for
// audit-trail gaps.
var (
	writes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_writes_total",
		Help: "Audit entries successfully appended, by action.",
	}, []string{"action"})

	writeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_write_failures_total",
		Help: "Audit entries that failed to append, by action.",
	}, []string{"action"})
)

func ObserveWrite(action string) {
	writes.WithLabelValues(action).Inc()
}

func ObserveWriteFailure(action string) {
	writeFailures.WithLabelValues(action).Inc()
}

// WriteFailures exposes the failure counter for a given action so tests
// can assert on the side channel.
func WriteFailures(action string) prometheus.Counter {
	return writeFailures.WithLabelValues(action)
}
