package form

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "angple_content",
		Subsystem: "form",
		Name:      "persistence_operations_total",
		Help:      "Form persistence operations by operation and result",
	},
	[]string{"operation", "result"},
)

func observe(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
}
