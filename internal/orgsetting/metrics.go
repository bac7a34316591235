package orgsetting

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultEnabled  = "enabled"
	resultDisabled = "disabled"
	resultError    = "error"
)

var gateDecisions = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "gate_decisions_total",
		Help: "Number of feature gate evaluations, differentiated by setting and result.",
	},
	[]string{"setting", "result"},
)

func recordDecision(key, result string) {
	gateDecisions.WithLabelValues(key, result).Inc()
}
