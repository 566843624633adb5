package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	KindLabel = "kind"
	NameLabel = "name"
	FromLabel = "from"
	ToLabel   = "to"
	Outcome   = "outcome"
	Succeeded = "succeeded"
	Failed    = "failed"
)

// Bridge kinds used as KindLabel values.
const (
	VariableKind   = "variable"
	ConstraintKind = "constraint"
	ObjectiveKind  = "objective"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -o metricsfakes/fake_recorder.go . Recorder

// Recorder receives the events the bridging and caching layers report.
type Recorder interface {
	BridgeAdded(kind, name string)
	BridgeDeleted(kind, name string)
	StateTransition(from, to string)
}

var (
	activeBridges = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moi_bridges_active",
			Help: "Number of live bridges by kind and bridge type",
		},
		[]string{KindLabel, NameLabel},
	)

	bridgesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moi_bridges_created_total",
			Help: "Total number of bridges created by kind and bridge type",
		},
		[]string{KindLabel, NameLabel},
	)

	stateTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moi_caching_state_transitions_total",
			Help: "State transitions of caching optimizers",
		},
		[]string{FromLabel, ToLabel},
	)

	optimizeSummary = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "moi_optimize_duration_seconds",
			Help:       "The duration of Optimize calls",
			Objectives: map[float64]float64{0.95: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{Outcome},
	)
)

// Register adds every collector of this package to the default registry.
func Register() {
	prometheus.MustRegister(activeBridges)
	prometheus.MustRegister(bridgesCreated)
	prometheus.MustRegister(stateTransitions)
	prometheus.MustRegister(optimizeSummary)
}

func RegisterOptimizeSuccess(duration time.Duration) {
	optimizeSummary.WithLabelValues(Succeeded).Observe(duration.Seconds())
}

func RegisterOptimizeFailure(duration time.Duration) {
	optimizeSummary.WithLabelValues(Failed).Observe(duration.Seconds())
}

// Prometheus is the Recorder backed by this package's collectors.
type Prometheus struct{}

var _ Recorder = Prometheus{}

func (Prometheus) BridgeAdded(kind, name string) {
	activeBridges.WithLabelValues(kind, name).Inc()
	bridgesCreated.WithLabelValues(kind, name).Inc()
}

func (Prometheus) BridgeDeleted(kind, name string) {
	activeBridges.WithLabelValues(kind, name).Dec()
}

func (Prometheus) StateTransition(from, to string) {
	stateTransitions.WithLabelValues(from, to).Inc()
}

// Discard is a Recorder that drops every event.
type Discard struct{}

func (Discard) BridgeAdded(string, string)     {}
func (Discard) BridgeDeleted(string, string)   {}
func (Discard) StateTransition(string, string) {}
