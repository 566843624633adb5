package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorder(t *testing.T) {
	activeBridges.Reset()
	bridgesCreated.Reset()
	stateTransitions.Reset()

	var r Recorder = Prometheus{}
	r.BridgeAdded(ConstraintKind, "SplitInterval")
	r.BridgeAdded(ConstraintKind, "SplitInterval")
	r.BridgeDeleted(ConstraintKind, "SplitInterval")
	r.StateTransition("EmptyOptimizer", "AttachedOptimizer")

	assert.Equal(t, 1.0, testutil.ToFloat64(activeBridges.WithLabelValues(ConstraintKind, "SplitInterval")))
	assert.Equal(t, 2.0, testutil.ToFloat64(bridgesCreated.WithLabelValues(ConstraintKind, "SplitInterval")))
	assert.Equal(t, 1.0, testutil.ToFloat64(stateTransitions.WithLabelValues("EmptyOptimizer", "AttachedOptimizer")))
}

func TestOptimizeSummary(t *testing.T) {
	optimizeSummary.Reset()
	RegisterOptimizeSuccess(time.Second)
	RegisterOptimizeFailure(time.Millisecond)
	RegisterOptimizeFailure(time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(optimizeSummary))
}
