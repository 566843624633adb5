package caching

import (
	"time"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// InstrumentedOptimizer reports how long each Optimize call takes.
type InstrumentedOptimizer struct {
	moi.Optimizer
	successMetricsEmitter func(time.Duration)
	failureMetricsEmitter func(time.Duration)
}

var _ moi.Optimizer = &InstrumentedOptimizer{}

func NewInstrumentedOptimizer(optimizer moi.Optimizer, successMetricsEmitter, failureMetricsEmitter func(time.Duration)) *InstrumentedOptimizer {
	return &InstrumentedOptimizer{
		Optimizer:             optimizer,
		successMetricsEmitter: successMetricsEmitter,
		failureMetricsEmitter: failureMetricsEmitter,
	}
}

func (io *InstrumentedOptimizer) Optimize() error {
	start := time.Now()
	err := io.Optimizer.Optimize()
	if err != nil {
		io.failureMetricsEmitter(time.Since(start))
	} else {
		io.successMetricsEmitter(time.Since(start))
	}
	return err
}
