package satopt

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/sirupsen/logrus"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

type searcher struct {
	circuit *circuit
	g       *gini.Gini
	logger  logrus.FieldLogger

	termination moi.TerminationStatusCode
	values      map[moi.VariableIndex]float64
	conflicts   []moi.ConstraintIndex
}

// run looks for a feasible assignment first and then, if there is an
// objective, for the smallest objective weight admitting one.
func (s *searcher) run(ctx context.Context) {
	d := s.circuit
	d.AssumeConstraints(s.g)
	switch waitForSolution(ctx, s.g.GoSolve()) {
	case satisfiable:
		s.values = d.Values(s.g)
	case unsatisfiable:
		s.termination = moi.Infeasible
		s.conflicts = d.Conflicts(s.g)
		return
	default:
		s.termination = moi.TimeLimitReached
		return
	}
	if d.objective == nil {
		s.termination = moi.Optimal
		return
	}

	bound := s.weight()
	s.logger.WithField("weight", bound).Debug("feasible assignment found")
	s.termination = moi.Optimal
	linearSearch(0, bound-1, func(w int) bool {
		s.g.Assume(d.objective.Leq(w))
		d.AssumeConstraints(s.g)
		switch waitForSolution(ctx, s.g.GoSolve()) {
		case satisfiable:
			s.logger.WithField("weight", w).Debug("objective bound reached")
			s.values = d.Values(s.g)
			return true
		case unsatisfiable:
			return false
		}
		// Keep the best assignment so far.
		s.termination = moi.TimeLimitReached
		return true
	})
}

// weight counts the objective literals that hold in the last model.
func (s *searcher) weight() int {
	n := 0
	for _, m := range s.circuit.objectiveLits {
		if s.g.Value(m) {
			n++
		}
	}
	return n
}

func waitForSolution(ctx context.Context, gs inter.Solve) int {
	t := time.NewTicker(50 * time.Millisecond)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return gs.Stop()
		case <-t.C:
			if result, ok := gs.Test(); ok {
				return result
			}
		}
	}
}

// linearSearch calls f with min, min+1, ... up to max and stops at the
// first value for which f returns true.
func linearSearch(min, max int, f func(int) bool) bool {
	for x := min; x <= max; x++ {
		if f(x) {
			return true
		}
	}
	return false
}
