package satopt

import (
	"fmt"
	"math"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// circuit performs translation between the model and the variables and
// gates of the SAT formula. Every row is guarded by its own activation
// literal so that failed assumptions map back to constraint indices.
type circuit struct {
	c         *logic.C
	maxWeight int

	vars  []moi.VariableIndex
	lits  map[moi.VariableIndex]z.Lit
	rows  map[z.Lit]moi.ConstraintIndex
	order []z.Lit
	roots []z.Lit

	// objective counts the weighted literals whose total is minimized.
	objective     *logic.CardSort
	objectiveLits []z.Lit

	errs []error
}

func newCircuit(maxWeight int) *circuit {
	return &circuit{
		c:         logic.NewC(),
		maxWeight: maxWeight,
		lits:      make(map[moi.VariableIndex]z.Lit),
		rows:      make(map[z.Lit]moi.ConstraintIndex),
	}
}

// Error aggregates everything that kept the model from being compiled.
func (d *circuit) Error() error {
	return utilerrors.NewAggregate(d.errs)
}

func (d *circuit) invalid(format string, args ...interface{}) {
	d.errs = append(d.errs, fmt.Errorf(format, args...))
}

func (d *circuit) addVariable(vi moi.VariableIndex) {
	d.lits[vi] = d.c.Lit()
	d.vars = append(d.vars, vi)
}

func integral(a float64) (int, bool) {
	if math.IsInf(a, 0) || math.IsNaN(a) || math.Trunc(a) != a {
		return 0, false
	}
	return int(a), true
}

// weighted turns f into a multiset of literals: a term a*x contributes a
// copies of x when a is positive and |a| copies of not x otherwise, in
// which case offset absorbs a. The sum of f equals offset plus the number
// of true literals.
func (d *circuit) weighted(subject fmt.Stringer, f moi.ScalarAffineFunction) (ms []z.Lit, offset int, ok bool) {
	for _, t := range f.Canonical().Terms {
		a, isInt := integral(t.Coefficient)
		if !isInt {
			d.invalid("%s: coefficient %g of %s is not integral", subject, t.Coefficient, t.Variable)
			return nil, 0, false
		}
		m, known := d.lits[t.Variable]
		if !known {
			d.invalid("%s: unknown variable %s", subject, t.Variable)
			return nil, 0, false
		}
		if a < 0 {
			m = m.Not()
			offset += a
			a = -a
		}
		if len(ms)+a > d.maxWeight {
			d.invalid("%s: total weight exceeds %d", subject, d.maxWeight)
			return nil, 0, false
		}
		for i := 0; i < a; i++ {
			ms = append(ms, m)
		}
	}
	return ms, offset, true
}

// atMost returns a literal that is true iff at most k of ms are true.
func (d *circuit) atMost(ms []z.Lit, k int) z.Lit {
	switch {
	case k < 0:
		return d.c.F
	case k >= len(ms):
		return d.c.T
	}
	return d.c.CardSort(ms).Leq(k)
}

// atLeast returns a literal that is true iff at least k of ms are true.
func (d *circuit) atLeast(ms []z.Lit, k int) z.Lit {
	switch {
	case k <= 0:
		return d.c.T
	case k > len(ms):
		return d.c.F
	}
	return d.c.CardSort(ms).Geq(k)
}

func (d *circuit) addRow(ci moi.ConstraintIndex, f moi.ScalarAffineFunction, s moi.Set) {
	ms, offset, ok := d.weighted(ci, f)
	if !ok {
		return
	}
	var m z.Lit
	switch set := s.(type) {
	case moi.LessThan:
		m = d.atMost(ms, int(math.Floor(set.Upper))-offset)
	case moi.GreaterThan:
		m = d.atLeast(ms, int(math.Ceil(set.Lower))-offset)
	case moi.EqualTo:
		v, isInt := integral(set.Value)
		if !isInt {
			m = d.c.F
			break
		}
		m = d.c.And(d.atMost(ms, v-offset), d.atLeast(ms, v-offset))
	default:
		d.invalid("%s: unsupported set %s", ci, s)
		return
	}
	a := d.c.Lit()
	d.rows[a] = ci
	d.order = append(d.order, a)
	d.roots = append(d.roots, d.c.Implies(a, m))
}

// setObjective prepares the cardinality constraints used to minimize f,
// or to maximize it when maximize is set.
func (d *circuit) setObjective(f moi.ScalarAffineFunction, maximize bool) {
	if maximize {
		f = f.Scale(-1)
	}
	ms, _, ok := d.weighted(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}, f)
	if !ok || len(ms) == 0 {
		return
	}
	d.objective = d.c.CardSort(ms)
	d.objectiveLits = ms
}

// AddConstraints teaches g the circuit and the implications from every
// activation literal to its row.
func (d *circuit) AddConstraints(g inter.Adder) {
	d.c.ToCnf(g)
	for _, r := range d.roots {
		g.Add(r)
		g.Add(z.LitNull)
	}
	// Tautologies, so that unconstrained variables still get a value.
	for _, vi := range d.vars {
		m := d.lits[vi]
		g.Add(m)
		g.Add(m.Not())
		g.Add(z.LitNull)
	}
}

func (d *circuit) AssumeConstraints(g inter.Assumable) {
	g.Assume(d.order...)
}

// Conflicts maps the failed assumptions of the last unsatisfiable solve
// to constraint indices, in the order the constraints were compiled.
func (d *circuit) Conflicts(g inter.Assumable) []moi.ConstraintIndex {
	failed := make(map[z.Lit]struct{})
	for _, m := range g.Why(nil) {
		failed[m] = struct{}{}
	}
	var cis []moi.ConstraintIndex
	for _, a := range d.order {
		if _, ok := failed[a]; ok {
			cis = append(cis, d.rows[a])
		}
	}
	return cis
}

func (d *circuit) Values(g inter.Model) map[moi.VariableIndex]float64 {
	values := make(map[moi.VariableIndex]float64, len(d.vars))
	for _, vi := range d.vars {
		if g.Value(d.lits[vi]) {
			values[vi] = 1
		}
	}
	return values
}
