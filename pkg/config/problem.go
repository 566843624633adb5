package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v2"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Problem is a 0-1 program as written in a problem file:
//
//	variables: [a, b, c]
//	rows:
//	- name: capacity
//	  terms: {a: 2, b: 3, c: 4}
//	  upper: 5
//	objective:
//	  sense: max
//	  terms: {a: 3, b: 4, c: 5}
type Problem struct {
	Variables []string  `yaml:"variables"`
	Rows      []Row     `yaml:"rows"`
	Objective Objective `yaml:"objective"`
}

// Row is lower <= sum(terms) <= upper. Either bound may be omitted.
type Row struct {
	Name  string             `yaml:"name"`
	Terms map[string]float64 `yaml:"terms"`
	Lower *float64           `yaml:"lower"`
	Upper *float64           `yaml:"upper"`
}

type Objective struct {
	Sense string             `yaml:"sense"`
	Terms map[string]float64 `yaml:"terms"`
}

func LoadProblem(path string) (*Problem, error) {
	d, err := os.ReadFile(os.ExpandEnv(path))
	if err != nil {
		return nil, err
	}
	p := &Problem{}
	if err := yaml.UnmarshalStrict(d, p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return p, nil
}

// Validate reports every problem with p at once.
func (p *Problem) Validate() error {
	var errs []error
	known := make(map[string]bool, len(p.Variables))
	for _, name := range p.Variables {
		if known[name] {
			errs = append(errs, fmt.Errorf("variable %q declared twice", name))
		}
		known[name] = true
	}
	check := func(where string, terms map[string]float64) {
		for _, name := range sortedKeys(terms) {
			if !known[name] {
				errs = append(errs, fmt.Errorf("%s: unknown variable %q", where, name))
			}
		}
	}
	for i, r := range p.Rows {
		where := fmt.Sprintf("row %d", i)
		if r.Name != "" {
			where = fmt.Sprintf("row %q", r.Name)
		}
		check(where, r.Terms)
		switch {
		case r.Lower == nil && r.Upper == nil:
			errs = append(errs, fmt.Errorf("%s: no bounds", where))
		case r.Lower != nil && r.Upper != nil && *r.Lower > *r.Upper:
			errs = append(errs, fmt.Errorf("%s: lower bound %g above upper bound %g", where, *r.Lower, *r.Upper))
		}
	}
	check("objective", p.Objective.Terms)
	if _, err := p.Objective.sense(); err != nil {
		errs = append(errs, err)
	}
	return utilerrors.NewAggregate(errs)
}

func (o Objective) sense() (moi.OptimizationSense, error) {
	switch o.Sense {
	case "", "feasibility":
		return moi.FeasibilitySense, nil
	case "min":
		return moi.MinSense, nil
	case "max":
		return moi.MaxSense, nil
	}
	return moi.FeasibilitySense, fmt.Errorf("unknown objective sense %q", o.Sense)
}

// Indices maps variable names to the indices Build added them under.
type Indices struct {
	Variables   map[string]moi.VariableIndex
	Constraints map[string]moi.ConstraintIndex
}

// Build adds p to m. Every variable is binary. An objective that is a single
// variable with coefficient one is set as a SingleVariable objective.
func (p *Problem) Build(m moi.ModelLike) (*Indices, error) {
	sense, err := p.Objective.sense()
	if err != nil {
		return nil, err
	}

	idx := &Indices{
		Variables:   make(map[string]moi.VariableIndex, len(p.Variables)),
		Constraints: make(map[string]moi.ConstraintIndex, len(p.Rows)),
	}
	for _, name := range p.Variables {
		vi, _, err := m.AddConstrainedVariable(moi.ZeroOne{})
		if err != nil {
			return nil, fmt.Errorf("adding variable %q: %w", name, err)
		}
		if err := m.SetVariableAttribute(moi.VariableName{}, vi, name); err != nil {
			return nil, err
		}
		idx.Variables[name] = vi
	}

	for i, r := range p.Rows {
		ci, err := m.AddConstraint(idx.affine(r.Terms), r.set())
		if err != nil {
			return nil, fmt.Errorf("adding row %d: %w", i, err)
		}
		if r.Name != "" {
			if err := m.SetConstraintAttribute(moi.ConstraintName{}, ci, r.Name); err != nil {
				return nil, err
			}
			idx.Constraints[r.Name] = ci
		}
	}

	if sense == moi.FeasibilitySense {
		return idx, nil
	}
	var f moi.ScalarFunction = idx.affine(p.Objective.Terms)
	if len(p.Objective.Terms) == 1 {
		for name, c := range p.Objective.Terms {
			if c == 1 {
				f = moi.SingleVariable{Variable: idx.Variables[name]}
			}
		}
	}
	if err := m.Set(moi.ObjectiveFunction{Type: f.FunctionType()}, f); err != nil {
		return nil, err
	}
	if err := m.Set(moi.ObjectiveSense{}, sense); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Indices) affine(terms map[string]float64) moi.ScalarAffineFunction {
	f := moi.ScalarAffineFunction{}
	for _, name := range sortedKeys(terms) {
		f.Terms = append(f.Terms, moi.Term(terms[name], idx.Variables[name]))
	}
	return f
}

func (r Row) set() moi.ScalarSet {
	switch {
	case r.Lower == nil:
		return moi.LessThan{Upper: *r.Upper}
	case r.Upper == nil:
		return moi.GreaterThan{Lower: *r.Lower}
	case *r.Lower == *r.Upper:
		return moi.EqualTo{Value: *r.Lower}
	}
	return moi.Interval{Lower: *r.Lower, Upper: *r.Upper}
}

func sortedKeys(terms map[string]float64) []string {
	keys := make([]string, 0, len(terms))
	for k := range terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
