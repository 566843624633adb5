package bridges

import (
	"math"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges/constraint"
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/objective"
	"github.com/amburosesekar/mathoptinterface/pkg/bridges/variable"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

type nodeKind int

const (
	variableNode nodeKind = iota
	constraintNode
	objectiveNode
)

// node is a constrained-variable set, a constraint type or an objective
// function type.
type node struct {
	kind nodeKind
	s    moi.SetType
	c    moi.ConstraintType
	f    moi.FunctionType
}

func variableNodeOf(s moi.SetType) node          { return node{kind: variableNode, s: s} }
func constraintNodeOf(t moi.ConstraintType) node { return node{kind: constraintNode, c: t} }
func objectiveNodeOf(f moi.FunctionType) node    { return node{kind: objectiveNode, f: f} }

// freeConstraintType is the constraint that makes free variables members
// of s.
func freeConstraintType(s moi.SetType) moi.ConstraintType {
	return moi.ConstraintType{F: moi.VariableFunctionType(s), S: s}
}

const infinity = math.MaxInt32

// Realization describes how the optimizer realizes a constraint type, a
// constrained-variable set or an objective function type.
type Realization struct {
	// Native is set when the model beneath supports it directly.
	Native bool
	// Bridge names the bridge type used, empty when Native.
	Bridge string
	// ViaConstraint is set for constrained variables realized as free
	// variables plus a constraint.
	ViaConstraint bool
	// Cost is the number of bridges involved.
	Cost      int
	Supported bool

	variable   variable.Type
	constraint constraint.Type
	objective  objective.Type
}

// option is one applicable bridge type and the nodes its bridges add.
type option struct {
	added      []node
	variable   variable.Type
	constraint constraint.Type
	objective  objective.Type
}

func addedNodes(sets []moi.SetType, cons []moi.ConstraintType) []node {
	var added []node
	for _, s := range sets {
		added = append(added, variableNodeOf(s))
	}
	for _, t := range cons {
		added = append(added, constraintNodeOf(t))
	}
	return added
}

// graph picks, for every node, the realization using the fewest bridges.
// Distances are computed by Bellman-Ford over the nodes reachable from a
// query and memoized until a bridge type is added.
type graph struct {
	backend     moi.ModelLike
	variables   []variable.Type
	constraints []constraint.Type
	objectives  []objective.Type
	memo        map[node]Realization
}

func newGraph(backend moi.ModelLike) *graph {
	return &graph{backend: backend, memo: make(map[node]Realization)}
}

func (g *graph) invalidate() {
	g.memo = make(map[node]Realization)
}

func (g *graph) native(n node) bool {
	switch n.kind {
	case variableNode:
		if n.s.IsScalar() {
			return g.backend.SupportsAddConstrainedVariable(n.s)
		}
		return g.backend.SupportsAddConstrainedVariables(n.s)
	case constraintNode:
		return g.backend.SupportsConstraint(n.c)
	}
	return g.backend.Supports(moi.ObjectiveFunction{Type: n.f})
}

func (g *graph) options(n node) []option {
	var out []option
	switch n.kind {
	case variableNode:
		for _, t := range g.variables {
			if t.Supports(n.s) {
				out = append(out, option{
					added:    addedNodes(t.AddedConstrainedVariableTypes(n.s), t.AddedConstraintTypes(n.s)),
					variable: t,
				})
			}
		}
	case constraintNode:
		for _, t := range g.constraints {
			if t.Supports(n.c) {
				out = append(out, option{
					added:      addedNodes(t.AddedConstrainedVariableTypes(n.c), t.AddedConstraintTypes(n.c)),
					constraint: t,
				})
			}
		}
	case objectiveNode:
		for _, t := range g.objectives {
			if t.Supports(n.f) {
				added := addedNodes(t.AddedConstrainedVariableTypes(n.f), t.AddedConstraintTypes(n.f))
				out = append(out, option{
					added:     append(added, objectiveNodeOf(t.SetObjectiveType(n.f))),
					objective: t,
				})
			}
		}
	}
	return out
}

func (g *graph) reachable(from node) []node {
	seen := map[node]struct{}{from: {}}
	queue := []node{from}
	visit := func(m node) {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			queue = append(queue, m)
		}
	}
	for i := 0; i < len(queue); i++ {
		n := queue[i]
		if n.kind == variableNode {
			visit(constraintNodeOf(freeConstraintType(n.s)))
		}
		for _, o := range g.options(n) {
			for _, m := range o.added {
				visit(m)
			}
		}
	}
	return queue
}

func (g *graph) realization(n node) Realization {
	if r, ok := g.memo[n]; ok {
		return r
	}
	nodes := g.reachable(n)
	dist := make(map[node]int, len(nodes))
	best := make(map[node]Realization, len(nodes))
	for _, m := range nodes {
		if g.native(m) {
			dist[m] = 0
			best[m] = Realization{Native: true, Supported: true}
		} else {
			dist[m] = infinity
		}
	}
	for changed, round := true, 0; changed && round < len(nodes); round++ {
		changed = false
		for _, m := range nodes {
			if best[m].Native {
				continue
			}
			if r := g.relax(m, dist); r.Supported && r.Cost < dist[m] {
				dist[m] = r.Cost
				best[m] = r
				changed = true
			}
		}
	}
	for _, m := range nodes {
		g.memo[m] = best[m]
	}
	return best[n]
}

// relax returns the cheapest bridged realization of n given the current
// distances. Ties go to the bridge type registered first; a constrained
// variable prefers a free variable plus a constraint over a bridge of the
// same cost.
func (g *graph) relax(n node, dist map[node]int) Realization {
	r := Realization{Cost: infinity}
	for _, o := range g.options(n) {
		c := 1
		for _, m := range o.added {
			if dist[m] == infinity {
				c = infinity
				break
			}
			c += dist[m]
		}
		if c >= r.Cost {
			continue
		}
		r = Realization{Cost: c, Supported: true, variable: o.variable, constraint: o.constraint, objective: o.objective}
		switch {
		case o.variable != nil:
			r.Bridge = o.variable.Name()
		case o.constraint != nil:
			r.Bridge = o.constraint.Name()
		default:
			r.Bridge = o.objective.Name()
		}
	}
	if n.kind == variableNode {
		if c := dist[constraintNodeOf(freeConstraintType(n.s))]; c != infinity && c <= r.Cost {
			r = Realization{ViaConstraint: true, Cost: c, Supported: true}
		}
	}
	return r
}
