package moi

import (
	"fmt"
	"sort"
	"strings"
)

// FunctionType names a family of functions.
type FunctionType string

const (
	SingleVariableType       FunctionType = "SingleVariable"
	VectorOfVariablesType    FunctionType = "VectorOfVariables"
	ScalarAffineFunctionType FunctionType = "ScalarAffineFunction"
	VectorAffineFunctionType FunctionType = "VectorAffineFunction"
)

// IsScalar reports whether functions of type t have a single output.
func (t FunctionType) IsScalar() bool {
	return t == SingleVariableType || t == ScalarAffineFunctionType
}

// Function is implemented by every function of the modeling vocabulary.
type Function interface {
	FunctionType() FunctionType
	String() string
	isFunction()
}

// ScalarFunction is a Function with one output.
type ScalarFunction interface {
	Function
	isScalarFunction()
}

// VectorFunction is a Function with OutputDimension outputs.
type VectorFunction interface {
	Function
	OutputDimension() int
	isVectorFunction()
}

// SingleVariable is the function returning the value of one variable.
type SingleVariable struct {
	Variable VariableIndex
}

func (SingleVariable) FunctionType() FunctionType { return SingleVariableType }
func (SingleVariable) isFunction()                {}
func (SingleVariable) isScalarFunction()          {}

func (f SingleVariable) String() string {
	return f.Variable.String()
}

// VectorOfVariables is the function returning the values of an ordered list
// of variables.
type VectorOfVariables struct {
	Variables []VariableIndex
}

func (VectorOfVariables) FunctionType() FunctionType { return VectorOfVariablesType }
func (VectorOfVariables) isFunction()                {}
func (VectorOfVariables) isVectorFunction()          {}

func (f VectorOfVariables) OutputDimension() int {
	return len(f.Variables)
}

func (f VectorOfVariables) String() string {
	s := make([]string, len(f.Variables))
	for i, v := range f.Variables {
		s[i] = v.String()
	}
	return "[" + strings.Join(s, ", ") + "]"
}

// ScalarAffineTerm is coefficient * variable.
type ScalarAffineTerm struct {
	Coefficient float64
	Variable    VariableIndex
}

// Term is shorthand for a ScalarAffineTerm.
func Term(coefficient float64, v VariableIndex) ScalarAffineTerm {
	return ScalarAffineTerm{Coefficient: coefficient, Variable: v}
}

// ScalarAffineFunction is sum(terms) + constant.
type ScalarAffineFunction struct {
	Terms    []ScalarAffineTerm
	Constant float64
}

// NewScalarAffine builds a ScalarAffineFunction from its constant and terms.
func NewScalarAffine(constant float64, terms ...ScalarAffineTerm) ScalarAffineFunction {
	return ScalarAffineFunction{Terms: terms, Constant: constant}
}

// VariableAsAffine returns 1 * v as a ScalarAffineFunction.
func VariableAsAffine(v VariableIndex) ScalarAffineFunction {
	return ScalarAffineFunction{Terms: []ScalarAffineTerm{{Coefficient: 1, Variable: v}}}
}

func (ScalarAffineFunction) FunctionType() FunctionType { return ScalarAffineFunctionType }
func (ScalarAffineFunction) isFunction()                {}
func (ScalarAffineFunction) isScalarFunction()          {}

func (f ScalarAffineFunction) String() string {
	var b strings.Builder
	for i, t := range f.Terms {
		if i > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g %s", t.Coefficient, t.Variable)
	}
	if len(f.Terms) == 0 || f.Constant != 0 {
		if len(f.Terms) > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g", f.Constant)
	}
	return b.String()
}

// Copy returns a deep copy of f.
func (f ScalarAffineFunction) Copy() ScalarAffineFunction {
	return ScalarAffineFunction{Terms: append([]ScalarAffineTerm(nil), f.Terms...), Constant: f.Constant}
}

// Canonical merges duplicate variables, keeping the order of their first
// occurrence, and drops zero coefficients.
func (f ScalarAffineFunction) Canonical() ScalarAffineFunction {
	position := make(map[VariableIndex]int, len(f.Terms))
	terms := make([]ScalarAffineTerm, 0, len(f.Terms))
	for _, t := range f.Terms {
		if i, ok := position[t.Variable]; ok {
			terms[i].Coefficient += t.Coefficient
			continue
		}
		position[t.Variable] = len(terms)
		terms = append(terms, t)
	}
	out := terms[:0]
	for _, t := range terms {
		if t.Coefficient != 0 {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		out = nil
	}
	return ScalarAffineFunction{Terms: out, Constant: f.Constant}
}

// Scale multiplies every coefficient and the constant by alpha.
func (f ScalarAffineFunction) Scale(alpha float64) ScalarAffineFunction {
	g := f.Copy()
	for i := range g.Terms {
		g.Terms[i].Coefficient *= alpha
	}
	g.Constant *= alpha
	return g
}

// Plus returns f + g without canonicalizing.
func (f ScalarAffineFunction) Plus(g ScalarAffineFunction) ScalarAffineFunction {
	terms := make([]ScalarAffineTerm, 0, len(f.Terms)+len(g.Terms))
	terms = append(terms, f.Terms...)
	terms = append(terms, g.Terms...)
	return ScalarAffineFunction{Terms: terms, Constant: f.Constant + g.Constant}
}

// WithConstant returns a copy of f with its constant replaced.
func (f ScalarAffineFunction) WithConstant(c float64) ScalarAffineFunction {
	g := f.Copy()
	g.Constant = c
	return g
}

// WithoutVariable removes every term in v.
func (f ScalarAffineFunction) WithoutVariable(v VariableIndex) ScalarAffineFunction {
	terms := make([]ScalarAffineTerm, 0, len(f.Terms))
	for _, t := range f.Terms {
		if t.Variable != v {
			terms = append(terms, t)
		}
	}
	return ScalarAffineFunction{Terms: terms, Constant: f.Constant}
}

// Coefficient returns the summed coefficient of v in f.
func (f ScalarAffineFunction) Coefficient(v VariableIndex) float64 {
	var c float64
	for _, t := range f.Terms {
		if t.Variable == v {
			c += t.Coefficient
		}
	}
	return c
}

// Evaluate computes f given the value of each variable.
func (f ScalarAffineFunction) Evaluate(value func(VariableIndex) (float64, error)) (float64, error) {
	sum := f.Constant
	for _, t := range f.Terms {
		x, err := value(t.Variable)
		if err != nil {
			return 0, err
		}
		sum += t.Coefficient * x
	}
	return sum, nil
}

// VectorAffineTerm places a ScalarAffineTerm on one output row.
type VectorAffineTerm struct {
	OutputIndex int
	Term        ScalarAffineTerm
}

// VectorAffineFunction is a vector of affine rows stored as a sparse list of
// terms plus one constant per row.
type VectorAffineFunction struct {
	Terms     []VectorAffineTerm
	Constants []float64
}

func (VectorAffineFunction) FunctionType() FunctionType { return VectorAffineFunctionType }
func (VectorAffineFunction) isFunction()                {}
func (VectorAffineFunction) isVectorFunction()          {}

func (f VectorAffineFunction) OutputDimension() int {
	return len(f.Constants)
}

func (f VectorAffineFunction) String() string {
	rows := f.Rows()
	s := make([]string, len(rows))
	for i, r := range rows {
		s[i] = r.String()
	}
	return "[" + strings.Join(s, "; ") + "]"
}

// Copy returns a deep copy of f.
func (f VectorAffineFunction) Copy() VectorAffineFunction {
	return VectorAffineFunction{
		Terms:     append([]VectorAffineTerm(nil), f.Terms...),
		Constants: append([]float64(nil), f.Constants...),
	}
}

// Rows splits f into one ScalarAffineFunction per output.
func (f VectorAffineFunction) Rows() []ScalarAffineFunction {
	rows := make([]ScalarAffineFunction, len(f.Constants))
	for i, c := range f.Constants {
		rows[i].Constant = c
	}
	for _, t := range f.Terms {
		rows[t.OutputIndex].Terms = append(rows[t.OutputIndex].Terms, t.Term)
	}
	return rows
}

// VectorAffineFromRows stacks scalar rows into a VectorAffineFunction.
func VectorAffineFromRows(rows []ScalarAffineFunction) VectorAffineFunction {
	f := VectorAffineFunction{Constants: make([]float64, len(rows))}
	for i, r := range rows {
		f.Constants[i] = r.Constant
		for _, t := range r.Terms {
			f.Terms = append(f.Terms, VectorAffineTerm{OutputIndex: i, Term: t})
		}
	}
	return f
}

// Canonical orders terms by output row, merges duplicates and drops zeros.
func (f VectorAffineFunction) Canonical() VectorAffineFunction {
	rows := f.Rows()
	for i := range rows {
		rows[i] = rows[i].Canonical()
	}
	return VectorAffineFromRows(rows)
}

// RemoveOutput drops row i and renumbers the rows after it.
func (f VectorAffineFunction) RemoveOutput(i int) VectorAffineFunction {
	rows := f.Rows()
	rows = append(rows[:i:i], rows[i+1:]...)
	return VectorAffineFromRows(rows)
}

// WithoutVariable removes every term in v.
func (f VectorAffineFunction) WithoutVariable(v VariableIndex) VectorAffineFunction {
	g := VectorAffineFunction{Constants: append([]float64(nil), f.Constants...)}
	for _, t := range f.Terms {
		if t.Term.Variable != v {
			g.Terms = append(g.Terms, t)
		}
	}
	return g
}

// Evaluate computes every row of f given the value of each variable.
func (f VectorAffineFunction) Evaluate(value func(VariableIndex) (float64, error)) ([]float64, error) {
	out := append([]float64(nil), f.Constants...)
	for _, t := range f.Terms {
		x, err := value(t.Term.Variable)
		if err != nil {
			return nil, err
		}
		out[t.OutputIndex] += t.Term.Coefficient * x
	}
	return out, nil
}

// Variables lists the distinct variables of f in order of first appearance.
func Variables(f Function) []VariableIndex {
	var out []VariableIndex
	seen := make(map[VariableIndex]struct{})
	add := func(v VariableIndex) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	switch f := f.(type) {
	case SingleVariable:
		add(f.Variable)
	case VectorOfVariables:
		for _, v := range f.Variables {
			add(v)
		}
	case ScalarAffineFunction:
		for _, t := range f.Terms {
			add(t.Variable)
		}
	case VectorAffineFunction:
		for _, t := range f.Terms {
			add(t.Term.Variable)
		}
	}
	return out
}

// AnyVariable reports whether pred holds for some variable of f.
func AnyVariable(f Function, pred func(VariableIndex) bool) bool {
	for _, v := range Variables(f) {
		if pred(v) {
			return true
		}
	}
	return false
}

// MapVariables renames the variables of f, keeping its type.
func MapVariables(f Function, rename func(VariableIndex) VariableIndex) Function {
	switch f := f.(type) {
	case SingleVariable:
		return SingleVariable{Variable: rename(f.Variable)}
	case VectorOfVariables:
		vs := make([]VariableIndex, len(f.Variables))
		for i, v := range f.Variables {
			vs[i] = rename(v)
		}
		return VectorOfVariables{Variables: vs}
	case ScalarAffineFunction:
		g := f.Copy()
		for i := range g.Terms {
			g.Terms[i].Variable = rename(g.Terms[i].Variable)
		}
		return g
	case VectorAffineFunction:
		g := f.Copy()
		for i := range g.Terms {
			g.Terms[i].Term.Variable = rename(g.Terms[i].Term.Variable)
		}
		return g
	}
	return f
}

// Substitute replaces every variable of f by an affine expression. The result
// is a ScalarAffineFunction for scalar inputs and a VectorAffineFunction for
// vector inputs, in canonical form.
func Substitute(f Function, expr func(VariableIndex) (ScalarAffineFunction, error)) (Function, error) {
	switch f.(type) {
	case SingleVariable, ScalarAffineFunction:
		g := ToScalarAffine(f.(ScalarFunction))
		out := ScalarAffineFunction{Constant: g.Constant}
		for _, t := range g.Terms {
			e, err := expr(t.Variable)
			if err != nil {
				return nil, err
			}
			out = out.Plus(e.Scale(t.Coefficient))
		}
		return out.Canonical(), nil
	case VectorOfVariables, VectorAffineFunction:
		rows := ToVectorAffine(f.(VectorFunction)).Rows()
		for i, r := range rows {
			s, err := Substitute(r, expr)
			if err != nil {
				return nil, err
			}
			rows[i] = s.(ScalarAffineFunction)
		}
		return VectorAffineFromRows(rows), nil
	}
	return nil, fmt.Errorf("cannot substitute variables in %T", f)
}

// ToScalarAffine converts a scalar function to its affine form.
func ToScalarAffine(f ScalarFunction) ScalarAffineFunction {
	switch f := f.(type) {
	case SingleVariable:
		return VariableAsAffine(f.Variable)
	case ScalarAffineFunction:
		return f.Copy()
	}
	panic(fmt.Sprintf("unknown scalar function %T", f))
}

// ToVectorAffine converts a vector function to its affine form.
func ToVectorAffine(f VectorFunction) VectorAffineFunction {
	switch f := f.(type) {
	case VectorOfVariables:
		g := VectorAffineFunction{Constants: make([]float64, len(f.Variables))}
		for i, v := range f.Variables {
			g.Terms = append(g.Terms, VectorAffineTerm{OutputIndex: i, Term: Term(1, v)})
		}
		return g
	case VectorAffineFunction:
		return f.Copy()
	}
	panic(fmt.Sprintf("unknown vector function %T", f))
}

// AsSingleVariable converts f back to a SingleVariable when it is exactly
// 1 * x + 0.
func AsSingleVariable(f ScalarAffineFunction) (SingleVariable, bool) {
	g := f.Canonical()
	if g.Constant != 0 || len(g.Terms) != 1 || g.Terms[0].Coefficient != 1 {
		return SingleVariable{}, false
	}
	return SingleVariable{Variable: g.Terms[0].Variable}, true
}

// AsVectorOfVariables converts f back to a VectorOfVariables when every row
// is a lone variable with coefficient one and no constant.
func AsVectorOfVariables(f VectorAffineFunction) (VectorOfVariables, bool) {
	rows := f.Rows()
	vs := make([]VariableIndex, len(rows))
	for i, r := range rows {
		sv, ok := AsSingleVariable(r)
		if !ok {
			return VectorOfVariables{}, false
		}
		vs[i] = sv.Variable
	}
	return VectorOfVariables{Variables: vs}, true
}

// Constant returns the constant term of a scalar function.
func Constant(f ScalarFunction) float64 {
	if g, ok := f.(ScalarAffineFunction); ok {
		return g.Constant
	}
	return 0
}

// RemoveConstant returns f with a zero constant term.
func RemoveConstant(f ScalarFunction) ScalarFunction {
	if g, ok := f.(ScalarAffineFunction); ok {
		return g.WithConstant(0)
	}
	return f
}

// SortedVariables returns vs sorted by value; used for deterministic output.
func SortedVariables(vs []VariableIndex) []VariableIndex {
	out := append([]VariableIndex(nil), vs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
