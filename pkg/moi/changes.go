package moi

import "fmt"

// Change is an in-place modification of a function.
type Change interface {
	fmt.Stringer
	isChange()
}

// ScalarConstantChange replaces the constant of a scalar function.
type ScalarConstantChange struct {
	NewConstant float64
}

// ScalarCoefficientChange replaces the coefficient of Variable in a scalar
// function. A zero coefficient removes the variable.
type ScalarCoefficientChange struct {
	Variable       VariableIndex
	NewCoefficient float64
}

// VectorConstantChange replaces the constants of a vector function.
type VectorConstantChange struct {
	NewConstants []float64
}

func (ScalarConstantChange) isChange()    {}
func (ScalarCoefficientChange) isChange() {}
func (VectorConstantChange) isChange()    {}

func (c ScalarConstantChange) String() string {
	return fmt.Sprintf("ScalarConstantChange(%g)", c.NewConstant)
}

func (c ScalarCoefficientChange) String() string {
	return fmt.Sprintf("ScalarCoefficientChange(%s, %g)", c.Variable, c.NewCoefficient)
}

func (c VectorConstantChange) String() string {
	return fmt.Sprintf("VectorConstantChange(%v)", c.NewConstants)
}

// ApplyChange returns f modified by change. Only affine functions can be
// modified; the caller converts variable functions first.
func ApplyChange(f Function, change Change) (Function, error) {
	switch g := f.(type) {
	case ScalarAffineFunction:
		switch c := change.(type) {
		case ScalarConstantChange:
			return g.WithConstant(c.NewConstant), nil
		case ScalarCoefficientChange:
			h := g.WithoutVariable(c.Variable)
			if c.NewCoefficient != 0 {
				h.Terms = append(h.Terms, Term(c.NewCoefficient, c.Variable))
			}
			return h, nil
		}
	case VectorAffineFunction:
		if c, ok := change.(VectorConstantChange); ok {
			if len(c.NewConstants) != g.OutputDimension() {
				return nil, &PreconditionError{Message: fmt.Sprintf("%s does not match dimension %d", c, g.OutputDimension())}
			}
			h := g.Copy()
			copy(h.Constants, c.NewConstants)
			return h, nil
		}
	}
	return nil, &ModifyNotAllowedError{Change: change, Message: fmt.Sprintf("cannot apply to %s", f.FunctionType())}
}
