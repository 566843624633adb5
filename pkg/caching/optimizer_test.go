package caching

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/amburosesekar/mathoptinterface/pkg/metrics/metricsfakes"
	"github.com/amburosesekar/mathoptinterface/pkg/mock"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
	"github.com/amburosesekar/mathoptinterface/pkg/satopt"
)

var (
	safLT     = moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.LessThanType}
	safGT     = moi.ConstraintType{F: moi.ScalarAffineFunctionType, S: moi.GreaterThanType}
	svGT      = moi.ConstraintType{F: moi.SingleVariableType, S: moi.GreaterThanType}
	vovNonneg = moi.ConstraintType{F: moi.VectorOfVariablesType, S: moi.NonnegativesType}
)

func sum(vis ...moi.VariableIndex) moi.ScalarAffineFunction {
	terms := make([]moi.ScalarAffineTerm, len(vis))
	for i, vi := range vis {
		terms[i] = moi.Term(1, vi)
	}
	return moi.NewScalarAffine(0, terms...)
}

func get[T any](m moi.ModelLike, attr moi.Attribute) T {
	v, err := moi.Get[T](m, attr)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return v
}

var _ = Describe("CachingOptimizer", func() {
	Describe("adding what the optimizer cannot hold", func() {
		var backend *mock.Optimizer

		BeforeEach(func() {
			backend = mock.New(mock.WithConstraints(safLT))
		})

		It("refuses the constraint in manual mode and stays empty", func() {
			c, err := New(WithMode(Manual))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.State()).To(Equal(NoOptimizer))

			Expect(c.ResetOptimizer(backend)).To(Succeed())
			Expect(c.State()).To(Equal(EmptyOptimizer))

			vis, err := c.AddVariables(3)
			Expect(err).NotTo(HaveOccurred())
			_, err = c.AddConstraint(sum(vis...), moi.GreaterThan{Lower: 1})
			Expect(moi.IsNotAllowed(err)).To(BeTrue())
			Expect(c.State()).To(Equal(EmptyOptimizer))
			Expect(get[int](c, moi.NumberOfConstraints{Type: safGT})).To(BeZero())
			Expect(get[int](c, moi.NumberOfVariables{})).To(Equal(3))

			By("refusing to optimize without an attached optimizer")
			Expect(moi.IsPrecondition(c.Optimize())).To(BeTrue())
		})

		It("accepts the constraint in automatic mode and copies it when optimizing", func() {
			c, err := New(WithBridges(FullBridges()))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ResetOptimizer(backend)).To(Succeed())

			vis, err := c.AddVariables(3)
			Expect(err).NotTo(HaveOccurred())
			ci, err := c.AddConstraint(sum(vis...), moi.GreaterThan{Lower: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.State()).To(Equal(EmptyOptimizer))
			Expect(backend.IsEmpty()).To(BeTrue())

			Expect(c.Optimize()).To(Succeed())
			Expect(c.State()).To(Equal(AttachedOptimizer))
			Expect(backend.Optimized()).To(Equal(1))
			Expect(get[int](backend, moi.NumberOfVariables{})).To(Equal(3))
			Expect(get[int](backend, moi.NumberOfConstraints{Type: safLT})).To(Equal(1))
			Expect(c.Optimizer()).NotTo(BeIdenticalTo(backend))
			Expect(get[moi.TerminationStatusCode](c, moi.TerminationStatus{})).To(Equal(moi.Optimal))

			s, err := moi.GetConstraint[moi.Set](c, moi.ConstraintSet{}, ci)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal(moi.GreaterThan{Lower: 1}))
		})

		It("keeps the constraint in the cache when even bridges cannot help", func() {
			c, err := New()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ResetOptimizer(backend)).To(Succeed())
			x, err := c.AddVariable()
			Expect(err).NotTo(HaveOccurred())
			_, err = c.AddConstraint(sum(x), moi.GreaterThan{Lower: 1})
			Expect(err).NotTo(HaveOccurred())

			err = c.Optimize()
			Expect(moi.IsUnsupported(err)).To(BeTrue())
			Expect(c.State()).To(Equal(EmptyOptimizer))
			Expect(backend.IsEmpty()).To(BeTrue())
		})
	})

	Describe("an optimizer refusing changes", func() {
		var (
			backend *mock.Optimizer
			c       *CachingOptimizer
			x       moi.VariableIndex
			ci      moi.ConstraintIndex
		)

		setup := func(mode Mode) {
			backend = mock.New(mock.WithModifyNotAllowed(), mock.WithDeleteNotAllowed())
			var err error
			c, err = New(WithMode(mode), WithOptimizer(backend))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.State()).To(Equal(AttachedOptimizer))
			x, err = c.AddVariable()
			Expect(err).NotTo(HaveOccurred())
			ci, err = c.AddConstraint(sum(x), moi.LessThan{Upper: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(get[int](backend, moi.NumberOfConstraints{Type: safLT})).To(Equal(1))
		}

		coefficient := func() float64 {
			f, err := moi.GetConstraint[moi.ScalarAffineFunction](c, moi.ConstraintFunction{}, ci)
			ExpectWithOffset(1, err).NotTo(HaveOccurred())
			return f.Coefficient(x)
		}

		Context("in automatic mode", func() {
			BeforeEach(func() {
				setup(Automatic)
			})

			It("empties the optimizer and applies the change to the cache", func() {
				Expect(c.Modify(ci, moi.ScalarCoefficientChange{Variable: x, NewCoefficient: 2})).To(Succeed())
				Expect(c.State()).To(Equal(EmptyOptimizer))
				Expect(backend.IsEmpty()).To(BeTrue())
				Expect(coefficient()).To(Equal(2.0))

				By("copying the changed problem on the next optimize")
				Expect(c.Optimize()).To(Succeed())
				Expect(c.State()).To(Equal(AttachedOptimizer))
				cis := get[[]moi.ConstraintIndex](backend, moi.ListOfConstraintIndices{Type: safLT})
				Expect(cis).To(HaveLen(1))
				f, err := moi.GetConstraint[moi.ScalarAffineFunction](backend, moi.ConstraintFunction{}, cis[0])
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Terms).To(HaveLen(1))
				Expect(f.Terms[0].Coefficient).To(Equal(2.0))
			})

			It("warns when it resets the optimizer", func() {
				logger, hook := logtest.NewNullLogger()
				c, err := New(WithOptimizer(mock.New(mock.WithModifyNotAllowed())), WithLogger(logger))
				Expect(err).NotTo(HaveOccurred())
				y, err := c.AddVariable()
				Expect(err).NotTo(HaveOccurred())
				cy, err := c.AddConstraint(sum(y), moi.LessThan{Upper: 1})
				Expect(err).NotTo(HaveOccurred())

				Expect(c.Modify(cy, moi.ScalarCoefficientChange{Variable: y, NewCoefficient: 3})).To(Succeed())
				var warnings []string
				for _, e := range hook.AllEntries() {
					if e.Level == logrus.WarnLevel {
						warnings = append(warnings, e.Message)
					}
				}
				Expect(warnings).To(ConsistOf("optimizer refused the change, resetting it"))
			})

			It("deletes from the cache when the optimizer refuses to", func() {
				Expect(c.Delete(x)).To(Succeed())
				Expect(c.State()).To(Equal(EmptyOptimizer))
				Expect(c.IsValidVariable(x)).To(BeFalse())
				Expect(c.IsValidConstraint(ci)).To(BeTrue())
			})
		})

		Context("in manual mode", func() {
			BeforeEach(func() {
				setup(Manual)
			})

			It("returns the refusal and changes nothing", func() {
				err := c.Modify(ci, moi.ScalarCoefficientChange{Variable: x, NewCoefficient: 2})
				Expect(moi.IsNotAllowed(err)).To(BeTrue())
				Expect(c.State()).To(Equal(AttachedOptimizer))
				Expect(coefficient()).To(Equal(1.0))

				err = c.DeleteConstraint(ci)
				Expect(moi.IsNotAllowed(err)).To(BeTrue())
				Expect(c.IsValidConstraint(ci)).To(BeTrue())
				Expect(c.State()).To(Equal(AttachedOptimizer))
			})
		})
	})

	Describe("an optimizer refusing additions", func() {
		It("rolls the cache back in manual mode", func() {
			c, err := New(WithMode(Manual), WithOptimizer(mock.New(mock.WithAddNotAllowed())))
			Expect(err).NotTo(HaveOccurred())
			_, err = c.AddVariable()
			Expect(moi.IsNotAllowed(err)).To(BeTrue())
			Expect(get[int](c, moi.NumberOfVariables{})).To(BeZero())
			Expect(c.State()).To(Equal(AttachedOptimizer))
		})

		It("reports a failed copy in automatic mode", func() {
			backend := mock.New(mock.WithAddNotAllowed())
			c, err := New(WithOptimizer(backend))
			Expect(err).NotTo(HaveOccurred())
			x, err := c.AddVariable()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.IsValidVariable(x)).To(BeTrue())
			Expect(c.State()).To(Equal(EmptyOptimizer))

			err = c.Optimize()
			Expect(moi.IsNotAllowed(err)).To(BeTrue())
			Expect(c.State()).To(Equal(EmptyOptimizer))
			Expect(backend.IsEmpty()).To(BeTrue())
		})
	})

	Describe("results", func() {
		var (
			backend *mock.Optimizer
			c       *CachingOptimizer
			x       moi.VariableIndex
			ci      moi.ConstraintIndex
		)

		BeforeEach(func() {
			backend = mock.New(mock.WithOptimizeFunc(func(o *mock.Optimizer) (mock.Results, error) {
				vis, err := moi.Get[[]moi.VariableIndex](o, moi.ListOfVariableIndices{})
				if err != nil {
					return mock.Results{}, err
				}
				primal := make(map[moi.VariableIndex]float64, len(vis))
				for _, vi := range vis {
					primal[vi] = 3
				}
				return mock.Results{Termination: moi.Optimal, Primal: moi.FeasiblePoint, VariablePrimal: primal}, nil
			}))
			// Shift the optimizer's indices away from the cache's.
			v, err := backend.AddVariable()
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.Delete(v)).To(Succeed())

			c, err = New(WithOptimizer(backend))
			Expect(err).NotTo(HaveOccurred())
			x, err = c.AddVariable()
			Expect(err).NotTo(HaveOccurred())
			ci, err = c.AddConstraint(sum(x), moi.LessThan{Upper: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Set(moi.ObjectiveSense{}, moi.MinSense)).To(Succeed())
			Expect(c.Set(moi.ObjectiveFunction{Type: moi.ScalarAffineFunctionType}, moi.NewScalarAffine(0, moi.Term(2, x)))).To(Succeed())
		})

		It("maps results back to cache indices", func() {
			Expect(c.Optimize()).To(Succeed())

			v, err := moi.GetVariable[float64](c, moi.VariablePrimal{}, x)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(3.0))
			p, err := moi.GetConstraint[float64](c, moi.ConstraintPrimal{}, ci)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(3.0))
			Expect(get[float64](c, moi.ObjectiveValue{})).To(Equal(6.0))
			Expect(get[int](c, moi.ResultCount{})).To(Equal(1))
			Expect(get[moi.ResultStatusCode](c, moi.PrimalStatus{})).To(Equal(moi.FeasiblePoint))
		})

		It("answers status queries without an optimizer", func() {
			Expect(c.Optimize()).To(Succeed())
			c.DropOptimizer()
			Expect(c.State()).To(Equal(NoOptimizer))

			Expect(get[moi.TerminationStatusCode](c, moi.TerminationStatus{})).To(Equal(moi.OptimizeNotCalled))
			Expect(get[moi.ResultStatusCode](c, moi.PrimalStatus{})).To(Equal(moi.NoSolution))
			Expect(get[moi.ResultStatusCode](c, moi.DualStatus{})).To(Equal(moi.NoSolution))

			_, err := moi.Get[float64](c, moi.ObjectiveValue{})
			Expect(moi.IsPrecondition(err)).To(BeTrue())
			_, err = moi.GetVariable[float64](c, moi.VariablePrimal{}, x)
			Expect(moi.IsPrecondition(err)).To(BeTrue())
			_, err = moi.GetConstraint[float64](c, moi.ConstraintPrimal{}, ci)
			Expect(moi.IsPrecondition(err)).To(BeTrue())
			Expect(moi.IsPrecondition(c.Optimize())).To(BeTrue())

			By("still holding the problem")
			Expect(get[int](c, moi.NumberOfVariables{})).To(Equal(1))
			Expect(get[moi.OptimizationSense](c, moi.ObjectiveSense{})).To(Equal(moi.MinSense))
		})

		It("refuses to set results", func() {
			Expect(moi.IsNotAllowed(c.Set(moi.TerminationStatus{}, moi.Optimal))).To(BeTrue())
			Expect(moi.IsNotAllowed(c.SetVariableAttribute(moi.VariablePrimal{}, x, 1.0))).To(BeTrue())
		})
	})

	Describe("optimizer attributes", func() {
		It("remembers them and sets them on every new optimizer", func() {
			c, err := New()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Set(moi.Silent{}, true)).To(Succeed())
			Expect(get[bool](c, moi.Silent{})).To(BeTrue())
			_, err = moi.Get[string](c, moi.SolverName{})
			Expect(moi.IsPrecondition(err)).To(BeTrue())

			backend := mock.New()
			Expect(c.ResetOptimizer(backend)).To(Succeed())
			Expect(get[bool](backend, moi.Silent{})).To(BeTrue())
			Expect(get[string](c, moi.SolverName{})).To(Equal("Mock"))

			sat, err := satopt.New()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ResetOptimizer(sat)).To(Succeed())
			Expect(get[bool](sat, moi.Silent{})).To(BeTrue())
			Expect(get[string](c, moi.SolverName{})).To(Equal("gini"))
		})
	})

	Describe("the index map", func() {
		It("drops entries deleted along with a variable", func() {
			backend := mock.New()
			c, err := New(WithOptimizer(backend))
			Expect(err).NotTo(HaveOccurred())
			vi, ci, err := c.AddConstrainedVariable(moi.GreaterThan{Lower: 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.idx.NumVariables()).To(Equal(1))
			Expect(c.idx.NumConstraints()).To(Equal(1))

			Expect(c.Delete(vi)).To(Succeed())
			Expect(c.IsValidConstraint(ci)).To(BeFalse())
			Expect(c.idx.Len()).To(BeZero())
			Expect(get[int](backend, moi.NumberOfConstraints{Type: svGT})).To(BeZero())
		})

		It("adds constrained variables through a constraint when it has to", func() {
			backend := mock.New(mock.WithConstraints(vovNonneg), mock.WithConstrainedVariables())
			c, err := New(WithOptimizer(backend))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SupportsAddConstrainedVariables(moi.NonnegativesType)).To(BeTrue())

			vis, ci, err := c.AddConstrainedVariables(moi.Nonnegatives{Dim: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(vis).To(HaveLen(2))
			Expect(c.idx.NumVariables()).To(Equal(2))
			oci, ok := c.idx.Constraint(ci)
			Expect(ok).To(BeTrue())
			Expect(backend.IsValidConstraint(oci)).To(BeTrue())
		})
	})

	Describe("lazy bridging", func() {
		It("layers bridges when the objective needs them", func() {
			backend := mock.New(mock.WithObjectives(moi.ScalarAffineFunctionType))
			c, err := New(WithOptimizer(backend), WithBridges(FullBridges()))
			Expect(err).NotTo(HaveOccurred())
			x, err := c.AddVariable()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Set(moi.ObjectiveSense{}, moi.MinSense)).To(Succeed())

			Expect(c.Optimizer()).To(BeIdenticalTo(moi.Optimizer(backend)))
			Expect(c.Supports(moi.ObjectiveFunction{Type: moi.SingleVariableType})).To(BeTrue())
			Expect(c.Optimizer()).NotTo(BeIdenticalTo(moi.Optimizer(backend)))

			Expect(c.Set(moi.ObjectiveFunction{Type: moi.SingleVariableType}, moi.SingleVariable{Variable: x})).To(Succeed())
			Expect(c.State()).To(Equal(AttachedOptimizer))
			Expect(get[moi.FunctionType](c, moi.ObjectiveFunctionType{})).To(Equal(moi.SingleVariableType))
			Expect(get[moi.FunctionType](backend, moi.ObjectiveFunctionType{})).To(Equal(moi.ScalarAffineFunctionType))
		})

		It("refuses in manual mode without bridges", func() {
			backend := mock.New(mock.WithObjectives(moi.ScalarAffineFunctionType))
			c, err := New(WithMode(Manual), WithOptimizer(backend))
			Expect(err).NotTo(HaveOccurred())
			x, err := c.AddVariable()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Supports(moi.ObjectiveFunction{Type: moi.SingleVariableType})).To(BeFalse())
			err = c.Set(moi.ObjectiveFunction{Type: moi.SingleVariableType}, moi.SingleVariable{Variable: x})
			Expect(moi.IsNotAllowed(err)).To(BeTrue())
		})
	})

	Describe("state transitions", func() {
		It("reports every transition", func() {
			recorder := &metricsfakes.FakeRecorder{}
			c, err := New(WithRecorder(recorder))
			Expect(err).NotTo(HaveOccurred())

			Expect(c.ResetOptimizer(mock.New())).To(Succeed())
			Expect(c.Attach()).To(Succeed())
			Expect(moi.IsPrecondition(c.Attach())).To(BeTrue())
			c.DropOptimizer()

			Expect(recorder.StateTransitionCallCount()).To(Equal(3))
			for i, want := range [][2]string{
				{"NoOptimizer", "EmptyOptimizer"},
				{"EmptyOptimizer", "AttachedOptimizer"},
				{"AttachedOptimizer", "NoOptimizer"},
			} {
				from, to := recorder.StateTransitionArgsForCall(i)
				Expect([2]string{from, to}).To(Equal(want))
			}
		})

		It("rejects a non-empty optimizer at construction", func() {
			backend := mock.New()
			_, err := backend.AddVariable()
			Expect(err).NotTo(HaveOccurred())
			_, err = New(WithOptimizer(backend))
			Expect(moi.IsPrecondition(err)).To(BeTrue())
		})

		It("empties both sides and stays attached", func() {
			backend := mock.New()
			c, err := New(WithOptimizer(backend))
			Expect(err).NotTo(HaveOccurred())
			_, err = c.AddVariable()
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Empty()).To(Succeed())
			Expect(c.IsEmpty()).To(BeTrue())
			Expect(backend.IsEmpty()).To(BeTrue())
			Expect(c.State()).To(Equal(AttachedOptimizer))
			Expect(c.idx.Len()).To(BeZero())
		})
	})

	Describe("ParseMode", func() {
		It("reads both modes", func() {
			Expect(ParseMode("Manual")).To(Equal(Manual))
			Expect(ParseMode("automatic")).To(Equal(Automatic))
			_, err := ParseMode("eager")
			Expect(err).To(HaveOccurred())
		})
	})
})
