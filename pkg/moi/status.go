package moi

// TerminationStatusCode explains why Optimize returned.
type TerminationStatusCode int

const (
	OptimizeNotCalled TerminationStatusCode = iota
	Optimal
	Infeasible
	DualInfeasible
	TimeLimitReached
	InvalidModel
	OtherError
)

func (c TerminationStatusCode) String() string {
	switch c {
	case OptimizeNotCalled:
		return "OPTIMIZE_NOT_CALLED"
	case Optimal:
		return "OPTIMAL"
	case Infeasible:
		return "INFEASIBLE"
	case DualInfeasible:
		return "DUAL_INFEASIBLE"
	case TimeLimitReached:
		return "TIME_LIMIT"
	case InvalidModel:
		return "INVALID_MODEL"
	}
	return "OTHER_ERROR"
}

// ResultStatusCode describes a primal or dual result.
type ResultStatusCode int

const (
	NoSolution ResultStatusCode = iota
	FeasiblePoint
	InfeasiblePoint
	InfeasibilityCertificate
)

func (c ResultStatusCode) String() string {
	switch c {
	case FeasiblePoint:
		return "FEASIBLE_POINT"
	case InfeasiblePoint:
		return "INFEASIBLE_POINT"
	case InfeasibilityCertificate:
		return "INFEASIBILITY_CERTIFICATE"
	}
	return "NO_SOLUTION"
}
