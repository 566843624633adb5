package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges"
	"github.com/amburosesekar/mathoptinterface/pkg/config"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

var (
	scalarSets = []moi.SetType{
		moi.LessThanType, moi.GreaterThanType, moi.EqualToType, moi.IntervalType,
		moi.ZeroOneType, moi.IntegerType,
	}
	vectorSets = []moi.SetType{
		moi.RealsType, moi.ZerosType, moi.NonnegativesType, moi.NonpositivesType,
		moi.SecondOrderConeType, moi.RotatedSecondOrderConeType,
	}
)

func newSupportsCmd(logger logrus.FieldLogger) *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "supports",
		Short: "Shows how a backend realizes each constraint, variable set and objective",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			backend, err := newBackend(cfg, logger)
			if err != nil {
				return err
			}
			return printRealizations(cmd.OutOrStdout(), bridges.Full(backend, bridges.WithLogger(logger)))
		},
	}

	cmd.Flags().StringVar(&cfg.Backend, "backend", cfg.Backend, "the backend to inspect, sat or mock")
	return cmd
}

func printRealizations(out io.Writer, b *bridges.Optimizer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tTYPE\tREALIZATION\tCOST")

	for _, f := range []moi.FunctionType{moi.SingleVariableType, moi.ScalarAffineFunctionType} {
		for _, s := range scalarSets {
			t := moi.ConstraintType{F: f, S: s}
			printRealization(w, "constraint", t.String(), b.ConstraintRealization(t))
		}
	}
	for _, f := range []moi.FunctionType{moi.VectorOfVariablesType, moi.VectorAffineFunctionType} {
		for _, s := range vectorSets {
			t := moi.ConstraintType{F: f, S: s}
			printRealization(w, "constraint", t.String(), b.ConstraintRealization(t))
		}
	}
	for _, s := range append(append([]moi.SetType(nil), scalarSets...), vectorSets...) {
		printRealization(w, "variable", string(s), b.VariableRealization(s))
	}
	for _, f := range []moi.FunctionType{moi.SingleVariableType, moi.ScalarAffineFunctionType} {
		printRealization(w, "objective", string(f), b.ObjectiveRealization(f))
	}
	return w.Flush()
}

func printRealization(w io.Writer, kind, name string, r bridges.Realization) {
	how := "unsupported"
	switch {
	case !r.Supported:
	case r.Native:
		how = "native"
	case r.ViaConstraint:
		how = "free variables and constraint"
		if r.Bridge != "" {
			how += " via " + r.Bridge
		}
	default:
		how = r.Bridge
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", kind, name, how, r.Cost)
}
