package main

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/amburosesekar/mathoptinterface/pkg/bridges"
	"github.com/amburosesekar/mathoptinterface/pkg/caching"
	"github.com/amburosesekar/mathoptinterface/pkg/config"
	"github.com/amburosesekar/mathoptinterface/pkg/metrics"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
	"github.com/amburosesekar/mathoptinterface/pkg/satopt"
)

type solveOptions struct {
	configPath  string
	problemPath string

	backend   string
	mode      string
	timeLimit time.Duration
	maxWeight int
	silent    bool
	metrics   bool
}

func newSolveCmd(logger *logrus.Logger) *cobra.Command {
	o := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solves a 0-1 program through a caching, bridging optimizer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			logger.Debugf("using %s backend in %s mode", cfg.Backend, cfg.Mode)
			if cfg.Silent {
				logger.SetLevel(logrus.WarnLevel)
			}

			problem, err := config.LoadProblem(o.problemPath)
			if err != nil {
				return err
			}
			return solve(cmd.OutOrStdout(), cfg, problem, logger)
		},
	}

	o.addFlags(cmd.Flags())
	if err := cmd.MarkFlagRequired("problem"); err != nil {
		logger.Panic(err.Error())
	}

	return cmd
}

func (o *solveOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.problemPath, "problem", "f", "", "path to the problem file")
	fs.StringVar(&o.configPath, "config", "", "path to a bridgectl configuration file")
	fs.StringVar(&o.backend, "backend", config.SatBackend, "the optimizer behind the cache, sat or mock")
	fs.StringVar(&o.mode, "mode", caching.Automatic.String(), "caching mode, automatic or manual")
	fs.DurationVar(&o.timeLimit, "time-limit", 0, "time limit for the solve. 0 is considered as having no limit.")
	fs.IntVar(&o.maxWeight, "max-weight", 0, "bound on the rows the sat backend encodes, 0 keeps its default")
	fs.BoolVar(&o.silent, "silent", false, "silence the optimizer")
	fs.BoolVar(&o.metrics, "metrics", false, "print prometheus metrics after solving")
}

// config reads the configuration file, if any, and applies the flags set on
// the command line over it.
func (o *solveOptions) config(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("mode") {
		cfg.Mode = o.mode
	}
	if flags.Changed("time-limit") {
		cfg.TimeLimit = o.timeLimit
	}
	if flags.Changed("max-weight") {
		cfg.MaxWeight = o.maxWeight
	}
	if flags.Changed("silent") {
		cfg.Silent = o.silent
	}
	if flags.Changed("metrics") {
		cfg.Metrics = o.metrics
	}
	return cfg, cfg.Validate()
}

func solve(out io.Writer, cfg *config.Config, problem *config.Problem, logger logrus.FieldLogger) error {
	mode, err := caching.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.Discard{}
	if cfg.Metrics {
		metrics.Register()
		recorder = metrics.Prometheus{}
	}

	backend, err := newBackend(cfg, logger)
	if err != nil {
		return err
	}
	c, err := caching.New(
		caching.WithOptimizer(caching.NewInstrumentedOptimizer(backend, metrics.RegisterOptimizeSuccess, metrics.RegisterOptimizeFailure)),
		caching.WithBridges(caching.FullBridges(bridges.WithLogger(logger), bridges.WithRecorder(recorder))),
		caching.WithMode(mode),
		caching.WithLogger(logger),
		caching.WithRecorder(recorder),
	)
	if err != nil {
		return err
	}

	if cfg.TimeLimit > 0 {
		if err := c.Set(moi.TimeLimit{}, cfg.TimeLimit); err != nil {
			return errors.Wrap(err, "setting time limit")
		}
	}
	if cfg.Silent {
		if err := c.Set(moi.Silent{}, true); err != nil {
			return errors.Wrap(err, "silencing optimizer")
		}
	}

	idx, err := problem.Build(c)
	if err != nil {
		return errors.Wrap(err, "building problem")
	}
	if err := c.Optimize(); err != nil {
		return errors.Wrap(err, "optimizing")
	}

	if err := printSolution(out, c, problem, idx); err != nil {
		return err
	}
	if s, ok := backend.(*satopt.Optimizer); ok {
		if reason := s.Reason(); reason != nil {
			fmt.Fprintf(out, "reason: %v\n", reason)
		}
		logger.WithField("duration", s.SolveTime()).Debug("solve finished")
	}
	if cfg.Metrics {
		return printMetrics(out, prometheus.DefaultGatherer)
	}
	return nil
}

func printSolution(out io.Writer, c *caching.CachingOptimizer, problem *config.Problem, idx *config.Indices) error {
	termination, err := moi.Get[moi.TerminationStatusCode](c, moi.TerminationStatus{})
	if err != nil {
		return err
	}
	primal, err := moi.Get[moi.ResultStatusCode](c, moi.PrimalStatus{})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "status: %s\nprimal: %s\n", termination, primal)
	if primal != moi.FeasiblePoint {
		return nil
	}

	obj, err := moi.Get[float64](c, moi.ObjectiveValue{})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "objective: %g\n", obj)
	for _, name := range problem.Variables {
		v, err := moi.GetVariable[float64](c, moi.VariablePrimal{}, idx.Variables[name])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s = %g\n", name, v)
	}
	return nil
}

func printMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(out, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
