package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amburosesekar/mathoptinterface/pkg/config"
	"github.com/amburosesekar/mathoptinterface/pkg/mock"
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
	"github.com/amburosesekar/mathoptinterface/pkg/satopt"
)

// mockConstraints is the narrow constraint surface of the mock backend. It
// leaves most of a 0-1 program to the bridges.
var mockConstraints = []moi.ConstraintType{
	{F: moi.SingleVariableType, S: moi.ZeroOneType},
	{F: moi.ScalarAffineFunctionType, S: moi.LessThanType},
	{F: moi.ScalarAffineFunctionType, S: moi.EqualToType},
}

func newBackend(cfg *config.Config, logger logrus.FieldLogger) (moi.Optimizer, error) {
	switch cfg.Backend {
	case config.SatBackend:
		options := []satopt.Option{satopt.WithLogger(logger)}
		if cfg.MaxWeight > 0 {
			options = append(options, satopt.WithMaxWeight(cfg.MaxWeight))
		}
		o, err := satopt.New(options...)
		if err != nil {
			return nil, err
		}
		return o, nil
	case config.MockBackend:
		return mock.New(
			mock.WithConstraints(mockConstraints...),
			mock.WithObjectives(moi.ScalarAffineFunctionType),
		), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
