package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amburosesekar/mathoptinterface/pkg/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	debug   bool
	version bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	logger := logrus.New()

	cmd := &cobra.Command{
		Use:          "bridgectl",
		Short:        "bridgectl",
		Long:         `A CLI tool to inspect bridge selection and solve 0-1 programs through a caching optimizer.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.debug {
				logger.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.version {
				fmt.Fprint(cmd.OutOrStdout(), version.String())
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.Flags().BoolVar(&o.version, "version", false, "displays the bridgectl version")

	cmd.AddCommand(newSolveCmd(logger), newSupportsCmd(logger))
	return cmd
}
