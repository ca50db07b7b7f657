package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/internal/config"
)

func newConfigsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "Generate experiment configs",
	}

	var (
		basePath string
		n        int
		startID  int
		startLR  float64
		step     float64
	)
	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Write one config per learning rate",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			base := config.DefaultExperiment()
			base.Preprocess, base.Train, base.Generate = true, true, true
			base.FeaturesRequested = config.DefaultPreprocess().Features
			if basePath != "" {
				loaded, err := config.LoadExperiment(basePath)
				if err != nil {
					return err
				}
				base = *loaded
			}

			paths, err := config.WriteSweep(a.layout().SweepConfigs(), base, startID, n, startLR, step)
			if err != nil {
				return err
			}
			for _, p := range paths {
				a.logger.Info("config written", "path", p)
			}
			return nil
		},
	}
	f := sweep.Flags()
	f.StringVar(&basePath, "base", "", "Experiment config the sweep copies (default: built-in defaults)")
	f.IntVarP(&n, "n", "n", 5, "Number of configs")
	f.IntVar(&startID, "start-id", 0, "Experiment id of the first config")
	f.Float64Var(&startLR, "start-lr", 0.0001, "Learning rate of the first config")
	f.Float64Var(&step, "step", 0.0001, "Learning rate increment")

	cmd.AddCommand(sweep)
	return cmd
}
