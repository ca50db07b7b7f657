package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/internal/eval"
)

func newOverviewCmd(a *app) *cobra.Command {
	var (
		out string
		ids []string
	)

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Tabulate parameters and scores of swept experiments",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			l := a.layout()
			rows, err := eval.CollectOverview(l.SweepConfigs(), l, ids, a.logger)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			if err := errors.Join(eval.WriteOverview(f, rows), f.Close()); err != nil {
				return fmt.Errorf("writing overview: %w", err)
			}
			a.logger.Info("overview written", "path", out, "experiments", len(rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	cmd.Flags().StringSliceVar(&ids, "exps", nil, "Experiment ids to include (default: all)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
