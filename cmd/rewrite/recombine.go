package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/corpus"
	"github.com/jamesainslie/go-rewrite/internal/lang"
)

func newRecombineCmd(a *app) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "recombine",
		Short: "Derive every feature-subset corpus from the all-features corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := a.layout()
			lc := lang.Resolve(code, a.logger)
			dirFor := func(names []features.Name) string { return l.Preprocessed(lc, names) }

			dirs, err := corpus.Recombine(cmd.Context(), dirFor(features.Canonical), features.Canonical, dirFor, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("recombination done", "corpora", len(dirs))
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "lang", "en", "Corpus language")
	return cmd
}
