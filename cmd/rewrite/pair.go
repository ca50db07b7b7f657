package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/internal/corpus"
)

func newPairCmd(a *app) *cobra.Command {
	var (
		src, tgt, out string
		sortByLen     bool
	)

	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Write source and target side by side, tab separated",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			n, err := corpus.WritePairs(src, tgt, out, sortByLen)
			if err != nil {
				return err
			}
			a.logger.Info("pairs written", "path", out, "pairs", n, "sorted", sortByLen)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&src, "src", "", "Source file")
	f.StringVar(&tgt, "tgt", "", "Target file")
	f.StringVarP(&out, "out", "o", "", "Output file")
	f.BoolVar(&sortByLen, "sort", false, "Sort pairs by source length in words")
	for _, name := range []string{"src", "tgt", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
