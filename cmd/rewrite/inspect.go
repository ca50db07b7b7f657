package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
	"github.com/jamesainslie/go-rewrite/internal/corpus"
	"github.com/jamesainslie/go-rewrite/internal/lang"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		code     string
		featList []string
		splits   []string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Count control-token values in a preprocessed corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := features.ParseNames(featList)
			if err != nil {
				return err
			}
			dir := a.layout().Preprocessed(lang.Resolve(code, a.logger), names)
			ins, err := corpus.InspectFeatures(dir, splits)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, split := range splits {
				fmt.Fprintf(out, "== %s\n", split)
				if err := printCounts(out, ins.Splits[split]); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, "== total")
			if err := printCounts(out, ins.Total); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return printSummaries(out, ins.Values)
		},
	}
	cmd.Flags().StringVar(&code, "lang", "en", "Corpus language")
	cmd.Flags().StringSliceVar(&featList, "features", config.DefaultPreprocess().Features, "Feature set of the corpus")
	cmd.Flags().StringSliceVar(&splits, "splits", config.Splits, "Splits to inspect")

	cmd.AddCommand(newInspectSplitsCmd())
	return cmd
}

func printCounts(w io.Writer, counts corpus.ValueCounts) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, n := range features.Canonical {
		c, ok := counts[n]
		if !ok {
			continue
		}
		total := 0
		for _, value := range slices.Sorted(maps.Keys(c)) {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", n.Token(), value, c[value])
			total += c[value]
		}
		fmt.Fprintf(tw, "%s\ttotal\t%d\n", n.Token(), total)
	}
	return tw.Flush()
}

func newInspectSplitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "splits DIR",
		Short: "Count sentences wrongly split at \"z. B.\" or \"ca.\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := corpus.CountSplitArtifacts(args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tZ.B.\tCA.")
			for _, f := range counts.Files {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", f, counts.Abbrev[f], counts.Circa[f])
			}
			fmt.Fprintf(tw, "total\t%d\t%d\n", counts.TotalAbbrev(), counts.TotalCirca())
			return tw.Flush()
		},
	}
}
