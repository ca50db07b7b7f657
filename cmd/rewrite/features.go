package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
)

func newFeaturesCmd(a *app) *cobra.Command {
	cfg := config.DefaultPreprocess()

	cmd := &cobra.Command{
		Use:   "features SOURCE TARGET",
		Short: "Print the control values of one sentence pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := cfg.FeatureNames()
			if err != nil {
				return err
			}
			ex, err := openExtractor(&cfg, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = ex.Close() }()

			binned, exact, err := ex.ExtractBinned(cmd.Context(), args[0], args[1], names)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, n := range binned.Names() {
				fmt.Fprintf(out, "%-12s exact %.4f  bin %s\n", n, exact[n], features.FormatValue(binned[n]))
			}
			fmt.Fprintf(out, "prefix: %s\n", strings.TrimSpace(features.FormatPrefix(binned)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Lang, "lang", cfg.Lang, "Language code")
	f.StringSliceVar(&cfg.Features, "features", cfg.Features, "Features to compute")
	f.StringVar(&cfg.Ranks, "ranks", "", "Rank table (JSON)")
	f.StringSliceVar(&cfg.Parser.CoNLLU, "conllu", nil, "CoNLL-U files with parses of both sentences")
	f.StringVar(&cfg.Parser.Model, "parser-model", "", "ONNX dependency parser model")
	f.StringVar(&cfg.Parser.Tokenizer, "parser-tokenizer", "", "SentencePiece model of the ONNX parser")
	f.BoolVar(&cfg.Absolute, "absolute", false, "Report target values instead of ratios")

	cmd.PreRunE = func(*cobra.Command, []string) error {
		switch {
		case len(cfg.Parser.CoNLLU) > 0:
			cfg.Parser.Kind = config.ParserCoNLLU
		case cfg.Parser.Model != "":
			cfg.Parser.Kind = config.ParserONNX
		}
		return nil
	}
	return cmd
}
