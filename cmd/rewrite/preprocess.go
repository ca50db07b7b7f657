package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
	"github.com/jamesainslie/go-rewrite/internal/corpus"
	"github.com/jamesainslie/go-rewrite/internal/eval"
)

func newPreprocessCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Annotate the train/valid/test corpus with control tokens",
		Long: `preprocess reads data/<lang>/{train,valid,test}.{src,tgt}, prefixes every
source line with the binned control values of its pair, tokenizes both
sides and writes the result to data_preprocessed/<lang>/<features>/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadPreprocess(path)
			if err != nil {
				return err
			}
			res, err := runPreprocess(cmd.Context(), a.layout(), cfg, a.logger)
			if err != nil {
				return err
			}
			if cfg.AnalyzeFeatures {
				return printSummaries(cmd.OutOrStdout(), res.Values())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "Preprocessing config (YAML)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runPreprocess(ctx context.Context, layout config.Layout, cfg *config.Preprocess, logger *slog.Logger) (corpus.Result, error) {
	names, err := cfg.FeatureNames()
	if err != nil {
		return corpus.Result{}, err
	}
	ex, err := openExtractor(cfg, logger)
	if err != nil {
		return corpus.Result{}, err
	}
	defer func() { _ = ex.Close() }()

	tok, err := openTokenizer(cfg.Tokenizer, cfg.TokenizerModel)
	if err != nil {
		return corpus.Result{}, err
	}
	defer func() { _ = closeTokenizer(tok) }()

	in := layout.Data(ex.Lang())
	out := layout.Preprocessed(ex.Lang(), names)
	logger.Info("preprocessing", "lang", ex.Lang(), "features", features.Join(names), "in", in, "out", out)

	p := corpus.NewPipeline(ex, tok, names,
		corpus.WithJobs(cfg.Jobs),
		corpus.WithStrict(cfg.Strict),
		corpus.WithAnalyze(cfg.AnalyzeFeatures),
		corpus.WithLogger(logger))
	return p.Run(ctx, in, out)
}

func printSummaries(w io.Writer, values map[features.Name][]float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FEATURE\tCOUNT\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, n := range features.Canonical {
		v, ok := values[n]
		if !ok {
			continue
		}
		s := eval.Summarize(v)
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\n", n, s.Count, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return tw.Flush()
}
