package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
	"github.com/jamesainslie/go-rewrite/internal/eval"
	"github.com/jamesainslie/go-rewrite/internal/fairseq"
	"github.com/jamesainslie/go-rewrite/internal/lang"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		path      string
		tolerance float64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an experiment: binarize, train, generate and evaluate",
		Long: `run executes the steps an experiment config enables. With preprocess the
annotated corpus is binarized (after running the feature pipeline when
preprocess_config is set); with train a model is trained into
experiments/<id>/checkpoints; with generate the test split is decoded,
scored by evaluation/easse_evaluate.sh and checked for how closely the
output follows the requested control values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exp, err := config.LoadExperiment(path)
			if err != nil {
				return err
			}
			r := &experimentRun{
				app:       a,
				exp:       exp,
				toolkit:   fairseq.New(fairseq.WithLogger(a.logger)),
				tolerance: tolerance,
				out:       cmd.OutOrStdout(),
			}
			return r.run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "Experiment config (YAML)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", eval.DefaultConfig().Tolerance, "Bin distance counted as a near match")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

type experimentRun struct {
	*app
	exp       *config.Experiment
	toolkit   *fairseq.Toolkit
	tolerance float64
	out       io.Writer
}

func (r *experimentRun) run(ctx context.Context) error {
	names, err := r.exp.FeatureNames()
	if err != nil {
		return err
	}
	l := r.layout()
	code := lang.Resolve(r.exp.Language, r.logger)
	binDir := l.Binarized(code, names)
	ckptDir := l.Checkpoints(r.exp.ExperimentID)

	if r.exp.Preprocess {
		r.logger.Info("step: preprocess", "experiment", r.exp.ExperimentID)
		if r.exp.PreprocessConfig != "" {
			pcfg, err := r.preprocessConfig(names)
			if err != nil {
				return err
			}
			if _, err := runPreprocess(ctx, l, pcfg, r.logger); err != nil {
				return err
			}
		}
		if err := r.toolkit.Preprocess(ctx, l.Preprocessed(code, names), binDir); err != nil {
			return err
		}
	}

	if r.exp.Train {
		r.logger.Info("step: train", "experiment", r.exp.ExperimentID)
		if err := r.toolkit.Train(ctx, binDir, ckptDir, fairseq.TrainParamsFrom(*r.exp)); err != nil {
			return err
		}
	}

	if r.exp.Generate {
		r.logger.Info("step: generate", "experiment", r.exp.ExperimentID)
		if err := r.generate(ctx, binDir, ckptDir, names); err != nil {
			return err
		}
	}
	return nil
}

func (r *experimentRun) generate(ctx context.Context, binDir, ckptDir string, names []features.Name) error {
	files := append(append([]string{}, fairseq.VocabFiles...), fairseq.TestFiles...)
	if err := fairseq.CopyFiles(binDir, ckptDir, files...); err != nil {
		return err
	}

	source := filepath.Join(ckptDir, fairseq.TestFiles[0])
	reference := filepath.Join(ckptDir, fairseq.TestFiles[1])
	system := filepath.Join(ckptDir, config.GenerationOut)

	params := fairseq.GenerateParams{BatchSize: r.exp.TestBatchSize, Beam: r.exp.BeamSize}
	if _, err := r.toolkit.Generate(ctx, ckptDir, filepath.Join(ckptDir, config.CheckpointFile), system, params); err != nil {
		return err
	}

	r.logger.Info("step: automatic evaluation")
	script := filepath.Join(r.layout().Evaluation(), config.EvalScript)
	if err := r.toolkit.Evaluate(ctx, script, source, reference, system, filepath.Join(ckptDir, config.EvaluationFile)); err != nil {
		return err
	}

	if r.exp.PreprocessConfig == "" {
		r.logger.Warn("feature match evaluation skipped: no preprocess_config to load resources from")
		return nil
	}
	r.logger.Info("step: feature match evaluation")
	pcfg, err := r.preprocessConfig(names)
	if err != nil {
		return err
	}
	ex, err := openExtractor(pcfg, r.logger)
	if err != nil {
		return err
	}
	defer func() { _ = ex.Close() }()
	tok, err := openTokenizer(pcfg.Tokenizer, pcfg.TokenizerModel)
	if err != nil {
		return err
	}
	defer func() { _ = closeTokenizer(tok) }()

	m := eval.NewMatcher(ex, tok, eval.Config{Tolerance: r.tolerance}, r.logger)
	report, err := m.MatchFiles(ctx, source, system, names)
	if err != nil {
		return err
	}
	return printReport(r.out, report, names)
}

// preprocessConfig loads the experiment's preprocessing config, taking the
// language and features from the experiment.
func (r *experimentRun) preprocessConfig(names []features.Name) (*config.Preprocess, error) {
	pcfg, err := config.LoadPreprocess(r.exp.PreprocessConfig)
	if err != nil {
		return nil, err
	}
	pnames, err := pcfg.FeatureNames()
	if err != nil {
		return nil, err
	}
	if pcfg.Lang != r.exp.Language || !slices.Equal(pnames, names) {
		r.logger.Warn("preprocess config overridden by experiment",
			"lang", r.exp.Language, "features", features.Join(names))
	}
	pcfg.Lang = r.exp.Language
	pcfg.Features = r.exp.FeaturesRequested
	return pcfg, nil
}

func printReport(w io.Writer, r eval.Report, names []features.Name) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "lines: %d\n", r.Lines)
	fmt.Fprintln(tw, "FEATURE\tPAIRS\tSKIPPED\tEXACT\tNEAR\tMAE")
	for _, n := range names {
		m := r.Features[n]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\t%.2f%%\t%.4f\n",
			n, m.Total, m.Skipped, 100*m.MatchRate, 100*m.NearRate, m.MAE)
	}
	return tw.Flush()
}
