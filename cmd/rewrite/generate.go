package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
	"github.com/jamesainslie/go-rewrite/internal/corpus"
	"github.com/jamesainslie/go-rewrite/internal/fairseq"
	"github.com/jamesainslie/go-rewrite/internal/lang"
	"github.com/jamesainslie/go-rewrite/tokenizer"
)

// inputFile is the plain text a generate run rewrites.
const inputFile = "test.txt"

var errNoValues = errors.New("request at least one feature value")

func newGenerateCmd(a *app) *cobra.Command {
	var (
		expID     string
		dataDir   string
		code      string
		beam      int
		batchSize int
		tokModel  string
		values    = make(map[features.Name]*float64)
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Simplify a text file with requested control values",
		Long: `generate reads <data-dir>/test.txt, prefixes every tokenized line with the
requested control values (snapped to their bins) and decodes it with the
best checkpoint of an experiment. Hypotheses are written in input order to
<data-dir>/<experiment-id>_generation.out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			requested := features.Bundle{}
			for n, v := range values {
				if cmd.Flags().Changed(string(n)) {
					requested[n] = *v
				}
			}
			binned, err := binRequested(requested, features.CreateBins())
			if err != nil {
				return err
			}
			prefix := features.FormatPrefix(binned)
			a.logger.Info("generating with features", "prefix", strings.TrimSpace(prefix))

			l := a.layout()
			ckptDir := l.Checkpoints(config.ID(expID))
			if _, err := os.Stat(ckptDir); err != nil {
				return fmt.Errorf("model directory: %w", err)
			}
			if _, err := os.Stat(dataDir); err != nil {
				return fmt.Errorf("data directory: %w", err)
			}

			if tokModel == "" {
				tokModel = filepath.Join(l.Auxiliary(lang.Resolve(code, a.logger)), "sentencepiece.model")
			}
			tok, err := tokenizer.New(tokModel)
			if err != nil {
				return fmt.Errorf("loading tokenizer: %w", err)
			}
			defer func() { _ = tok.Close() }()

			if err := fairseq.CopyFiles(ckptDir, dataDir, fairseq.VocabFiles...); err != nil {
				return err
			}
			src := filepath.Join(dataDir, fairseq.TestFiles[0])
			n, err := writePrefixed(filepath.Join(dataDir, inputFile), src, prefix, tok)
			if err != nil {
				return err
			}
			a.logger.Info("input prepared", "path", src, "lines", n)

			tk := fairseq.New(fairseq.WithLogger(a.logger))
			out := filepath.Join(dataDir, expID+"_generation.out")
			params := fairseq.GenerateParams{BatchSize: batchSize, Beam: beam, ExplicitLangs: true}
			_, err = tk.Generate(cmd.Context(), dataDir, filepath.Join(ckptDir, config.CheckpointFile), out, params)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&expID, "experiment-id", "", "Experiment whose checkpoint_best.pt is used")
	f.StringVar(&dataDir, "data-dir", "", "Directory with the test.txt file to rewrite")
	f.StringVar(&code, "lang", "en", "Language of the input text")
	f.IntVar(&beam, "beam", 8, "Beam size")
	f.IntVar(&batchSize, "batch-size", 12, "Decoding batch size")
	f.StringVar(&tokModel, "tokenizer-model", "", "SentencePiece model (default: data_auxiliary/<lang>/sentencepiece.model)")
	for _, n := range features.Canonical {
		values[n] = f.Float64(string(n), 0, fmt.Sprintf("Requested %s ratio", n))
	}
	_ = cmd.MarkFlagRequired("experiment-id")
	_ = cmd.MarkFlagRequired("data-dir")
	return cmd
}

// binRequested snaps requested values to their bins, rounded to two decimals.
func binRequested(requested features.Bundle, bins features.Bins) (features.Bundle, error) {
	if len(requested) == 0 {
		return nil, errNoValues
	}
	return bins.Quantize(requested)
}

// writePrefixed tokenizes every line of in and writes it to out behind prefix.
func writePrefixed(in, out, prefix string, tok corpus.Tokenizer) (int, error) {
	var lines []string
	err := corpus.ReadLines(in, func(_ int, text string) error {
		lines = append(lines, prefix+strings.Join(tok.Tokenize(text), " "))
		return nil
	})
	if err != nil {
		return 0, err
	}
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	if err := os.WriteFile(out, []byte(data), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", out, err)
	}
	return len(lines), nil
}
