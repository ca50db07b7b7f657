package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
	"github.com/jamesainslie/go-rewrite/internal/corpus"
	"github.com/jamesainslie/go-rewrite/internal/lang"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		code      string
		tokKind   string
		tokModel  string
		reportDir string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Find sentences changed by preprocessing",
		Long: `compare decodes the all-features corpus and compares it line by line with
the original corpus. Lines that differ after decoding both sides are
written to different_after_preprocessing.txt; lines whose decoded text
differs from the raw original (e.g. characters the tokenizer dropped) to
different_after_tokenization.txt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := openTokenizer(tokKind, tokModel)
			if err != nil {
				return err
			}
			defer func() { _ = closeTokenizer(tok) }()
			l := a.layout()
			lc := lang.Resolve(code, a.logger)

			cmp, err := corpus.Compare(l.Data(lc), l.Preprocessed(lc, features.Canonical), reportDir, tok)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lines compared: %d\n", cmp.Lines)
			fmt.Fprintf(out, "different after tokenization: %d\n", cmp.Dropped)
			fmt.Fprintf(out, "different after preprocessing: %d\n", cmp.Reordered)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&code, "lang", "en", "Corpus language")
	f.StringVar(&tokKind, "tokenizer", config.TokenizerSentencePiece, "Tokenizer used for preprocessing: sentencepiece or words")
	f.StringVar(&tokModel, "tokenizer-model", "", "SentencePiece model")
	f.StringVar(&reportDir, "report-dir", ".", "Where the difference reports are written")
	return cmd
}
