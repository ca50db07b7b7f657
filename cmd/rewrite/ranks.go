package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/freq"
	"github.com/jamesainslie/go-rewrite/internal/lang"
)

func newRanksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ranks",
		Short: "Manage word frequency rank tables",
	}

	var (
		code string
		out  string
	)
	build := &cobra.Command{
		Use:   "build EMBEDDINGS",
		Short: "Build a rank table from a frequency-sorted embeddings file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening embeddings: %w", err)
			}
			defer func() { _ = in.Close() }()

			table, info, err := freq.BuildFromEmbeddings(in)
			if err != nil {
				return err
			}

			if out == "" {
				out = a.layout().Ranks(lang.Resolve(code, a.logger))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			if err := errors.Join(table.Save(f), f.Close()); err != nil {
				return err
			}

			a.logger.Info("rank table written", "path", out, "words", info.Size,
				"first", info.First, "last", info.Last)
			return nil
		},
	}
	build.Flags().StringVar(&code, "lang", "en", "Language the table is for")
	build.Flags().StringVarP(&out, "out", "o", "", "Output path (default: data_auxiliary/<lang>/ranks.json)")

	cmd.AddCommand(build)
	return cmd
}
