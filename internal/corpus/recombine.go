package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
)

// Recombine derives a corpus for every proper subset of all from the corpus
// annotated with all of them, so subsets never need a second extraction pass.
// dirFor names the output directory of a subset. Source lines keep only the
// subset's control tokens; target files are copied unchanged. It returns the
// directories written, longest subsets first.
func Recombine(ctx context.Context, allDir string, all []features.Name, dirFor func([]features.Name) string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var written []string
	for _, subset := range features.Combinations(all) {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		outDir := dirFor(subset)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return written, fmt.Errorf("creating output dir: %w", err)
		}

		for _, split := range config.Splits {
			src := config.SplitFile(allDir, split, config.Source)
			if err := rewriteSources(src, config.SplitFile(outDir, split, config.Source), subset); err != nil {
				return written, fmt.Errorf("%s: %w", features.Join(subset), err)
			}
			tgt := config.SplitFile(allDir, split, config.Target)
			if err := copyFile(tgt, config.SplitFile(outDir, split, config.Target)); err != nil {
				return written, fmt.Errorf("%s: %w", features.Join(subset), err)
			}
		}

		logger.Info("recombined corpus", "features", features.Join(subset), "dir", outDir)
		written = append(written, outDir)
	}
	return written, nil
}

func rewriteSources(inPath, outPath string, subset []features.Name) error {
	out, err := createLines(outPath)
	if err != nil {
		return err
	}

	err = ReadLines(inPath, func(line int, text string) error {
		b, rest, err := features.ParsePrefix(text)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", inPath, line, err)
		}
		return out.WriteLine(features.FormatPrefix(b.Subset(subset)) + rest)
	})

	closeErr := out.Close()
	if err != nil {
		return err
	}
	return closeErr
}

func copyFile(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
