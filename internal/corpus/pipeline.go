package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
)

// Extractor computes binned and exact feature bundles for a sentence pair.
// *rewrite.Extractor implements it.
type Extractor interface {
	ExtractBinned(ctx context.Context, source, target string, requested []features.Name) (binned, exact features.Bundle, err error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithJobs sets how many splits are processed at once (default 1).
func WithJobs(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.jobs = n
		}
	}
}

// WithStrict sets whether misaligned files are an error (default true).
func WithStrict(strict bool) Option {
	return func(p *Pipeline) {
		p.strict = strict
	}
}

// WithAnalyze keeps every exact feature value for later statistics.
func WithAnalyze(analyze bool) Option {
	return func(p *Pipeline) {
		p.analyze = analyze
	}
}

// WithSplits overrides the processed splits (default config.Splits).
func WithSplits(splits ...string) Option {
	return func(p *Pipeline) {
		if len(splits) > 0 {
			p.splits = splits
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline annotates the source side of every split with control tokens and
// tokenizes both sides.
type Pipeline struct {
	extractor Extractor
	tokenizer Tokenizer
	names     []features.Name
	splits    []string
	strict    bool
	jobs      int
	analyze   bool
	logger    *slog.Logger
}

// NewPipeline creates a pipeline requesting names for every pair.
func NewPipeline(ex Extractor, tok Tokenizer, names []features.Name, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: ex,
		tokenizer: tok,
		names:     names,
		splits:    config.Splits,
		strict:    true,
		jobs:      1,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SplitResult summarizes one processed split.
type SplitResult struct {
	Split string
	Lines int
	Exact map[features.Name][]float64 // only with WithAnalyze
}

// Result summarizes a pipeline run in split order.
type Result struct {
	Splits []SplitResult
}

// Values concatenates the exact values of every split per feature.
func (r Result) Values() map[features.Name][]float64 {
	out := make(map[features.Name][]float64)
	for _, s := range r.Splits {
		for n, v := range s.Exact {
			out[n] = append(out[n], v...)
		}
	}
	return out
}

// Run processes every split from inDir into outDir. Lines within a split are
// processed and written in order; up to the configured number of splits run
// concurrently. The first failure cancels the remaining splits.
func (p *Pipeline) Run(ctx context.Context, inDir, outDir string) (Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output dir: %w", err)
	}

	results := make([]SplitResult, len(p.splits))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.jobs)

	for i, split := range p.splits {
		g.Go(func() error {
			r, err := p.ProcessSplit(ctx, split, inDir, outDir)
			if err != nil {
				return fmt.Errorf("split %s: %w", split, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Result{Splits: results}, nil
}

// ProcessSplit annotates one split.
func (p *Pipeline) ProcessSplit(ctx context.Context, split, inDir, outDir string) (SplitResult, error) {
	srcIn := config.SplitFile(inDir, split, config.Source)
	tgtIn := config.SplitFile(inDir, split, config.Target)

	srcOut, err := createLines(config.SplitFile(outDir, split, config.Source))
	if err != nil {
		return SplitResult{}, err
	}
	tgtOut, err := createLines(config.SplitFile(outDir, split, config.Target))
	if err != nil {
		_ = srcOut.Close()
		return SplitResult{}, err
	}

	res := SplitResult{Split: split}
	if p.analyze {
		res.Exact = make(map[features.Name][]float64, len(p.names))
	}

	p.logger.Info("processing split", "split", split, "source", srcIn)

	err = ReadPairs(srcIn, tgtIn, p.strict, func(line int, pair Pair) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		binned, exact, err := p.extractor.ExtractBinned(ctx, pair.Source, pair.Target, p.names)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		if err := srcOut.WriteLine(features.FormatPrefix(binned) + p.tokenize(pair.Source)); err != nil {
			return fmt.Errorf("writing source: %w", err)
		}
		if err := tgtOut.WriteLine(p.tokenize(pair.Target)); err != nil {
			return fmt.Errorf("writing target: %w", err)
		}

		if p.analyze {
			for n, v := range exact {
				res.Exact[n] = append(res.Exact[n], v)
			}
		}
		res.Lines = line
		return nil
	})

	closeErr := closeAll(srcOut, tgtOut)
	if err != nil {
		return SplitResult{}, err
	}
	if closeErr != nil {
		return SplitResult{}, fmt.Errorf("closing output: %w", closeErr)
	}

	p.logger.Info("split done", "split", split, "lines", res.Lines)
	return res, nil
}

func (p *Pipeline) tokenize(s string) string {
	return strings.Join(p.tokenizer.Tokenize(s), " ")
}

func closeAll(ws ...*lineWriter) error {
	var errs []error
	for _, w := range ws {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}
