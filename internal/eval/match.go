// Package eval measures how well generated simplifications follow the
// requested control values and collects experiment results.
package eval

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/corpus"
)

// Config holds evaluation parameters.
type Config struct {
	// Tolerance is the largest difference between requested and generated
	// bin values that still counts as a near match.
	Tolerance float64
}

// DefaultConfig returns default evaluation configuration.
func DefaultConfig() Config {
	return Config{Tolerance: 0.1}
}

// Metrics holds the match results for one feature.
type Metrics struct {
	Total   int // pairs where the feature could be computed
	Skipped int // pairs where computing it failed
	Exact   int
	Near    int // within tolerance, exact matches included
	// MatchRate and NearRate are Exact and Near over Total.
	MatchRate float64
	NearRate  float64
	// MAE is the mean absolute difference between requested and generated
	// bin values.
	MAE float64
}

// Evaluate compares requested against generated bin values pairwise.
func Evaluate(requested, generated []float64, cfg Config) Metrics {
	n := min(len(requested), len(generated))
	m := Metrics{Total: n}

	var absErr float64
	for i := range n {
		diff := math.Abs(features.Round(requested[i]) - features.Round(generated[i]))
		absErr += diff
		if diff == 0 {
			m.Exact++
		}
		// rounding keeps float noise from deciding the boundary
		if features.Round(diff) <= cfg.Tolerance {
			m.Near++
		}
	}

	if n > 0 {
		m.MatchRate = float64(m.Exact) / float64(n)
		m.NearRate = float64(m.Near) / float64(n)
		m.MAE = absErr / float64(n)
	}
	return m
}

// Report is the feature-match evaluation of one generated test set.
type Report struct {
	Lines    int
	Features map[features.Name]Metrics
}

// Matcher recomputes control values on generated output.
type Matcher struct {
	extractor corpus.Extractor
	tokenizer corpus.Tokenizer
	cfg       Config
	logger    *slog.Logger
}

// NewMatcher creates a Matcher. tok joins the tokenized source and system
// lines back into text before features are computed.
func NewMatcher(ex corpus.Extractor, tok corpus.Tokenizer, cfg Config, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{extractor: ex, tokenizer: tok, cfg: cfg, logger: logger}
}

// MatchFiles reads the annotated test source at sourcePath alongside the
// system output at systemPath. For every line it compares the control values
// requested in the source prefix with the values the output actually shows
// relative to the source. A feature that cannot be computed for a line is
// skipped for that line only.
func (m *Matcher) MatchFiles(ctx context.Context, sourcePath, systemPath string, names []features.Name) (Report, error) {
	requested := make(map[features.Name][]float64, len(names))
	generated := make(map[features.Name][]float64, len(names))
	skipped := make(map[features.Name]int, len(names))
	lines := 0

	err := corpus.ReadPairs(sourcePath, systemPath, true, func(line int, p corpus.Pair) error {
		want, rest, err := features.ParsePrefix(p.Source)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", sourcePath, line, err)
		}
		source := m.tokenizer.Detokenize(strings.Fields(rest))
		system := m.tokenizer.Detokenize(strings.Fields(p.Target))
		lines = line

		for _, n := range names {
			v, ok := want[n]
			if !ok {
				continue
			}
			binned, _, err := m.extractor.ExtractBinned(ctx, source, system, []features.Name{n})
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				m.logger.Debug("feature skipped", "feature", n, "line", line, "error", err)
				skipped[n]++
				continue
			}
			requested[n] = append(requested[n], v)
			generated[n] = append(generated[n], binned[n])
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	r := Report{Lines: lines, Features: make(map[features.Name]Metrics, len(names))}
	for _, n := range names {
		met := Evaluate(requested[n], generated[n], m.cfg)
		met.Skipped = skipped[n]
		r.Features[n] = met
	}
	return r, nil
}
