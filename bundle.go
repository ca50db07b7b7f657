package rewrite

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/freq"
	"github.com/jamesainslie/go-rewrite/syntax"
)

// Resources are the language resources the extractors read. A nil Parser or
// Scorer is only an error when its feature is requested.
type Resources struct {
	Parser   syntax.Parser
	Scorer   *freq.Scorer
	Absolute bool
}

// BundleSentence computes the exact value of every requested feature for one
// sentence pair. Features are computed in canonical order and all of them are
// attempted; failures are joined into the returned error.
func BundleSentence(ctx context.Context, res Resources, source, target string, requested []features.Name) (features.Bundle, error) {
	names, err := canonicalOrder(requested)
	if err != nil {
		return nil, err
	}

	exact := make(features.Bundle, len(names))
	var errs []error
	for _, n := range names {
		v, err := res.compute(ctx, n, source, target)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n, err))
			continue
		}
		exact[n] = v
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return exact, nil
}

// BinsBundleSentence is BundleSentence followed by quantization with bins.
func BinsBundleSentence(ctx context.Context, res Resources, bins features.Bins, source, target string, requested []features.Name) (binned, exact features.Bundle, err error) {
	exact, err = BundleSentence(ctx, res, source, target, requested)
	if err != nil {
		return nil, nil, err
	}
	binned, err = bins.Quantize(exact)
	if err != nil {
		return nil, nil, err
	}
	return binned, exact, nil
}

func (r Resources) compute(ctx context.Context, n features.Name, source, target string) (float64, error) {
	switch n {
	case features.Frequency:
		if r.Scorer == nil {
			return 0, ErrRanksNotFound
		}
		return r.Scorer.Ratio(source, target, r.Absolute), nil
	case features.Dependency:
		if r.Parser == nil {
			return 0, ErrNoParser
		}
		return syntax.DepthRatio(ctx, r.Parser, source, target, r.Absolute)
	case features.Length:
		return features.LengthRatio(source, target, r.Absolute)
	case features.Levenshtein:
		return features.LevenshteinRatio(source, target), nil
	}
	return 0, fmt.Errorf("%w: %q", features.ErrUnknownFeature, n)
}

// canonicalOrder validates requested and returns it deduplicated in the order
// features are computed.
func canonicalOrder(requested []features.Name) ([]features.Name, error) {
	for _, n := range requested {
		if !n.Valid() {
			return nil, fmt.Errorf("%w: %q", features.ErrUnknownFeature, n)
		}
	}
	return lo.Filter(features.Canonical, func(n features.Name, _ int) bool {
		return lo.Contains(requested, n)
	}), nil
}
