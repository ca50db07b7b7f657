package syntax

import (
	"context"
	"fmt"
)

// minDepth replaces a zero depth (a single-token sentence) before dividing.
const minDepth = 0.5

// TextDepth parses text and returns the maximum depth over its sentences.
func TextDepth(ctx context.Context, p Parser, text string) (int, error) {
	roots, err := p.Parse(ctx, text)
	if err != nil {
		return 0, err
	}
	return MaxDepth(roots), nil
}

// DepthRatio returns the maximum dependency depth of target divided by that of
// source. With absolute set it returns the target depth alone and source is
// not parsed.
func DepthRatio(ctx context.Context, p Parser, source, target string, absolute bool) (float64, error) {
	tgt, err := TextDepth(ctx, p, target)
	if err != nil {
		return 0, fmt.Errorf("parsing target: %w", err)
	}
	if absolute {
		return float64(tgt), nil
	}

	src, err := TextDepth(ctx, p, source)
	if err != nil {
		return 0, fmt.Errorf("parsing source: %w", err)
	}

	return floorDepth(tgt) / floorDepth(src), nil
}

func floorDepth(d int) float64 {
	if d == 0 {
		return minDepth
	}
	return float64(d)
}
