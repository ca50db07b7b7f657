package features

import (
	"fmt"
	"math"
	"sort"
)

// Bins maps each feature to its ascending thresholds.
type Bins map[Name][]float64

const binStep = 0.05

// CreateBins builds the fixed threshold table. Ratio features range over
// [0.05, 2.45]; the Levenshtein ratio is bounded by 1, so its table stops at 1.45.
func CreateBins() Bins {
	ratio := func() []float64 { return arange(0.05, 2.5, binStep) }
	return Bins{
		Frequency:   ratio(),
		Dependency:  ratio(),
		Length:      ratio(),
		Levenshtein: arange(0.05, 1.5, binStep),
	}
}

// arange returns start, start+step, ... below stop.
func arange(start, stop, step float64) []float64 {
	n := int(math.Ceil((stop - start) / step))
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// BinValue returns the smallest threshold greater than or equal to value.
// Values above the last threshold are clamped to it. thresholds must be sorted
// ascending and non-empty.
func BinValue(value float64, thresholds []float64) float64 {
	idx := sort.SearchFloat64s(thresholds, value)
	if idx == len(thresholds) {
		idx--
	}
	return thresholds[idx]
}

// Quantize bins every value of b using the thresholds in bins.
func (bins Bins) Quantize(b Bundle) (Bundle, error) {
	out := make(Bundle, len(b))
	for n, v := range b {
		thresholds, ok := bins[n]
		if !ok || len(thresholds) == 0 {
			return nil, fmt.Errorf("%w: no bins for %q", ErrUnknownFeature, n)
		}
		out[n] = BinValue(v, thresholds)
	}
	return out, nil
}
