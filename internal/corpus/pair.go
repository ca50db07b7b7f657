package corpus

import (
	"fmt"
	"slices"
	"strings"
)

// WritePairs writes "source\ttarget" lines for every aligned pair of srcPath
// and tgtPath to outPath. With sortByLength the pairs are ordered by the
// number of space-separated words in the source, keeping the original order
// among equal lengths. It returns the number of pairs written.
func WritePairs(srcPath, tgtPath, outPath string, sortByLength bool) (int, error) {
	var pairs []Pair
	err := ReadPairs(srcPath, tgtPath, true, func(_ int, p Pair) error {
		pairs = append(pairs, p)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if sortByLength {
		slices.SortStableFunc(pairs, func(a, b Pair) int {
			return len(strings.Split(a.Source, " ")) - len(strings.Split(b.Source, " "))
		})
	}

	out, err := createLines(outPath)
	if err != nil {
		return 0, err
	}
	for _, p := range pairs {
		if err := out.WriteLine(p.Source + "\t" + p.Target); err != nil {
			_ = out.Close()
			return 0, fmt.Errorf("writing pairs: %w", err)
		}
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("closing output: %w", err)
	}
	return len(pairs), nil
}
