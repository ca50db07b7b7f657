package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
)

// ValueCounts counts how often each rendered value occurs per feature.
type ValueCounts map[features.Name]map[string]int

func (vc ValueCounts) add(b features.Bundle) {
	for n, v := range b {
		if vc[n] == nil {
			vc[n] = make(map[string]int)
		}
		vc[n][features.FormatValue(v)]++
	}
}

// Inspection holds the control-token values found in a preprocessed corpus.
type Inspection struct {
	Splits map[string]ValueCounts
	Total  ValueCounts
	Values map[features.Name][]float64
}

// InspectFeatures reads the control tokens from the source file of every
// split in dir.
func InspectFeatures(dir string, splits []string) (Inspection, error) {
	ins := Inspection{
		Splits: make(map[string]ValueCounts, len(splits)),
		Total:  ValueCounts{},
		Values: make(map[features.Name][]float64),
	}

	for _, split := range splits {
		path := config.SplitFile(dir, split, config.Source)
		counts := ValueCounts{}
		err := ReadLines(path, func(line int, text string) error {
			b, _, err := features.ParsePrefix(text)
			if err != nil {
				return fmt.Errorf("%s line %d: %w", path, line, err)
			}
			counts.add(b)
			ins.Total.add(b)
			for n, v := range b {
				ins.Values[n] = append(ins.Values[n], v)
			}
			return nil
		})
		if err != nil {
			return Inspection{}, err
		}
		ins.Splits[split] = counts
	}
	return ins, nil
}

// ArtifactCounts counts sentence-splitting artifacts per file of a corpus
// directory. Abbrev counts lines starting with "B." and lines ending with
// "z." separately, so a single "z. B." split is counted twice. Circa counts
// lines ending with "ca.".
type ArtifactCounts struct {
	Files  []string
	Abbrev map[string]int
	Circa  map[string]int
}

// TotalAbbrev sums Abbrev over all files.
func (a ArtifactCounts) TotalAbbrev() int { return sum(a.Abbrev) }

// TotalCirca sums Circa over all files.
func (a ArtifactCounts) TotalCirca() int { return sum(a.Circa) }

// CountSplitArtifacts scans every regular file in dir for sentences that a
// sentence splitter cut at an abbreviation.
func CountSplitArtifacts(dir string) (ArtifactCounts, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ArtifactCounts{}, fmt.Errorf("reading corpus dir: %w", err)
	}

	counts := ArtifactCounts{
		Abbrev: make(map[string]int),
		Circa:  make(map[string]int),
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		counts.Files = append(counts.Files, name)
		err := ReadLines(filepath.Join(dir, name), func(_ int, text string) error {
			if strings.HasPrefix(text, "B.") {
				counts.Abbrev[name]++
			}
			if strings.HasSuffix(text, "z.") {
				counts.Abbrev[name]++
			}
			if strings.HasSuffix(text, "ca.") {
				counts.Circa[name]++
			}
			return nil
		})
		if err != nil {
			return ArtifactCounts{}, err
		}
	}
	slices.Sort(counts.Files)
	return counts, nil
}

func sum(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
