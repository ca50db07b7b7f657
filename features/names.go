// Package features defines the control features used to steer simplification,
// their discretization into bins and their textual control-token form.
package features

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Name identifies one control feature.
type Name string

const (
	Dependency  Name = "dependency"
	Frequency   Name = "frequency"
	Length      Name = "length"
	Levenshtein Name = "levenshtein"
)

// Canonical is the order in which features are computed.
var Canonical = []Name{Frequency, Dependency, Length, Levenshtein}

// TokenNames maps each feature to the special token name written in front of
// source sentences. It is the only declaration of this table.
var TokenNames = map[Name]string{
	Dependency:  "MaxDep",
	Frequency:   "FreqRank",
	Length:      "Length",
	Levenshtein: "Leven",
}

// Token returns the special token name for n.
func (n Name) Token() string {
	return TokenNames[n]
}

// Valid reports whether n is one of the known features.
func (n Name) Valid() bool {
	_, ok := TokenNames[n]
	return ok
}

// ParseName converts a feature name, or the short alias "leven", to a Name.
func ParseName(s string) (Name, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "leven" {
		return Levenshtein, nil
	}
	n := Name(s)
	if !n.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
	}
	return n, nil
}

// ParseNames parses, deduplicates and alphabetically sorts a feature list.
func ParseNames(ss []string) ([]Name, error) {
	names := make([]Name, 0, len(ss))
	for _, s := range ss {
		n, err := ParseName(s)
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	names = lo.Uniq(names)
	slices.Sort(names)
	return names, nil
}

// NameForToken returns the feature whose special token name is tok.
func NameForToken(tok string) (Name, bool) {
	for n, t := range TokenNames {
		if t == tok {
			return n, true
		}
	}
	return "", false
}

// Join concatenates names with "_", the way preprocessed corpus directories
// are named (e.g. "dependency_frequency_length").
func Join(names []Name) string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return strings.Join(lo.Map(sorted, func(n Name, _ int) string { return string(n) }), "_")
}

// Combinations returns every non-empty proper subset of names, longest first.
// Each subset keeps the order of names.
func Combinations(names []Name) [][]Name {
	var out [][]Name
	for size := len(names) - 1; size >= 1; size-- {
		out = append(out, choose(names, size)...)
	}
	return out
}

func choose(names []Name, k int) [][]Name {
	if k == 0 {
		return [][]Name{{}}
	}
	var out [][]Name
	for i := 0; i+k <= len(names); i++ {
		for _, rest := range choose(names[i+1:], k-1) {
			out = append(out, append([]Name{names[i]}, rest...))
		}
	}
	return out
}
