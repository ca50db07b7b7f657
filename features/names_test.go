package features

import (
	"errors"
	"slices"
	"testing"
)

func TestParseNames(t *testing.T) {
	got, err := ParseNames([]string{"levenshtein", "Dependency", "leven", "length"})
	if err != nil {
		t.Fatalf("ParseNames failed: %v", err)
	}
	want := []Name{Dependency, Length, Levenshtein}
	if !slices.Equal(got, want) {
		t.Errorf("ParseNames = %v, want %v", got, want)
	}

	if _, err := ParseNames([]string{"syllables"}); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("expected ErrUnknownFeature, got %v", err)
	}
}

func TestTokenNames(t *testing.T) {
	for _, n := range Canonical {
		tok := n.Token()
		if tok == "" {
			t.Fatalf("%s has no token", n)
		}
		back, ok := NameForToken(tok)
		if !ok || back != n {
			t.Errorf("NameForToken(%q) = %v, %v", tok, back, ok)
		}
	}
}

func TestJoin(t *testing.T) {
	got := Join([]Name{Length, Dependency, Frequency})
	if got != "dependency_frequency_length" {
		t.Errorf("Join = %q", got)
	}
}

func TestCombinations(t *testing.T) {
	all := []Name{Dependency, Frequency, Length, Levenshtein}
	combos := Combinations(all)

	// 4 choose 3 + 4 choose 2 + 4 choose 1
	if len(combos) != 14 {
		t.Fatalf("got %d combinations, want 14", len(combos))
	}
	if len(combos[0]) != 3 || len(combos[len(combos)-1]) != 1 {
		t.Errorf("combinations not ordered longest first: %v", combos)
	}
	seen := map[string]bool{}
	for _, c := range combos {
		key := Join(c)
		if seen[key] {
			t.Errorf("duplicate combination %s", key)
		}
		seen[key] = true
	}
}
