package freq

import (
	"math"
	"slices"
	"strings"
	"testing"
)

type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(text string) []string { return strings.Fields(text) }

func testTable() *Table {
	return New(map[string]int{
		"cat": 10, "zebra": 20, "mat": 30, "dog": 40, "kiwi": 50,
		"katze": 10, "matte": 30,
	})
}

func TestIsWord(t *testing.T) {
	tests := []struct {
		tok  string
		want bool
	}{
		{"cat", true},
		{",", false},
		{".", false},
		{"()", false},
		{"1", false},
		{"3.68", false},
		{"-.5", false},
		{"3s1", true},
		{"...", true}, // not a contiguous run of the punctuation list
		{"", false},
	}

	for _, tt := range tests {
		if got := IsWord(tt.tok); got != tt.want {
			t.Errorf("IsWord(%q) = %v, want %v", tt.tok, got, tt.want)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	tests := []struct {
		tok, lang string
		want      bool
	}{
		{"the", "en", true},
		{"and", "en", true},
		{"cat", "en", false},
		{"der", "de", true},
		{"und", "de", true},
		{"Katze", "de", false},
		{"16,5", "de", false},
		{"1,000", "en", false},
		{"€", "en", false},
		{"½", "de", false},
		{"—", "en", false},
	}

	for _, tt := range tests {
		if got := IsStopWord(tt.tok, tt.lang); got != tt.want {
			t.Errorf("IsStopWord(%q, %q) = %v, want %v", tt.tok, tt.lang, got, tt.want)
		}
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{5}, 5},
		{[]float64{1, 2, 3, 4}, 3.25},
		{[]float64{4, 1, 3, 2}, 3.25},
		{[]float64{1, 2, 3, 4, 5}, 4},
	}

	for _, tt := range tests {
		in := slices.Clone(tt.values)
		if got := Quantile(tt.values, 0.75); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Quantile(%v) = %v, want %v", tt.values, got, tt.want)
		}
		if !slices.Equal(in, tt.values) {
			t.Errorf("Quantile modified its input")
		}
	}
}

func TestScorer_Score(t *testing.T) {
	s := NewScorer(testTable(), "en", WithWordTokenizer(fieldsTokenizer{}))

	// "the" and "on" are stop words, "." is punctuation
	got := s.Score("the cat zebra on the mat .")
	want := Quantile([]float64{math.Log(11), math.Log(21), math.Log(31)}, 0.75)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScorer_Score_KeepsSymbolTokens(t *testing.T) {
	table := testTable()
	s := NewScorer(table, "de", WithWordTokenizer(fieldsTokenizer{}))

	words := s.ContentWords("16,5 Katze € und Matte")
	if want := []string{"16,5", "Katze", "€", "Matte"}; !slices.Equal(words, want) {
		t.Fatalf("ContentWords = %v, want %v", words, want)
	}

	oov := math.Log(float64(table.Len() + 1))
	got := s.Score("16,5 Katze € und Matte")
	want := Quantile([]float64{oov, math.Log(11), oov, math.Log(31)}, 0.75)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScorer_Score_NoContentWords(t *testing.T) {
	table := testTable()
	s := NewScorer(table, "en", WithWordTokenizer(fieldsTokenizer{}))

	got := s.Score("the 42 , .")
	if want := math.Log(float64(table.Len() + 1)); got != want {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScorer_Ratio(t *testing.T) {
	s := NewScorer(testTable(), "en", WithWordTokenizer(fieldsTokenizer{}))

	got := s.Ratio("dog kiwi", "cat", false)
	want := math.Log(11) / Quantile([]float64{math.Log(41), math.Log(51)}, 0.75)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Ratio = %v, want %v", got, want)
	}

	if got := s.Ratio("dog kiwi", "cat", true); got != math.Log(11) {
		t.Errorf("absolute Ratio = %v, want %v", got, math.Log(11))
	}
	if got := s.Ratio("cat zebra", "cat zebra", false); got != 1 {
		t.Errorf("identical Ratio = %v, want 1", got)
	}
}

func TestScorer_DefaultTokenizer(t *testing.T) {
	s := NewScorer(testTable(), "en")

	words := s.ContentWords("The cat sat on the mat.")
	if !slices.Contains(words, "cat") || !slices.Contains(words, "mat") {
		t.Errorf("ContentWords = %v", words)
	}
	if slices.Contains(words, ".") || slices.Contains(words, "the") {
		t.Errorf("ContentWords kept punctuation or stop words: %v", words)
	}
}
