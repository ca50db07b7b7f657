package rewrite

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/freq"
	"github.com/jamesainslie/go-rewrite/syntax"
)

const testParses = `# text = The zebra chased the walrus and the kiwi.
1	The	the	DET	DT	_	2	det	_	_
2	zebra	zebra	NOUN	NN	_	3	nsubj	_	_
3	chased	chase	VERB	VBD	_	0	root	_	_
4	the	the	DET	DT	_	5	det	_	_
5	walrus	walrus	NOUN	NN	_	3	obj	_	_
6	and	and	CCONJ	CC	_	8	cc	_	_
7	the	the	DET	DT	_	8	det	_	_
8	kiwi	kiwi	NOUN	NN	_	5	conj	_	_
9	.	.	PUNCT	.	_	3	punct	_	_

# text = The zebra chased.
1	The	the	DET	DT	_	2	det	_	_
2	zebra	zebra	NOUN	NN	_	3	nsubj	_	_
3	chased	chase	VERB	VBD	_	0	root	_	_
4	.	.	PUNCT	.	_	3	punct	_	_
`

const (
	complexSent = "The zebra chased the walrus and the kiwi."
	simpleSent  = "The zebra chased."
)

type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(text string) []string {
	return strings.Fields(strings.TrimSuffix(text, "."))
}

// writeResources writes a rank table and a parse file into a temp dir.
func writeResources(t *testing.T) (ranks, parses string) {
	t.Helper()
	dir := t.TempDir()
	ranks = filepath.Join(dir, "ranks.json")
	parses = filepath.Join(dir, "parses.conllu")
	if err := os.WriteFile(ranks, []byte(`{"zebra": 100, "chased": 500, "kiwi": 50, "walrus": 2000}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(parses, []byte(testParses), 0o600); err != nil {
		t.Fatal(err)
	}
	return ranks, parses
}

func newTestExtractor(t *testing.T, opts ...Option) *Extractor {
	t.Helper()
	ranks, parses := writeResources(t)
	opts = append([]Option{WithCoNLLU(parses), WithWordTokenizer(fieldsTokenizer{})}, opts...)
	ex, err := New("en", ranks, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = ex.Close() })
	return ex
}

func TestNew_RanksNotFound(t *testing.T) {
	_, err := New("en", filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, ErrRanksNotFound) {
		t.Errorf("expected ErrRanksNotFound, got: %v", err)
	}
}

func TestNew_ModelNotFound(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"conllu", WithCoNLLU("nonexistent/parses.conllu")},
		{"onnx", WithONNXParser("nonexistent/parser.onnx", "nonexistent/spm.model")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("en", "", tt.opt)
			if !errors.Is(err, ErrModelNotFound) {
				t.Errorf("expected ErrModelNotFound, got: %v", err)
			}
		})
	}
}

func TestNew_TokenizerNotFound(t *testing.T) {
	model := filepath.Join(t.TempDir(), "parser.onnx")
	if err := os.WriteFile(model, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := New("en", "", WithONNXParser(model, "nonexistent/spm.model"))
	if !errors.Is(err, ErrTokenizerFailed) {
		t.Errorf("expected ErrTokenizerFailed, got: %v", err)
	}
}

func TestNew_LanguageFallback(t *testing.T) {
	ex, err := New("fr", "")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if ex.Lang() != "en" {
		t.Errorf("Lang() = %q, want en", ex.Lang())
	}
}

func TestExtractor_Extract(t *testing.T) {
	ex := newTestExtractor(t)

	got, err := ex.Extract(context.Background(), complexSent, simpleSent, features.Canonical)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// "the" and "and" are stop words
	srcFreq := freq.Quantile([]float64{math.Log(101), math.Log(501), math.Log(2001), math.Log(51)}, 0.75)
	tgtFreq := freq.Quantile([]float64{math.Log(101), math.Log(501)}, 0.75)

	want := features.Bundle{
		features.Dependency:  2.0 / 3.0,
		features.Frequency:   tgtFreq / srcFreq,
		features.Length:      17.0 / 41.0,
		features.Levenshtein: features.LevenshteinRatio(complexSent, simpleSent),
	}
	if len(got) != len(want) {
		t.Fatalf("Extract returned %v", got)
	}
	for n, v := range want {
		if math.Abs(got[n]-v) > 1e-12 {
			t.Errorf("%s = %v, want %v", n, got[n], v)
		}
	}
}

func TestExtractor_ExtractBinned(t *testing.T) {
	ex := newTestExtractor(t)

	requested := []features.Name{features.Length, features.Dependency, features.Length}
	binned, exact, err := ex.ExtractBinned(context.Background(), complexSent, simpleSent, requested)
	if err != nil {
		t.Fatalf("ExtractBinned: %v", err)
	}

	if len(binned) != 2 || len(exact) != 2 {
		t.Fatalf("bundles must hold exactly the requested features: binned=%v exact=%v", binned, exact)
	}
	if got := features.Round(binned[features.Length]); got != 0.45 {
		t.Errorf("binned length = %v, want 0.45", got)
	}
	if got := features.Round(binned[features.Dependency]); got != 0.7 {
		t.Errorf("binned dependency = %v, want 0.7", got)
	}
	if got := features.FormatPrefix(binned); got != "<MaxDep_0.7> <Length_0.45> " {
		t.Errorf("prefix = %q", got)
	}
}

func TestExtractor_Absolute(t *testing.T) {
	ex := newTestExtractor(t, WithAbsolute(true))

	got, err := ex.Extract(context.Background(), complexSent, simpleSent, []features.Name{features.Length, features.Dependency})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got[features.Length] != 17 || got[features.Dependency] != 2 {
		t.Errorf("absolute bundle = %v", got)
	}
}

func TestExtractor_UnknownFeature(t *testing.T) {
	ex := newTestExtractor(t)

	_, err := ex.Extract(context.Background(), complexSent, simpleSent, []features.Name{"syllables"})
	if !errors.Is(err, features.ErrUnknownFeature) {
		t.Errorf("expected ErrUnknownFeature, got: %v", err)
	}
}

func TestBundleSentence_ComputesAllBeforeFailing(t *testing.T) {
	// no parser, no ranks, empty source: every feature but levenshtein fails
	res := Resources{}
	_, err := BundleSentence(context.Background(), res, "", "abc", features.Canonical)

	for _, want := range []error{ErrRanksNotFound, ErrNoParser, features.ErrEmptySentence} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
}

func TestBundleSentence_ParserError(t *testing.T) {
	c, err := syntax.ReadCoNLLU(strings.NewReader(testParses))
	if err != nil {
		t.Fatal(err)
	}

	_, err = BundleSentence(context.Background(), Resources{Parser: c}, "Unseen text.", simpleSent, []features.Name{features.Dependency})
	if !errors.Is(err, syntax.ErrNotParsed) {
		t.Errorf("expected ErrNotParsed, got: %v", err)
	}
}

func TestBinsBundleSentence(t *testing.T) {
	bins := features.CreateBins()

	binned, exact, err := BinsBundleSentence(context.Background(), Resources{}, bins, "abcd", "ab", []features.Name{features.Length})
	if err != nil {
		t.Fatalf("BinsBundleSentence: %v", err)
	}
	if exact[features.Length] != 0.5 {
		t.Errorf("exact = %v", exact)
	}
	if features.Round(binned[features.Length]) != 0.5 {
		t.Errorf("binned = %v", binned)
	}
}
