package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
)

// spaceTokenizer splits on whitespace and joins with single spaces.
type spaceTokenizer struct{}

func (spaceTokenizer) Tokenize(text string) []string { return strings.Fields(text) }

func (spaceTokenizer) Detokenize(tokens []string) string { return strings.Join(tokens, " ") }

// stubExtractor bins every pair to fixed values and reports the word count
// ratio as the exact length.
type stubExtractor struct{}

var errStub = errors.New("stub failure")

func (stubExtractor) ExtractBinned(_ context.Context, source, target string, requested []features.Name) (features.Bundle, features.Bundle, error) {
	if source == "FAIL" {
		return nil, nil, errStub
	}
	binned := features.Bundle{features.Dependency: 0.7, features.Length: 0.45}.Subset(requested)
	exact := features.Bundle{
		features.Dependency: 2.0 / 3.0,
		features.Length:     float64(len(target)) / float64(len(source)),
	}.Subset(requested)
	return binned, exact, nil
}

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// writeCorpus writes the same two pairs to every split of a new directory.
func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, split := range config.Splits {
		writeLines(t, config.SplitFile(dir, split, config.Source), "the zebra chased the walrus", "a kiwi  sat")
		writeLines(t, config.SplitFile(dir, split, config.Target), "the zebra ran", "a kiwi sat")
	}
	return dir
}

func TestReadPairs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.src")
	tgt := filepath.Join(dir, "a.tgt")
	writeLines(t, src, " one ", "two", "three")
	writeLines(t, tgt, "uno", "dos")

	tests := []struct {
		name    string
		strict  bool
		want    []Pair
		wantErr error
	}{
		{
			name:    "strict rejects unequal files",
			strict:  true,
			want:    []Pair{{"one", "uno"}, {"two", "dos"}},
			wantErr: ErrMisaligned,
		},
		{
			name:   "lenient pads missing side",
			strict: false,
			want:   []Pair{{"one", "uno"}, {"two", "dos"}, {"three", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Pair
			err := ReadPairs(src, tgt, tt.strict, func(_ int, p Pair) error {
				got = append(got, p)
				return nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadPairs error = %v, want %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d pairs, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("pair %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadPairs_CallbackError(t *testing.T) {
	dir := writeCorpus(t)
	calls := 0
	err := ReadPairs(config.SplitFile(dir, "train", config.Source), config.SplitFile(dir, "train", config.Target), true,
		func(int, Pair) error {
			calls++
			return errStub
		})
	if !errors.Is(err, errStub) || calls != 1 {
		t.Errorf("err = %v after %d calls, want errStub after 1", err, calls)
	}
}

func TestReadPairs_MissingFile(t *testing.T) {
	dir := t.TempDir()
	err := ReadPairs(filepath.Join(dir, "x.src"), filepath.Join(dir, "x.tgt"), true, func(int, Pair) error { return nil })
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestPipeline_Run(t *testing.T) {
	in := writeCorpus(t)
	out := filepath.Join(t.TempDir(), "prep")
	names := []features.Name{features.Dependency, features.Length}

	p := NewPipeline(stubExtractor{}, spaceTokenizer{}, names, WithJobs(3), WithAnalyze(true))
	res, err := p.Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, split := range config.Splits {
		if res.Splits[i].Split != split || res.Splits[i].Lines != 2 {
			t.Errorf("split result %d = %+v", i, res.Splits[i])
		}

		src := readLines(t, config.SplitFile(out, split, config.Source))
		wantSrc := []string{
			"<MaxDep_0.7> <Length_0.45> the zebra chased the walrus",
			"<MaxDep_0.7> <Length_0.45> a kiwi sat",
		}
		for j := range wantSrc {
			if src[j] != wantSrc[j] {
				t.Errorf("%s.src line %d = %q, want %q", split, j+1, src[j], wantSrc[j])
			}
		}

		tgt := readLines(t, config.SplitFile(out, split, config.Target))
		if tgt[0] != "the zebra ran" || tgt[1] != "a kiwi sat" {
			t.Errorf("%s.tgt = %q", split, tgt)
		}
	}

	values := res.Values()
	if len(values[features.Length]) != 6 || len(values[features.Dependency]) != 6 {
		t.Errorf("Values() sizes = %d, %d, want 6 each", len(values[features.Length]), len(values[features.Dependency]))
	}
}

func TestPipeline_NoAnalyze(t *testing.T) {
	in := writeCorpus(t)
	p := NewPipeline(stubExtractor{}, spaceTokenizer{}, []features.Name{features.Length}, WithSplits("test"))
	res, err := p.Run(context.Background(), in, t.TempDir())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Splits) != 1 || res.Splits[0].Exact != nil {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestPipeline_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     []string
		tgt     []string
		strict  bool
		wantErr error
	}{
		{
			name:    "misaligned strict",
			src:     []string{"a", "b"},
			tgt:     []string{"a"},
			strict:  true,
			wantErr: ErrMisaligned,
		},
		{
			name:    "extractor failure",
			src:     []string{"a", "FAIL"},
			tgt:     []string{"a", "b"},
			strict:  true,
			wantErr: errStub,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := t.TempDir()
			writeLines(t, config.SplitFile(in, "train", config.Source), tt.src...)
			writeLines(t, config.SplitFile(in, "train", config.Target), tt.tgt...)

			p := NewPipeline(stubExtractor{}, spaceTokenizer{}, features.Canonical,
				WithSplits("train"), WithStrict(tt.strict))
			_, err := p.Run(context.Background(), in, t.TempDir())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPipeline_Lenient(t *testing.T) {
	in := t.TempDir()
	writeLines(t, config.SplitFile(in, "train", config.Source), "a b", "c d")
	writeLines(t, config.SplitFile(in, "train", config.Target), "a")
	out := t.TempDir()

	p := NewPipeline(stubExtractor{}, spaceTokenizer{}, []features.Name{features.Length},
		WithSplits("train"), WithStrict(false))
	if _, err := p.Run(context.Background(), in, out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	tgt := readLines(t, config.SplitFile(out, "train", config.Target))
	if len(tgt) != 2 || tgt[1] != "" {
		t.Errorf("train.tgt = %q, want padded second line", tgt)
	}
}

func TestPipeline_Cancelled(t *testing.T) {
	in := writeCorpus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(stubExtractor{}, spaceTokenizer{}, features.Canonical)
	if _, err := p.Run(ctx, in, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
