package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{
		"features", "ranks", "preprocess", "recombine", "run", "generate",
		"inspect", "compare", "pair", "configs", "overview",
	} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestPairCmd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.src")
	tgt := filepath.Join(dir, "a.tgt")
	out := filepath.Join(dir, "pairs.tsv")
	if err := os.WriteFile(src, []byte("one two\none\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tgt, []byte("1 2\n1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "pair", "--src", src, "--tgt", tgt, "--out", out, "--sort"); err != nil {
		t.Fatalf("pair: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one\t1\none two\t1 2\n" {
		t.Errorf("pairs = %q", data)
	}
}

func TestConfigsSweepAndOverview(t *testing.T) {
	root := t.TempDir()
	if _, err := execute(t, "--root", root, "configs", "sweep", "-n", "2", "--start-id", "7", "--start-lr", "0.001", "--step", "0.001"); err != nil {
		t.Fatalf("configs sweep: %v", err)
	}
	for _, name := range []string{"preprocess_train_generate_en7.yaml", "preprocess_train_generate_en8.yaml"} {
		if _, err := os.Stat(filepath.Join(root, "configs", "parameter_tuning", name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	eval := filepath.Join(root, "experiments", "8", "checkpoints", "evaluation.txt")
	if err := os.MkdirAll(filepath.Dir(eval), 0o755); err != nil {
		t.Fatal(err)
	}
	scores := "{'bleu': 1.5, 'sari': 2, 'fkgl': 3, 'bertscore_precision': 0.4, 'bertscore_recall': 0.5, 'bertscore_f1': 0.6}\n"
	if err := os.WriteFile(eval, []byte(scores), 0o600); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(root, "overview.csv")
	if _, err := execute(t, "--root", root, "overview", "--out", out); err != nil {
		t.Fatalf("overview: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[1] != "8;en;all;16;16;10;8;0.002;1.5;2;3;0.4;0.5;0.6" {
		t.Errorf("overview = %q", lines)
	}
}

func TestInspectSplitsCmd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "train.src"), []byte("Tiere, z.\nB. Zebras.\nca.\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "inspect", "splits", dir)
	if err != nil {
		t.Fatalf("inspect splits: %v", err)
	}
	if !strings.Contains(out, "total") || !strings.Contains(out, "train.src") {
		t.Errorf("output = %q", out)
	}
}

func TestBinRequested(t *testing.T) {
	bins := features.CreateBins()

	got, err := binRequested(features.Bundle{features.Levenshtein: 0.82, features.Length: 0.73}, bins)
	if err != nil {
		t.Fatalf("binRequested: %v", err)
	}
	if prefix := features.FormatPrefix(got); prefix != "<Length_0.75> <Leven_0.85> " {
		t.Errorf("prefix = %q", prefix)
	}

	if _, err := binRequested(features.Bundle{}, bins); !errors.Is(err, errNoValues) {
		t.Errorf("expected errNoValues, got %v", err)
	}
}

type spaceTokenizer struct{}

func (spaceTokenizer) Tokenize(text string) []string { return strings.Fields(text) }

func (spaceTokenizer) Detokenize(tokens []string) string { return strings.Join(tokens, " ") }

func TestWritePrefixed(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, inputFile)
	out := filepath.Join(dir, "test.src-tgt.src")
	if err := os.WriteFile(in, []byte("a  b\nc\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	n, err := writePrefixed(in, out, "<Length_0.5> ", spaceTokenizer{})
	if err != nil || n != 2 {
		t.Fatalf("writePrefixed = %d, %v", n, err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "<Length_0.5> a b\n<Length_0.5> c\n" {
		t.Errorf("output = %q", data)
	}
}

type closingTokenizer struct {
	spaceTokenizer
	closed bool
}

func (c *closingTokenizer) Close() error {
	c.closed = true
	return nil
}

func TestCloseTokenizer(t *testing.T) {
	tok := &closingTokenizer{}
	if err := closeTokenizer(tok); err != nil || !tok.closed {
		t.Errorf("closeTokenizer: err=%v closed=%v", err, tok.closed)
	}
	if err := closeTokenizer(spaceTokenizer{}); err != nil {
		t.Errorf("closeTokenizer without Close: %v", err)
	}

	words, err := openTokenizer(config.TokenizerWords, "")
	if err != nil {
		t.Fatalf("openTokenizer: %v", err)
	}
	if err := closeTokenizer(words); err != nil {
		t.Errorf("closing word tokenizer: %v", err)
	}
	if _, err := openTokenizer("sentencepiece", filepath.Join(t.TempDir(), "missing.model")); err == nil {
		t.Error("expected error for missing tokenizer model")
	}
}
