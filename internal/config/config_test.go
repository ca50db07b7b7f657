package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/jamesainslie/go-rewrite/features"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPreprocess(t *testing.T) {
	path := writeFile(t, "preprocess.yaml", `
lang: de
features: [length, leven, dependency]
analyze_features: true
tokenizer: words
ranks: data_auxiliary/de/ranks.json
parser:
  kind: conllu
  conllu: [data_auxiliary/de/train.conllu]
`)

	cfg, err := LoadPreprocess(path)
	if err != nil {
		t.Fatalf("LoadPreprocess: %v", err)
	}

	if cfg.Lang != "de" || !cfg.AnalyzeFeatures || cfg.Tokenizer != TokenizerWords {
		t.Errorf("unexpected config: %+v", cfg)
	}
	// omitted keys keep their defaults
	if !cfg.Strict || cfg.Jobs != 1 {
		t.Errorf("defaults lost: strict=%v jobs=%d", cfg.Strict, cfg.Jobs)
	}

	names, err := cfg.FeatureNames()
	if err != nil {
		t.Fatal(err)
	}
	want := []features.Name{features.Dependency, features.Length, features.Levenshtein}
	if !slices.Equal(names, want) {
		t.Errorf("FeatureNames = %v, want %v", names, want)
	}
}

func TestPreprocess_Validate(t *testing.T) {
	valid := func() Preprocess {
		p := DefaultPreprocess()
		p.TokenizerModel = "spm.model"
		p.Ranks = "ranks.json"
		p.Parser = Parser{Kind: ParserCoNLLU, CoNLLU: []string{"parses.conllu"}}
		return p
	}

	tests := []struct {
		name   string
		mutate func(*Preprocess)
		ok     bool
	}{
		{"valid", func(*Preprocess) {}, true},
		{"no lang", func(p *Preprocess) { p.Lang = "" }, false},
		{"unknown feature", func(p *Preprocess) { p.Features = []string{"syllables"} }, false},
		{"no features", func(p *Preprocess) { p.Features = nil }, false},
		{"spm without model", func(p *Preprocess) { p.TokenizerModel = "" }, false},
		{"unknown tokenizer", func(p *Preprocess) { p.Tokenizer = "spacy" }, false},
		{"dependency without parser", func(p *Preprocess) { p.Parser = Parser{} }, false},
		{"no parser needed", func(p *Preprocess) {
			p.Parser = Parser{}
			p.Features = []string{"length"}
		}, true},
		{"onnx incomplete", func(p *Preprocess) { p.Parser = Parser{Kind: ParserONNX, Model: "m.onnx"} }, false},
		{"unknown parser", func(p *Preprocess) { p.Parser.Kind = "stanza" }, false},
		{"frequency without ranks", func(p *Preprocess) { p.Ranks = "" }, false},
		{"zero jobs", func(p *Preprocess) { p.Jobs = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadExperiment(t *testing.T) {
	path := writeFile(t, "exp.yaml", `
preprocess: false
train: true
generate: true
experiment_id: 7
features_requested: [frequency, length]
language: de
lr: 0.0001
max_epochs: 90
`)

	cfg, err := LoadExperiment(path)
	if err != nil {
		t.Fatalf("LoadExperiment: %v", err)
	}
	if cfg.ExperimentID != "7" {
		t.Errorf("ExperimentID = %q, want 7", cfg.ExperimentID)
	}
	if cfg.LR != 0.0001 || cfg.MaxEpochs != 90 {
		t.Errorf("lr=%v max_epochs=%d", cfg.LR, cfg.MaxEpochs)
	}
	if cfg.Arch != "transformer" || cfg.BeamSize != 8 || cfg.BatchSize != 16 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadExperiment_Invalid(t *testing.T) {
	tests := []struct {
		name, content string
	}{
		{"missing id", "features_requested: [length]\n"},
		{"non-positive beam", "experiment_id: a\nfeatures_requested: [length]\nbeam_size: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadExperiment(writeFile(t, "exp.yaml", tt.content))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := LoadExperiment(writeFile(t, "bad.yaml", "experiment_id: [1, 2]\n")); err == nil {
		t.Error("expected error for non-scalar experiment_id")
	}
	if _, err := LoadExperiment(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadExperiment_PreprocessWithoutConfig(t *testing.T) {
	cfg, err := LoadExperiment(writeFile(t, "exp.yaml",
		"experiment_id: a\nfeatures_requested: [length]\npreprocess: true\n"))
	if err != nil {
		t.Fatalf("LoadExperiment failed: %v", err)
	}
	if !cfg.Preprocess || cfg.PreprocessConfig != "" {
		t.Errorf("unexpected preprocess settings: %+v", cfg)
	}
}

func TestSaveExperiment_RoundTrip(t *testing.T) {
	cfg := DefaultExperiment()
	cfg.ExperimentID = "12"
	cfg.FeaturesRequested = []string{"length", "levenshtein"}
	cfg.Train = true

	path := filepath.Join(t.TempDir(), "exp.yaml")
	if err := SaveExperiment(path, cfg); err != nil {
		t.Fatalf("SaveExperiment: %v", err)
	}

	got, err := LoadExperiment(path)
	if err != nil {
		t.Fatalf("LoadExperiment: %v", err)
	}
	if got.ExperimentID != cfg.ExperimentID || got.LR != cfg.LR || !got.Train ||
		!slices.Equal(got.FeaturesRequested, cfg.FeaturesRequested) {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}
