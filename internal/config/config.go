// Package config loads the YAML run configurations and knows the on-disk
// layout of corpora, resources and experiments.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/go-rewrite/features"
)

// ErrInvalidConfig indicates a configuration that loaded but cannot be run.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Tokenizer kinds.
const (
	TokenizerSentencePiece = "sentencepiece"
	TokenizerWords         = "words"
)

// Parser kinds.
const (
	ParserNone   = ""
	ParserCoNLLU = "conllu"
	ParserONNX   = "onnx"
)

// Parser selects the dependency parser backend.
type Parser struct {
	Kind      string   `yaml:"kind"`
	CoNLLU    []string `yaml:"conllu,omitempty"`
	Model     string   `yaml:"model,omitempty"`
	Tokenizer string   `yaml:"tokenizer,omitempty"`
	PoolSize  int      `yaml:"pool_size,omitempty"`
}

// Preprocess configures the corpus feature pipeline.
type Preprocess struct {
	Lang            string   `yaml:"lang"`
	Features        []string `yaml:"features"`
	AnalyzeFeatures bool     `yaml:"analyze_features"`
	Absolute        bool     `yaml:"absolute"`
	Tokenizer       string   `yaml:"tokenizer"`
	TokenizerModel  string   `yaml:"tokenizer_model"`
	Ranks           string   `yaml:"ranks"`
	Parser          Parser   `yaml:"parser"`
	Strict          bool     `yaml:"strict"`
	Jobs            int      `yaml:"jobs"`
}

// DefaultPreprocess returns the values used for keys a file leaves out.
func DefaultPreprocess() Preprocess {
	return Preprocess{
		Lang:      "en",
		Features:  []string{"dependency", "frequency", "length", "levenshtein"},
		Tokenizer: TokenizerSentencePiece,
		Strict:    true,
		Jobs:      1,
	}
}

// FeatureNames returns the parsed, sorted feature list.
func (p Preprocess) FeatureNames() ([]features.Name, error) {
	return features.ParseNames(p.Features)
}

// Validate reports the first setting that cannot be run.
func (p Preprocess) Validate() error {
	if p.Lang == "" {
		return fmt.Errorf("%w: lang is required", ErrInvalidConfig)
	}
	names, err := p.FeatureNames()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: no features requested", ErrInvalidConfig)
	}

	switch p.Tokenizer {
	case TokenizerSentencePiece:
		if p.TokenizerModel == "" {
			return fmt.Errorf("%w: tokenizer_model is required for %s", ErrInvalidConfig, p.Tokenizer)
		}
	case TokenizerWords:
	default:
		return fmt.Errorf("%w: unknown tokenizer %q", ErrInvalidConfig, p.Tokenizer)
	}

	switch p.Parser.Kind {
	case ParserNone:
		if slices.Contains(names, features.Dependency) {
			return fmt.Errorf("%w: dependency feature needs a parser", ErrInvalidConfig)
		}
	case ParserCoNLLU:
		if len(p.Parser.CoNLLU) == 0 {
			return fmt.Errorf("%w: parser.conllu lists no files", ErrInvalidConfig)
		}
	case ParserONNX:
		if p.Parser.Model == "" || p.Parser.Tokenizer == "" {
			return fmt.Errorf("%w: onnx parser needs model and tokenizer", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown parser kind %q", ErrInvalidConfig, p.Parser.Kind)
	}

	if slices.Contains(names, features.Frequency) && p.Ranks == "" {
		return fmt.Errorf("%w: frequency feature needs ranks", ErrInvalidConfig)
	}
	if p.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// LoadPreprocess reads, defaults and validates a preprocessing config.
func LoadPreprocess(path string) (*Preprocess, error) {
	cfg := DefaultPreprocess()
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// ID is an experiment identifier. YAML files write it as a bare number or a
// string; both decode to the literal text.
type ID string

// UnmarshalYAML accepts any scalar.
func (id *ID) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("experiment_id: expected scalar at line %d", n.Line)
	}
	*id = ID(n.Value)
	return nil
}

// Experiment configures one preprocess/train/generate run.
type Experiment struct {
	Preprocess        bool     `yaml:"preprocess"`
	Train             bool     `yaml:"train"`
	Generate          bool     `yaml:"generate"`
	ExperimentID      ID       `yaml:"experiment_id"`
	FeaturesRequested []string `yaml:"features_requested"`
	Language          string   `yaml:"language"`
	Arch              string   `yaml:"arch"`
	Optimizer         string   `yaml:"optimizer"`
	LR                float64  `yaml:"lr"`
	BatchSize         int      `yaml:"batch_size"`
	TestBatchSize     int      `yaml:"test_batch_size"`
	MaxEpochs         int      `yaml:"max_epochs"`
	BeamSize          int      `yaml:"beam_size"`
	LabelSmoothing    float64  `yaml:"label_smoothing"`
	// PreprocessConfig, when set, runs the feature pipeline before binarization.
	PreprocessConfig string `yaml:"preprocess_config,omitempty"`
}

// DefaultExperiment returns the values used for keys a file leaves out.
func DefaultExperiment() Experiment {
	return Experiment{
		Language:       "en",
		Arch:           "transformer",
		Optimizer:      "adam",
		LR:             0.002,
		BatchSize:      16,
		TestBatchSize:  16,
		MaxEpochs:      10,
		BeamSize:       8,
		LabelSmoothing: 0.54,
	}
}

// FeatureNames returns the parsed, sorted feature list.
func (e Experiment) FeatureNames() ([]features.Name, error) {
	return features.ParseNames(e.FeaturesRequested)
}

// Validate reports the first setting that cannot be run.
func (e Experiment) Validate() error {
	if e.ExperimentID == "" {
		return fmt.Errorf("%w: experiment_id is required", ErrInvalidConfig)
	}
	if e.Language == "" {
		return fmt.Errorf("%w: language is required", ErrInvalidConfig)
	}
	names, err := e.FeatureNames()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: no features requested", ErrInvalidConfig)
	}
	if e.LR <= 0 || e.BatchSize <= 0 || e.TestBatchSize <= 0 || e.MaxEpochs <= 0 || e.BeamSize <= 0 {
		return fmt.Errorf("%w: lr, batch sizes, epochs and beam must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadExperiment reads, defaults and validates an experiment config.
func LoadExperiment(path string) (*Experiment, error) {
	cfg := DefaultExperiment()
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// SaveExperiment writes cfg as YAML to path.
func SaveExperiment(path string, cfg Experiment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config: %w", err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	return f.Close()
}

// load unmarshals the file over the defaults already in out.
func load(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
