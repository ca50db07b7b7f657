package rewrite

import (
	"log/slog"
	"runtime"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/freq"
	"github.com/jamesainslie/go-rewrite/syntax"
)

// Option configures an Extractor.
type Option func(*config)

type config struct {
	parser        syntax.Parser
	conllu        []string
	onnxModel     string
	onnxTokenizer string
	poolSize      int
	absolute      bool
	bins          features.Bins
	words         freq.WordTokenizer
	logger        *slog.Logger
}

func defaultConfig() config {
	return config{
		poolSize: runtime.NumCPU(),
		bins:     features.CreateBins(),
		logger:   slog.Default(),
	}
}

// WithParser sets the dependency parser. The Extractor does not close it.
func WithParser(p syntax.Parser) Option {
	return func(c *config) {
		c.parser = p
	}
}

// WithCoNLLU serves dependency parses from CoNLL-U files.
func WithCoNLLU(paths ...string) Option {
	return func(c *config) {
		c.conllu = append(c.conllu, paths...)
	}
}

// WithONNXParser parses with an ONNX arc-scoring model and its SentencePiece
// tokenizer.
func WithONNXParser(modelPath, tokenizerPath string) Option {
	return func(c *config) {
		c.onnxModel = modelPath
		c.onnxTokenizer = tokenizerPath
	}
}

// WithPoolSize sets the ONNX session pool size (default: runtime.NumCPU()).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithAbsolute makes ratio features report the target value alone.
func WithAbsolute(absolute bool) Option {
	return func(c *config) {
		c.absolute = absolute
	}
}

// WithBins replaces the default bin table.
func WithBins(b features.Bins) Option {
	return func(c *config) {
		if b != nil {
			c.bins = b
		}
	}
}

// WithWordTokenizer sets the word tokenizer used by the frequency feature.
func WithWordTokenizer(w freq.WordTokenizer) Option {
	return func(c *config) {
		c.words = w
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
