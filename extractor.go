package rewrite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/freq"
	"github.com/jamesainslie/go-rewrite/internal/lang"
	"github.com/jamesainslie/go-rewrite/syntax"
)

// Extractor holds the loaded resources for one language and computes feature
// bundles for sentence pairs. Create it once, share it, and Close it when the
// run ends.
type Extractor struct {
	lang   string
	res    Resources
	bins   features.Bins
	closer io.Closer
	logger *slog.Logger
}

// New loads the resources for language code. ranksPath may be empty when the
// frequency feature is never requested; the parser is configured by options.
// Unsupported languages fall back to English with a warning.
func New(code, ranksPath string, opts ...Option) (*Extractor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Extractor{
		lang:   lang.Resolve(code, cfg.logger),
		bins:   cfg.bins,
		logger: cfg.logger,
	}
	e.res.Absolute = cfg.absolute

	if ranksPath != "" {
		table, err := freq.Load(ranksPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrRanksNotFound, ranksPath)
			}
			return nil, fmt.Errorf("loading ranks: %w", err)
		}
		var scorerOpts []freq.Option
		if cfg.words != nil {
			scorerOpts = append(scorerOpts, freq.WithWordTokenizer(cfg.words))
		}
		scorerOpts = append(scorerOpts, freq.WithLogger(cfg.logger))
		e.res.Scorer = freq.NewScorer(table, e.lang, scorerOpts...)
		e.logger.Debug("loaded rank table", "path", ranksPath, "words", table.Len())
	}

	parser, closer, err := openParser(cfg)
	if err != nil {
		return nil, err
	}
	e.res.Parser = parser
	e.closer = closer

	return e, nil
}

func openParser(cfg config) (syntax.Parser, io.Closer, error) {
	switch {
	case cfg.parser != nil:
		return cfg.parser, nil, nil

	case len(cfg.conllu) > 0:
		for _, p := range cfg.conllu {
			if err := checkExists(p); err != nil {
				return nil, nil, err
			}
		}
		c, err := syntax.LoadCoNLLU(cfg.conllu...)
		if err != nil {
			return nil, nil, fmt.Errorf("loading parses: %w", err)
		}
		cfg.logger.Debug("loaded parses", "files", len(cfg.conllu), "sentences", c.Len())
		return c, nil, nil

	case cfg.onnxModel != "":
		if err := checkExists(cfg.onnxModel); err != nil {
			return nil, nil, err
		}
		if _, err := os.Stat(cfg.onnxTokenizer); err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrTokenizerFailed, cfg.onnxTokenizer)
		}
		p, err := syntax.NewONNXParser(cfg.onnxModel, cfg.onnxTokenizer, cfg.poolSize)
		if err != nil {
			return nil, nil, fmt.Errorf("creating parser: %w", err)
		}
		return p, p, nil
	}
	return nil, nil, nil
}

func checkExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return fmt.Errorf("checking model file: %w", err)
	}
	return nil
}

// Lang returns the resolved language code.
func (e *Extractor) Lang() string {
	return e.lang
}

// Bins returns the bin table used by ExtractBinned.
func (e *Extractor) Bins() features.Bins {
	return e.bins
}

// Resources returns the loaded resources for use with BundleSentence.
func (e *Extractor) Resources() Resources {
	return e.res
}

// Extract returns the exact value of every requested feature.
func (e *Extractor) Extract(ctx context.Context, source, target string, requested []features.Name) (features.Bundle, error) {
	return BundleSentence(ctx, e.res, source, target, requested)
}

// ExtractBinned returns the quantized and the exact value of every requested
// feature.
func (e *Extractor) ExtractBinned(ctx context.Context, source, target string, requested []features.Name) (binned, exact features.Bundle, err error) {
	return BinsBundleSentence(ctx, e.res, e.bins, source, target, requested)
}

// Close releases the parser if the Extractor created it.
func (e *Extractor) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}
