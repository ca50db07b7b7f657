package main

import (
	"fmt"
	"io"
	"log/slog"

	rewrite "github.com/jamesainslie/go-rewrite"
	"github.com/jamesainslie/go-rewrite/internal/config"
	"github.com/jamesainslie/go-rewrite/internal/corpus"
	"github.com/jamesainslie/go-rewrite/tokenizer"
)

// openExtractor loads the rank table and parser a preprocessing config names.
func openExtractor(cfg *config.Preprocess, logger *slog.Logger) (*rewrite.Extractor, error) {
	opts := []rewrite.Option{
		rewrite.WithAbsolute(cfg.Absolute),
		rewrite.WithLogger(logger),
	}
	switch cfg.Parser.Kind {
	case config.ParserCoNLLU:
		opts = append(opts, rewrite.WithCoNLLU(cfg.Parser.CoNLLU...))
	case config.ParserONNX:
		opts = append(opts,
			rewrite.WithONNXParser(cfg.Parser.Model, cfg.Parser.Tokenizer),
			rewrite.WithPoolSize(cfg.Parser.PoolSize))
	}

	ex, err := rewrite.New(cfg.Lang, cfg.Ranks, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading resources: %w", err)
	}
	return ex, nil
}

// openTokenizer returns the corpus tokenizer a preprocessing config names.
func openTokenizer(kind, modelPath string) (corpus.Tokenizer, error) {
	if kind == config.TokenizerWords {
		return corpus.NewWordTokenizer(), nil
	}
	tok, err := tokenizer.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer: %w", err)
	}
	return tok, nil
}

// closeTokenizer releases tok when it holds resources.
func closeTokenizer(tok corpus.Tokenizer) error {
	if c, ok := tok.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
