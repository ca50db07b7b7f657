package rewrite

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrRanksNotFound indicates the frequency rank table is missing.
	ErrRanksNotFound = errors.New("rewrite: frequency rank table not found")

	// ErrModelNotFound indicates a parser model or parse file does not exist.
	ErrModelNotFound = errors.New("rewrite: model file not found")

	// ErrTokenizerFailed indicates tokenizer initialization failed.
	ErrTokenizerFailed = errors.New("rewrite: tokenizer initialization failed")

	// ErrNoParser indicates the dependency feature was requested without a parser.
	ErrNoParser = errors.New("rewrite: no dependency parser configured")
)
