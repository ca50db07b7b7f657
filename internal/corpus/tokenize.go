package corpus

import (
	"strings"

	"github.com/jdkato/prose/tokenize"
)

// Tokenizer segments sentences before they are written to the corpus and
// joins tokens back afterwards. *tokenizer.Tokenizer implements it with
// SentencePiece pieces.
type Tokenizer interface {
	Tokenize(text string) []string
	Detokenize(tokens []string) string
}

// WordTokenizer splits on Penn Treebank word boundaries.
type WordTokenizer struct {
	tb *tokenize.TreebankWordTokenizer
}

// NewWordTokenizer returns a Treebank word tokenizer.
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{tb: tokenize.NewTreebankWordTokenizer()}
}

// Tokenize splits text into words and punctuation.
func (w *WordTokenizer) Tokenize(text string) []string {
	return w.tb.Tokenize(text)
}

// Detokenize joins tokens with single spaces.
func (w *WordTokenizer) Detokenize(tokens []string) string {
	return strings.Join(tokens, " ")
}
