package freq

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
	"github.com/jdkato/prose/tokenize"
	"github.com/samber/lo"
)

// asciiPunctuation lists the ASCII punctuation characters. A token that is a
// substring of it counts as punctuation.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// numberPattern matches plain integer and decimal literals such as "1",
// "3.68" or "-.5" but not "3s1".
var numberPattern = regexp.MustCompile(`^[+-]?((\d+(\.\d+)?)|(\.\d+))$`)

// WordTokenizer splits text into word tokens.
type WordTokenizer interface {
	Tokenize(text string) []string
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWordTokenizer replaces the default Treebank word tokenizer.
func WithWordTokenizer(w WordTokenizer) Option {
	return func(s *Scorer) {
		if w != nil {
			s.words = w
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scorer computes the frequency-rank feature for one language.
// It is safe for concurrent use.
type Scorer struct {
	table  *Table
	lang   string
	words  WordTokenizer
	logger *slog.Logger
}

// NewScorer creates a Scorer over table for the stop-word list of lang
// ("en" or "de").
func NewScorer(table *Table, lang string, opts ...Option) *Scorer {
	s := &Scorer{
		table:  table,
		lang:   lang,
		words:  tokenize.NewTreebankWordTokenizer(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the underlying rank table.
func (s *Scorer) Table() *Table {
	return s.table
}

// ContentWords returns the tokens of text that are neither punctuation,
// numbers nor stop words.
func (s *Scorer) ContentWords(text string) []string {
	return lo.Filter(s.words.Tokenize(text), func(tok string, _ int) bool {
		return IsWord(tok) && !IsStopWord(tok, s.lang)
	})
}

// Score returns the third quartile of the natural-log frequency ranks of the
// content words of text. Text without content words scores as a single
// out-of-vocabulary word.
func (s *Scorer) Score(text string) float64 {
	words := s.ContentWords(text)
	if len(words) == 0 {
		s.logger.Debug("no content words", "text", text)
		return s.table.missingLogRank()
	}
	ranks := lo.Map(words, func(w string, _ int) float64 {
		return s.table.LogRank(w)
	})
	return Quantile(ranks, 0.75)
}

// Ratio returns Score(target)/Score(source), or Score(target) alone when
// absolute is set.
func (s *Scorer) Ratio(source, target string, absolute bool) float64 {
	tgt := s.Score(target)
	if absolute {
		return tgt
	}
	return tgt / s.Score(source)
}

// IsWord reports whether tok is neither punctuation nor a number literal.
func IsWord(tok string) bool {
	if strings.Contains(asciiPunctuation, tok) {
		return false
	}
	return !numberPattern.MatchString(tok)
}

// IsStopWord reports whether tok is on the stop-word list of lang. Tokens
// without any letter, such as "16,5" or "€", are never stop words.
func IsStopWord(tok, lang string) bool {
	if !strings.ContainsFunc(tok, unicode.IsLetter) {
		return false
	}
	return strings.TrimSpace(stopwords.CleanString(tok, lang, false)) == ""
}

// Quantile returns the q-quantile of values using linear interpolation
// between the closest ranks. values is not modified; it must not be empty.
func Quantile(values []float64, q float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*frac
}
