// Package freq provides word frequency ranks and the frequency-rank feature.
package freq

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// ErrEmptyTable indicates a rank source contained no words.
var ErrEmptyTable = errors.New("freq: empty rank table")

// Table maps words to frequency ranks, 1 being the most frequent word.
// It is read-only after construction and safe for concurrent use.
type Table struct {
	ranks map[string]int
}

// New wraps an existing word to rank mapping.
func New(ranks map[string]int) *Table {
	return &Table{ranks: ranks}
}

// Load reads a JSON object of word to rank from path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rank table: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Read decodes a JSON object of word to rank.
func Read(r io.Reader) (*Table, error) {
	ranks := make(map[string]int)
	if err := json.NewDecoder(r).Decode(&ranks); err != nil {
		return nil, fmt.Errorf("decoding rank table: %w", err)
	}
	if len(ranks) == 0 {
		return nil, ErrEmptyTable
	}
	return &Table{ranks: ranks}, nil
}

// BuildInfo describes a table built from an embeddings file.
type BuildInfo struct {
	Size  int
	First string // most frequent word
	Last  string // least frequent word
}

// BuildFromEmbeddings reads a word embeddings file sorted by descending
// frequency (fastText .vec layout: a header line, then one word per line
// followed by its vector) and ranks each word by its line number.
func BuildFromEmbeddings(r io.Reader) (*Table, BuildInfo, error) {
	ranks := make(map[string]int)
	var info BuildInfo

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		word := fields[0]
		ranks[word] = line - 1
		if info.First == "" {
			info.First = word
		}
		info.Last = word
	}
	if err := scanner.Err(); err != nil {
		return nil, BuildInfo{}, fmt.Errorf("reading embeddings: %w", err)
	}
	if len(ranks) == 0 {
		return nil, BuildInfo{}, ErrEmptyTable
	}
	info.Size = len(ranks)

	return &Table{ranks: ranks}, info, nil
}

// Save writes the table as a JSON object.
func (t *Table) Save(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(t.ranks); err != nil {
		return fmt.Errorf("encoding rank table: %w", err)
	}
	return nil
}

// Len returns the number of ranked words.
func (t *Table) Len() int {
	return len(t.ranks)
}

// Rank returns the rank of word. Unknown words fall back to their lowercase
// form before being reported missing.
func (t *Table) Rank(word string) (int, bool) {
	if r, ok := t.ranks[word]; ok {
		return r, true
	}
	if lower := strings.ToLower(word); lower != word {
		r, ok := t.ranks[lower]
		return r, ok
	}
	return 0, false
}

// LogRank returns ln(rank+1) for a known word and ln(Len()+1) otherwise.
func (t *Table) LogRank(word string) float64 {
	if r, ok := t.Rank(word); ok {
		return math.Log(float64(r + 1))
	}
	return t.missingLogRank()
}

// missingLogRank is the value used for out-of-vocabulary words and for
// sentences without any content word.
func (t *Table) missingLogRank() float64 {
	return math.Log(float64(len(t.ranks) + 1))
}
