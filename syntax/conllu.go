package syntax

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jdkato/prose/tokenize"
)

// SentenceSplitter splits text into sentences.
type SentenceSplitter interface {
	Tokenize(text string) []string
}

// CoNLLU serves parses precomputed by an external dependency parser and stored
// in CoNLL-U format. Sentences are looked up by their "# text =" comment and by
// their space-joined word forms. It is safe for concurrent use once loaded.
type CoNLLU struct {
	trees    map[string][]*Node
	splitter SentenceSplitter
}

// LoadCoNLLU reads one or more CoNLL-U files into a single lookup table.
func LoadCoNLLU(paths ...string) (*CoNLLU, error) {
	c := &CoNLLU{
		trees:    make(map[string][]*Node),
		splitter: tokenize.NewPunktSentenceTokenizer(),
	}
	for _, path := range paths {
		if err := c.loadFile(path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ReadCoNLLU reads CoNLL-U data from r.
func ReadCoNLLU(r io.Reader) (*CoNLLU, error) {
	c := &CoNLLU{
		trees:    make(map[string][]*Node),
		splitter: tokenize.NewPunktSentenceTokenizer(),
	}
	if err := c.read(r); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CoNLLU) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := c.read(file); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func (c *CoNLLU) read(r io.Reader) error {
	var (
		text  string
		forms []string
		heads []int
		line  int
	)

	flush := func() error {
		if len(forms) == 0 {
			text = ""
			return nil
		}
		roots, err := FromHeads(forms, heads)
		if err != nil {
			return fmt.Errorf("sentence ending at line %d: %w", line, err)
		}
		c.trees[normalizeKey(strings.Join(forms, " "))] = roots
		if text != "" {
			c.trees[normalizeKey(text)] = roots
		}
		text, forms, heads = "", nil, nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line++
		row := scanner.Text()

		// Metadata line with sentence text
		if value, ok := strings.CutPrefix(row, "# text = "); ok {
			text = value
			continue
		}
		if strings.HasPrefix(row, "#") {
			continue
		}

		// Blank line = end of sentence
		if strings.TrimSpace(row) == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}

		cols := strings.Split(row, "\t")
		if len(cols) < 7 {
			return fmt.Errorf("line %d: expected at least 7 columns, got %d", line, len(cols))
		}
		// Multiword token ranges (1-2) and empty nodes (1.1) carry no head.
		if strings.ContainsAny(cols[0], "-.") {
			continue
		}
		head, err := strconv.Atoi(cols[6])
		if err != nil {
			return fmt.Errorf("line %d: head %q: %w", line, cols[6], err)
		}
		forms = append(forms, cols[1])
		heads = append(heads, head)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning file: %w", err)
	}

	// Don't forget last sentence if no trailing blank
	return flush()
}

// Len returns the number of lookup keys.
func (c *CoNLLU) Len() int {
	return len(c.trees)
}

// Parse returns the stored trees for text. Text that was not stored as a
// whole is split into sentences, each of which must have been stored.
func (c *CoNLLU) Parse(ctx context.Context, text string) ([]*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := normalizeKey(text)
	if key == "" {
		return nil, nil
	}
	if roots, ok := c.trees[key]; ok {
		return roots, nil
	}

	var roots []*Node
	for _, sent := range c.splitter.Tokenize(text) {
		r, ok := c.trees[normalizeKey(sent)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotParsed, sent)
		}
		roots = append(roots, r...)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotParsed, text)
	}
	return roots, nil
}

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
