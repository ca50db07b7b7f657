package fairseq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

type hypothesis struct {
	id   int
	text string
}

// ParseHypotheses extracts the best hypothesis text of every "H-<id>" line of
// generation output and returns them ordered by sentence id. Other lines are
// ignored.
func ParseHypotheses(r io.Reader) ([]string, error) {
	var hyps []hypothesis

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		rest, ok := strings.CutPrefix(scanner.Text(), "H-")
		if !ok {
			continue
		}
		fields := strings.SplitN(rest, "\t", 3)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed hypothesis line %q", scanner.Text())
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("hypothesis id %q: %w", fields[0], err)
		}
		text := ""
		if len(fields) == 3 {
			text = fields[2]
		}
		hyps = append(hyps, hypothesis{id: id, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning generation output: %w", err)
	}
	if len(hyps) == 0 {
		return nil, ErrNoHypotheses
	}

	slices.SortStableFunc(hyps, func(a, b hypothesis) int { return a.id - b.id })

	out := make([]string, len(hyps))
	for i, h := range hyps {
		out[i] = h.text
	}
	return out, nil
}

// ReadHypotheses parses the generation output file at path.
func ReadHypotheses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening generation output: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseHypotheses(f)
}

// WriteHypotheses writes one hypothesis per line.
func WriteHypotheses(path string, hyps []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, h := range hyps {
		_, _ = w.WriteString(h)
		_ = w.WriteByte('\n')
	}
	return errors.Join(w.Flush(), f.Close())
}
