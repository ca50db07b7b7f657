// Package corpus reads and writes the line-aligned parallel corpora the
// pipeline consumes and produces.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMisaligned indicates parallel files with different line counts.
var ErrMisaligned = errors.New("corpus: files have different numbers of lines")

// maxLineSize bounds a single corpus line.
const maxLineSize = 1 << 20

// Pair is one aligned source/target line.
type Pair struct {
	Source string
	Target string
}

// ReadPairs reads srcPath and tgtPath in lockstep and calls fn for every line
// pair, numbered from 1, with surrounding whitespace trimmed. In strict mode
// a length mismatch returns ErrMisaligned once the shorter file ends;
// otherwise the missing side is passed as "". An error from fn stops the
// iteration and is returned.
func ReadPairs(srcPath, tgtPath string, strict bool, fn func(line int, p Pair) error) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = src.Close() }()

	tgt, err := os.Open(tgtPath)
	if err != nil {
		return fmt.Errorf("opening target: %w", err)
	}
	defer func() { _ = tgt.Close() }()

	srcScan := newScanner(src)
	tgtScan := newScanner(tgt)

	for line := 1; ; line++ {
		hasSrc := srcScan.Scan()
		hasTgt := tgtScan.Scan()
		if !hasSrc && !hasTgt {
			break
		}
		if hasSrc != hasTgt && strict {
			return fmt.Errorf("%w: %s, %s (line %d)", ErrMisaligned, srcPath, tgtPath, line)
		}

		var p Pair
		if hasSrc {
			p.Source = strings.TrimSpace(srcScan.Text())
		}
		if hasTgt {
			p.Target = strings.TrimSpace(tgtScan.Text())
		}
		if err := fn(line, p); err != nil {
			return err
		}
	}

	if err := srcScan.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", srcPath, err)
	}
	if err := tgtScan.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", tgtPath, err)
	}
	return nil
}

// ReadLines calls fn for every trimmed line of path, numbered from 1.
func ReadLines(path string, fn func(line int, text string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := newScanner(f)
	for line := 1; scanner.Scan(); line++ {
		if err := fn(line, strings.TrimSpace(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func newScanner(f *os.File) *bufio.Scanner {
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return s
}

// lineWriter writes newline-terminated lines to a buffered file.
type lineWriter struct {
	f *os.File
	w *bufio.Writer
}

func createLines(path string) (*lineWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	return newLineWriter(f), nil
}

func newLineWriter(f *os.File) *lineWriter {
	return &lineWriter{f: f, w: bufio.NewWriter(f)}
}

func (lw *lineWriter) WriteLine(s string) error {
	if _, err := lw.w.WriteString(s); err != nil {
		return err
	}
	return lw.w.WriteByte('\n')
}

func (lw *lineWriter) Close() error {
	return errors.Join(lw.w.Flush(), lw.f.Close())
}
