//go:build ignore

// Extract the "# text =" sentences of CoNLL-U parse files, one per line.
// The output is the exact text the CoNLL-U parser backend can look up, so it
// serves as input for generate runs and for checking parse coverage of a corpus.
// Usage: go run ./scripts/conllu-sentences.go OUT.txt IN.conllu [IN.conllu...]
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: conllu-sentences OUT.txt IN.conllu [IN.conllu...]")
		os.Exit(1)
	}
	outPath, inPaths := os.Args[1], os.Args[2:]

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	total := 0
	for _, path := range inPaths {
		n, err := extract(path, w)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("%s: %d sentences\n", path, n)
		total += n
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("\nDone! %d sentences written to %s\n", total, outPath)
}

func extract(path string, w *bufio.Writer) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	n := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		text, ok := strings.CutPrefix(scanner.Text(), "# text = ")
		if !ok {
			continue
		}
		fmt.Fprintln(w, strings.TrimSpace(text))
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("scanning file: %w", err)
	}
	return n, nil
}
