package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
)

// Report file names written by Compare.
const (
	ReportPreprocessing = "different_after_preprocessing.txt"
	ReportTokenization  = "different_after_tokenization.txt"
)

// ErrReportExists indicates that Compare would overwrite an earlier report.
var ErrReportExists = errors.New("corpus: comparison report already exists")

// Comparison summarizes how a preprocessed corpus differs from its original.
type Comparison struct {
	Lines int
	// Reordered counts lines whose decoded tokens differ from the decoded
	// original, i.e. lines lost, reordered or altered by preprocessing.
	Reordered int
	// Dropped counts lines whose decoded text differs from the raw original,
	// typically characters the tokenizer cannot represent.
	Dropped int
}

// Compare decodes every file of prepDir with tok and compares it to the same
// file in origDir. Source lines have their control tokens stripped first.
// Each mismatch is appended to a report in reportDir as three lines: file
// name, original and decoded text.
func Compare(origDir, prepDir, reportDir string, tok Tokenizer) (Comparison, error) {
	reorderedOut, err := createReport(filepath.Join(reportDir, ReportPreprocessing))
	if err != nil {
		return Comparison{}, err
	}
	droppedOut, err := createReport(filepath.Join(reportDir, ReportTokenization))
	if err != nil {
		_ = reorderedOut.Close()
		return Comparison{}, err
	}

	var cmp Comparison
	err = compareAll(origDir, prepDir, tok, &cmp, reorderedOut, droppedOut)

	closeErr := closeAll(reorderedOut, droppedOut)
	if err != nil {
		return Comparison{}, err
	}
	return cmp, closeErr
}

func compareAll(origDir, prepDir string, tok Tokenizer, cmp *Comparison, reorderedOut, droppedOut *lineWriter) error {
	for _, split := range config.Splits {
		for _, side := range []string{config.Source, config.Target} {
			name := split + "." + side
			orig := config.SplitFile(origDir, split, side)
			prep := config.SplitFile(prepDir, split, side)

			err := ReadPairs(orig, prep, false, func(line int, p Pair) error {
				rest := p.Target
				if side == config.Source {
					var err error
					if _, rest, err = features.ParsePrefix(p.Target); err != nil {
						return fmt.Errorf("%s line %d: %w", name, line, err)
					}
				}

				decodedOrig := tok.Detokenize(tok.Tokenize(p.Source))
				decoded := tok.Detokenize(strings.Fields(rest))
				decodedTokens := strings.Split(decoded, " ")
				cmp.Lines++

				if !slices.Equal(strings.Split(decodedOrig, " "), decodedTokens) {
					cmp.Reordered++
					if err := writeMismatch(reorderedOut, name, p.Source, decoded); err != nil {
						return err
					}
				}
				if !slices.Equal(strings.Split(p.Source, " "), decodedTokens) {
					cmp.Dropped++
					if err := writeMismatch(droppedOut, name, p.Source, decoded); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func createReport(path string) (*lineWriter, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrReportExists, path)
		}
		return nil, fmt.Errorf("creating report: %w", err)
	}
	return newLineWriter(f), nil
}

func writeMismatch(w *lineWriter, name, orig, decoded string) error {
	for _, s := range []string{name, orig, decoded} {
		if err := w.WriteLine(s); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
