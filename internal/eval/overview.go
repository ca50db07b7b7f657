package eval

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/jamesainslie/go-rewrite/features"
	"github.com/jamesainslie/go-rewrite/internal/config"
)

// ErrNoScores indicates an evaluation file without a score line.
var ErrNoScores = errors.New("eval: evaluation file has no scores")

// Scores are the automatic metrics the evaluation script reports.
type Scores struct {
	BLEU               float64 `json:"bleu"`
	SARI               float64 `json:"sari"`
	FKGL               float64 `json:"fkgl"`
	BertScorePrecision float64 `json:"bertscore_precision"`
	BertScoreRecall    float64 `json:"bertscore_recall"`
	BertScoreF1        float64 `json:"bertscore_f1"`
}

// ReadScores parses the first line of an evaluation report. The script prints
// a dictionary literal with single quotes, which is read as JSON once the
// quotes are swapped.
func ReadScores(path string) (Scores, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scores{}, fmt.Errorf("opening evaluation: %w", err)
	}
	defer func() { _ = f.Close() }()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Scores{}, fmt.Errorf("reading evaluation: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Scores{}, fmt.Errorf("%w: %s", ErrNoScores, path)
	}

	var s Scores
	if err := json.Unmarshal([]byte(strings.ReplaceAll(line, "'", `"`)), &s); err != nil {
		return Scores{}, fmt.Errorf("parsing scores in %s: %w", path, err)
	}
	return s, nil
}

// Row is one experiment of the overview table.
type Row struct {
	Experiment config.Experiment
	Scores     Scores
}

// OverviewHeader names the overview columns.
var OverviewHeader = []string{
	"ID", "Language", "Features", "Batch Size", "Test Batch Size", "Max Epochs",
	"Beam Size", "Learning Rate", "Bleu", "Sari", "Fkgl",
	"Bertscore Precision", "Bertscore Recall", "Bertscore F1",
}

var featureAbbrevs = map[features.Name]string{
	features.Dependency:  "dep",
	features.Frequency:   "freq",
	features.Length:      "len",
	features.Levenshtein: "leven",
}

// FeatureAbbrev shortens a feature set for the overview: "all" for every
// feature, otherwise e.g. "dep_len".
func FeatureAbbrev(names []features.Name) string {
	names = lo.Uniq(names)
	if len(names) == len(features.Canonical) {
		return "all"
	}
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return strings.Join(lo.Map(sorted, func(n features.Name, _ int) string { return featureAbbrevs[n] }), "_")
}

// CollectOverview loads every experiment config in configDir, restricted to
// ids when given, and pairs it with the scores of its checkpoint directory.
// Experiments without an evaluation report are logged and skipped.
func CollectOverview(configDir string, layout config.Layout, ids []string, logger *slog.Logger) ([]Row, error) {
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := filepath.Glob(filepath.Join(configDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing configs: %w", err)
	}
	slices.Sort(paths)

	var rows []Row
	for _, path := range paths {
		exp, err := config.LoadExperiment(path)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 && !slices.Contains(ids, string(exp.ExperimentID)) {
			continue
		}

		evalPath := filepath.Join(layout.Checkpoints(exp.ExperimentID), config.EvaluationFile)
		scores, err := ReadScores(evalPath)
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("no evaluation for experiment, skipping", "id", exp.ExperimentID, "config", path)
			continue
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Experiment: *exp, Scores: scores})
	}
	return rows, nil
}

// WriteOverview writes rows as a ';'-separated table with a header line.
func WriteOverview(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(OverviewHeader); err != nil {
		return err
	}
	for _, r := range rows {
		names, err := r.Experiment.FeatureNames()
		if err != nil {
			return err
		}
		e := r.Experiment
		record := []string{
			string(e.ExperimentID),
			e.Language,
			FeatureAbbrev(names),
			strconv.Itoa(e.BatchSize),
			strconv.Itoa(e.TestBatchSize),
			strconv.Itoa(e.MaxEpochs),
			strconv.Itoa(e.BeamSize),
			formatFloat(e.LR),
			formatFloat(r.Scores.BLEU),
			formatFloat(r.Scores.SARI),
			formatFloat(r.Scores.FKGL),
			formatFloat(r.Scores.BertScorePrecision),
			formatFloat(r.Scores.BertScoreRecall),
			formatFloat(r.Scores.BertScoreF1),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
