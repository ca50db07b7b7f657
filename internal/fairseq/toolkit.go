package fairseq

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jamesainslie/go-rewrite/internal/config"
)

// Language suffixes of the parallel corpus.
const (
	SourceLang = config.Source
	TargetLang = config.Target
)

// Files the toolkit reads next to a checkpoint during generation.
var (
	VocabFiles = []string{"dict.src.txt", "dict.tgt.txt"}
	TestFiles  = []string{"test.src-tgt.src", "test.src-tgt.tgt"}
)

const datasetImpl = "raw"

// TrainParams are the training hyperparameters.
type TrainParams struct {
	Arch           string
	Optimizer      string
	LR             float64
	BatchSize      int
	MaxEpochs      int
	LabelSmoothing float64
}

// TrainParamsFrom takes the training hyperparameters of an experiment.
func TrainParamsFrom(e config.Experiment) TrainParams {
	return TrainParams{
		Arch:           e.Arch,
		Optimizer:      e.Optimizer,
		LR:             e.LR,
		BatchSize:      e.BatchSize,
		MaxEpochs:      e.MaxEpochs,
		LabelSmoothing: e.LabelSmoothing,
	}
}

// GenerateParams are the decoding settings.
type GenerateParams struct {
	BatchSize int
	Beam      int
	// ExplicitLangs passes the source and target suffixes, needed when the
	// directory holds only a source file.
	ExplicitLangs bool
}

// PreprocessArgs binarizes the train/valid/test corpus of dataDir into destDir.
func PreprocessArgs(dataDir, destDir string) []string {
	return []string{
		"--source-lang", SourceLang,
		"--target-lang", TargetLang,
		"--trainpref", filepath.Join(dataDir, "train"),
		"--validpref", filepath.Join(dataDir, "valid"),
		"--testpref", filepath.Join(dataDir, "test"),
		"--destdir", destDir,
		"--dataset-impl", datasetImpl,
	}
}

// TrainArgs trains on binDir and saves checkpoints to saveDir.
func TrainArgs(binDir, saveDir string, p TrainParams) []string {
	return []string{
		binDir,
		"--arch", p.Arch,
		"--max-epoch", strconv.Itoa(p.MaxEpochs),
		"--source-lang", SourceLang,
		"--target-lang", TargetLang,
		"--save-dir", saveDir,
		"--batch-size", strconv.Itoa(p.BatchSize),
		"--dataset-impl", datasetImpl,
		"--task", "translation",
		"--optimizer", p.Optimizer,
		"--lr", formatFloat(p.LR),
		"--criterion", "label_smoothed_cross_entropy",
		"--label-smoothing", formatFloat(p.LabelSmoothing),
		"--no-epoch-checkpoints",
	}
}

// GenerateArgs decodes the test split of dataDir with the checkpoint at modelPath.
func GenerateArgs(dataDir, modelPath string, p GenerateParams) []string {
	args := []string{
		dataDir,
		"--path", modelPath,
		"--batch-size", strconv.Itoa(p.BatchSize),
		"--beam", strconv.Itoa(p.Beam),
		"--dataset-impl", datasetImpl,
	}
	if p.ExplicitLangs {
		args = append(args, "--source-lang", SourceLang, "--target-lang", TargetLang)
	}
	return args
}

// Preprocess binarizes dataDir into destDir. destDir is created when missing
// and must be empty, since the toolkit refuses to overwrite its outputs.
func (t *Toolkit) Preprocess(ctx context.Context, dataDir, destDir string) error {
	if err := ensureEmptyDir(destDir); err != nil {
		return err
	}
	return t.run(ctx, nil, PreprocessCmd, PreprocessArgs(dataDir, destDir))
}

// Train trains a model on binDir, writing checkpoints to saveDir.
func (t *Toolkit) Train(ctx context.Context, binDir, saveDir string, p TrainParams) error {
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return fmt.Errorf("creating checkpoint dir: %w", err)
	}
	return t.run(ctx, nil, TrainCmd, TrainArgs(binDir, saveDir, p))
}

// Generate decodes the test split in dataDir. The raw toolkit output goes to
// dataDir/generation.out; the hypotheses, in input order, go to outPath. It
// returns the number of hypotheses written.
func (t *Toolkit) Generate(ctx context.Context, dataDir, modelPath, outPath string, p GenerateParams) (int, error) {
	rawPath := filepath.Join(dataDir, config.GenerationRaw)
	raw, err := os.Create(rawPath)
	if err != nil {
		return 0, fmt.Errorf("creating generation output: %w", err)
	}
	err = t.run(ctx, raw, GenerateCmd, GenerateArgs(dataDir, modelPath, p))
	if closeErr := raw.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing generation output: %w", closeErr)
	}
	if err != nil {
		return 0, err
	}

	hyps, err := ReadHypotheses(rawPath)
	if err != nil {
		return 0, err
	}
	if err := WriteHypotheses(outPath, hyps); err != nil {
		return 0, err
	}
	t.logger.Info("hypotheses written", "path", outPath, "count", len(hyps))
	return len(hyps), nil
}

// Evaluate runs the shell evaluation script on the test source, reference and
// system output, writing its report to outPath.
func (t *Toolkit) Evaluate(ctx context.Context, script, source, reference, system, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating evaluation output: %w", err)
	}
	err = t.run(ctx, out, "sh", []string{script, source, reference, system})
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing evaluation output: %w", closeErr)
	}
	return err
}

// CopyFiles copies the named files from srcDir to dstDir.
func CopyFiles(srcDir, dstDir string, names ...string) error {
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(srcDir, name))
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dstDir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

func ensureEmptyDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading destination dir: %w", err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", ErrDirNotEmpty, dir)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
