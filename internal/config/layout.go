package config

import (
	"fmt"
	"path/filepath"

	"github.com/jamesainslie/go-rewrite/features"
)

// Splits are the corpus splits in processing order.
var Splits = []string{"train", "valid", "test"}

// Sides of a parallel corpus: complex source and simple target.
const (
	Source = "src"
	Target = "tgt"
)

// Fixed file names inside the layout.
const (
	RanksFile      = "ranks.json"
	CheckpointFile = "checkpoint_best.pt"
	GenerationRaw  = "generation.out"
	GenerationOut  = "generation2.out"
	EvaluationFile = "evaluation.txt"
	EvalScript     = "easse_evaluate.sh"
)

// Layout is the directory structure under a project root.
type Layout struct {
	Root string
}

// Data is the directory of the original corpus for lang.
func (l Layout) Data(lang string) string {
	return filepath.Join(l.Root, "data", lang)
}

// Preprocessed is the directory of the corpus annotated with names.
func (l Layout) Preprocessed(lang string, names []features.Name) string {
	return filepath.Join(l.Root, "data_preprocessed", lang, features.Join(names))
}

// Binarized is where the toolkit writes its preprocessed corpus and vocab.
func (l Layout) Binarized(lang string, names []features.Name) string {
	return filepath.Join(l.Preprocessed(lang, names), "fairseq")
}

// Auxiliary holds language resources such as rank tables and parses.
func (l Layout) Auxiliary(lang string) string {
	return filepath.Join(l.Root, "data_auxiliary", lang)
}

// Ranks is the default rank table path for lang.
func (l Layout) Ranks(lang string) string {
	return filepath.Join(l.Auxiliary(lang), RanksFile)
}

// Experiment is the directory of one experiment.
func (l Layout) Experiment(id ID) string {
	return filepath.Join(l.Root, "experiments", string(id))
}

// Experiments is the parent of all experiment directories.
func (l Layout) Experiments() string {
	return filepath.Join(l.Root, "experiments")
}

// Checkpoints is where training stores checkpoints for id.
func (l Layout) Checkpoints(id ID) string {
	return filepath.Join(l.Experiment(id), "checkpoints")
}

// Configs is the directory of generated run configs.
func (l Layout) Configs() string {
	return filepath.Join(l.Root, "configs")
}

// SweepConfigs holds the configs written by a parameter sweep.
func (l Layout) SweepConfigs() string {
	return filepath.Join(l.Configs(), "parameter_tuning")
}

// Evaluation holds the external evaluation script.
func (l Layout) Evaluation() string {
	return filepath.Join(l.Root, "evaluation")
}

// SplitFile names one side of one split, e.g. train.src.
func SplitFile(dir, split, side string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s", split, side))
}
