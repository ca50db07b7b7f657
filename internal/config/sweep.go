package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// SweepValues returns n learning rates starting at start and increasing by
// step, rounded to five decimals.
func SweepValues(start, step float64, n int) []float64 {
	values := make([]float64, 0, max(n, 0))
	for i := range n {
		v := start + float64(i)*step
		values = append(values, math.Round(v*1e5)/1e5)
	}
	return values
}

// WriteSweep writes n copies of base into dir, one per learning rate from
// SweepValues, with experiment ids counting up from startID. Existing files
// with the same names are overwritten. It returns the written paths.
func WriteSweep(dir string, base Experiment, startID, n int, start, step float64) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	var paths []string
	for i, lr := range SweepValues(start, step, n) {
		cfg := base
		cfg.ExperimentID = ID(strconv.Itoa(startID + i))
		cfg.LR = lr

		name := fmt.Sprintf("preprocess_train_generate_%s%s.yaml", cfg.Language, cfg.ExperimentID)
		path := filepath.Join(dir, name)
		if err := SaveExperiment(path, cfg); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
