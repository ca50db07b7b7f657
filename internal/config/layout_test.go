package config

import (
	"path/filepath"
	"testing"

	"github.com/jamesainslie/go-rewrite/features"
)

func TestLayout(t *testing.T) {
	l := Layout{Root: "/repo"}
	names := []features.Name{features.Length, features.Dependency}

	tests := []struct {
		got, want string
	}{
		{l.Data("en"), "/repo/data/en"},
		{l.Preprocessed("en", names), "/repo/data_preprocessed/en/dependency_length"},
		{l.Binarized("de", names), "/repo/data_preprocessed/de/dependency_length/fairseq"},
		{l.Ranks("de"), "/repo/data_auxiliary/de/ranks.json"},
		{l.Checkpoints("03"), "/repo/experiments/03/checkpoints"},
		{l.Configs(), "/repo/configs"},
		{l.SweepConfigs(), "/repo/configs/parameter_tuning"},
		{l.Evaluation(), "/repo/evaluation"},
		{SplitFile("/x", "valid", Target), "/x/valid.tgt"},
	}

	for _, tt := range tests {
		if tt.got != filepath.FromSlash(tt.want) {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
