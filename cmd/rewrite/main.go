// Command rewrite prepares controllable text simplification corpora, trains
// and evaluates models with the external toolkit, and generates
// simplifications with requested control values.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-rewrite/internal/config"
)

// Set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries the global flags to every subcommand.
type app struct {
	root    string
	verbose bool
	logger  *slog.Logger
}

func (a *app) layout() config.Layout {
	return config.Layout{Root: a.root}
}

func (a *app) setupLogger(w io.Writer) {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.Default()}

	root := &cobra.Command{
		Use:   "rewrite",
		Short: "Controllable text simplification toolkit",
		Long: `rewrite annotates parallel complex/simple corpora with control tokens
(dependency depth, word frequency, length and Levenshtein ratios), drives
training and generation with fairseq, and evaluates how well generated
simplifications follow the requested values.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.setupLogger(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.root, "root", ".", "Project root holding data/, experiments/ and configs/")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newFeaturesCmd(a),
		newRanksCmd(a),
		newPreprocessCmd(a),
		newRecombineCmd(a),
		newRunCmd(a),
		newGenerateCmd(a),
		newInspectCmd(a),
		newCompareCmd(a),
		newPairCmd(a),
		newConfigsCmd(a),
		newOverviewCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	v := fmt.Sprintf("%s (%s, %s)", version, commit, date)
	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(v)); err != nil {
		os.Exit(1)
	}
}
