// Package fairseq drives the external sequence-to-sequence toolkit: corpus
// binarization, training, generation and the automatic evaluation script.
package fairseq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

var (
	// ErrCommandFailed indicates an external command that did not exit cleanly.
	ErrCommandFailed = errors.New("fairseq: command failed")

	// ErrDirNotEmpty indicates a binarization target that already holds files.
	ErrDirNotEmpty = errors.New("fairseq: destination directory is not empty")

	// ErrNoHypotheses indicates generation output without any H- lines.
	ErrNoHypotheses = errors.New("fairseq: no hypotheses in generation output")
)

// Runner runs an external command, writing its standard output to stdout.
type Runner interface {
	Run(ctx context.Context, stdout io.Writer, name string, args ...string) error
}

// ExecRunner runs commands as child processes. Standard error goes to Stderr,
// or to os.Stderr when nil.
type ExecRunner struct {
	Stderr io.Writer
}

// Run starts name and waits for it. Cancelling ctx kills the process.
func (r ExecRunner) Run(ctx context.Context, stdout io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s: %w", ErrCommandFailed, name, err)
	}
	return nil
}

// Command names of the toolkit's console scripts.
const (
	PreprocessCmd = "fairseq-preprocess"
	TrainCmd      = "fairseq-train"
	GenerateCmd   = "fairseq-generate"
)

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithRunner sets how commands are executed (default: ExecRunner).
func WithRunner(r Runner) Option {
	return func(t *Toolkit) {
		if r != nil {
			t.runner = r
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(t *Toolkit) {
		if l != nil {
			t.logger = l
		}
	}
}

// Toolkit builds toolkit invocations and runs them.
type Toolkit struct {
	runner Runner
	logger *slog.Logger
}

// New creates a Toolkit.
func New(opts ...Option) *Toolkit {
	t := &Toolkit{
		runner: ExecRunner{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Toolkit) run(ctx context.Context, stdout io.Writer, name string, args []string) error {
	t.logger.Info("running", "command", name, "args", strings.Join(args, " "))
	if stdout == nil {
		stdout = io.Discard
	}
	return t.runner.Run(ctx, stdout, name, args...)
}
