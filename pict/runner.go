package pict

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/maelig/go-cafuzz/logger"
)

// defaultStrength is the default interaction strength, pairwise coverage.
const defaultStrength uint = 2

// Runner invokes an external covering array generator following the PICT
// command line conventions: the model file path as the first argument, the
// interaction strength as /o:<n>, and the array written to stdout.
type Runner struct {
	binPath  string
	strength uint
	logger   logger.Logger
}

// RunnerOption configures a Runner.
type RunnerOption interface {
	apply(*Runner)
}

type runnerOptFunc func(*Runner)

func (f runnerOptFunc) apply(r *Runner) {
	f(r)
}

// WithStrength sets the interaction strength passed to the generator.
// The default is 2, pairwise coverage.
func WithStrength(t uint) RunnerOption {
	return runnerOptFunc(func(r *Runner) {
		r.strength = t
	})
}

// WithRunnerLogger replaces the default logger.
func WithRunnerLogger(l logger.Logger) RunnerOption {
	return runnerOptFunc(func(r *Runner) {
		r.logger = l
	})
}

// NewRunner creates a Runner invoking the generator binary at binPath.
func NewRunner(binPath string, opts ...RunnerOption) *Runner {
	r := &Runner{
		binPath:  binPath,
		strength: defaultStrength,
		logger:   logger.GetLogger(),
	}
	for _, opt := range opts {
		opt.apply(r)
	}

	return r
}

// Strength returns the configured interaction strength.
func (r *Runner) Strength() uint {
	return r.strength
}

// Generate runs the generator over the model file at modelPath and writes
// the produced covering array to outPath. The context bounds the run: on
// expiry the process is killed, partial output is discarded and the error
// wraps ErrGeneratorTimeout. A start failure or abnormal exit wraps
// ErrGeneratorFailed with the generator's stderr attached.
func (r *Runner) Generate(ctx context.Context, modelPath, outPath string) error {
	cmd := exec.CommandContext(ctx, r.binPath, modelPath, "/o:"+strconv.FormatUint(uint64(r.strength), 10))
	// bounds the pipe drain after a kill when the generator leaves children behind
	cmd.WaitDelay = 3 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running covering array generator",
		"bin", r.binPath, "model", modelPath, "strength", r.strength)

	err := cmd.Run()
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %s", ErrGeneratorTimeout, ctx.Err())
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: exit status %d: %s",
				ErrGeneratorFailed, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}

		return fmt.Errorf("%w: %s", ErrGeneratorFailed, err)
	}

	if err := os.WriteFile(outPath, stdout.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write covering array to %s: %w", outPath, err)
	}

	r.logger.Debug("covering array generated", "out", outPath, "bytes", stdout.Len())

	return nil
}
