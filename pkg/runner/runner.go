// Package runner executes the external build, test and backport commands of a
// release from shell-like command lines.
//
// Command lines are split with shell quoting rules but are not run through a
// shell: no globbing, pipes or variable expansion.
//
//	r := runner.New(repoRoot)
//	res, err := r.Run(ctx, "bin/rspec", map[string]string{"SKIP_NORMALIZATION": "true"})
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/sgaunet/bullets"

	"github.com/sgaunet/release-toolbox/internal/logger"
	"github.com/sgaunet/release-toolbox/internal/security"
	"github.com/sgaunet/release-toolbox/internal/timeutil"
)

// Result is the outcome of a finished command.
type Result struct {
	// Output holds the combined stdout and stderr.
	Output   string
	ExitCode int
	Duration time.Duration
}

// Runner runs commands in a fixed working directory.
type Runner struct {
	dir string
	out io.Writer
	log *bullets.Logger
}

// New creates a runner executing commands in dir. An empty dir means the
// current working directory.
func New(dir string) *Runner {
	return &Runner{
		dir: dir,
		log: logger.NoLogger(),
	}
}

// SetLogger sets the logger for the runner.
func (r *Runner) SetLogger(log *bullets.Logger) {
	r.log = log
}

// SetOutput streams command output to w while it is captured.
func (r *Runner) SetOutput(w io.Writer) {
	r.out = w
}

// Run executes command with env added to the current environment. A non-zero
// exit status returns the Result together with an error wrapping
// ErrCommandFailed; the Result output is sanitized.
func (r *Runner) Run(ctx context.Context, command string, env map[string]string) (*Result, error) {
	words, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command %q: %w", security.SanitizeCommandLine(command), err)
	}
	if len(words) == 0 {
		return nil, errEmptyCommand
	}

	display := security.SanitizeCommandLine(command)
	r.log.Debug("Running: " + display)

	cmd := exec.CommandContext(ctx, words[0], words[1:]...) //nolint:gosec // commands come from the release configuration
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), envList(env)...)

	var buf bytes.Buffer
	var w io.Writer = &buf
	if r.out != nil {
		w = io.MultiWriter(&buf, r.out)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	start := time.Now()
	runErr := cmd.Run()
	res := &Result{
		Output:   security.SanitizeString(buf.String()),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	r.log.Debug(fmt.Sprintf("%s finished in %s", words[0], timeutil.FormatDuration(res.Duration)))

	if runErr != nil {
		if exitErr := (&exec.ExitError{}); errors.As(runErr, &exitErr) {
			return res, fmt.Errorf("%w: %s exited with status %d", errCommandFailed, display, res.ExitCode)
		}
		return res, fmt.Errorf("%w: %s: %w", errCommandFailed, display, security.SanitizeError(runErr))
	}
	return res, nil
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}
