package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Executor runs a single command to completion and returns what it wrote to
// stdout and stderr. exitCode is -1 when the command could not be started.
type Executor interface {
	Execute(ctx context.Context, args []string) (stdout, stderr []byte, exitCode int, err error)
}

// ExecExecutor runs commands with os/exec.
type ExecExecutor struct{}

// Execute implements Executor.
func (ExecExecutor) Execute(ctx context.Context, args []string) ([]byte, []byte, int, error) {
	if len(args) == 0 {
		return nil, nil, -1, errors.New("empty command")
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), err
	}
	return stdout.Bytes(), stderr.Bytes(), -1, err
}

// Runner is the single place commands are executed from. With DryRun set,
// Run only prints what it would execute.
type Runner struct {
	Exec   Executor
	DryRun bool

	// Out receives dry-run lines. Defaults to os.Stdout.
	Out io.Writer
}

// NewRunner returns a Runner backed by os/exec.
func NewRunner(dryRun bool) *Runner {
	return &Runner{Exec: ExecExecutor{}, DryRun: dryRun, Out: os.Stdout}
}

// Run executes a command that changes state. In dry-run mode nothing is
// executed.
func (r *Runner) Run(ctx context.Context, args ...string) error {
	if r.DryRun {
		out := r.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := fmt.Fprintf(out, "Would run: %s\n", FormatCommand(args))
		return err
	}
	_, err := r.execute(ctx, args)
	return err
}

// Output executes a read-only query and returns its stdout. Queries run even
// in dry-run mode.
func (r *Runner) Output(ctx context.Context, args ...string) ([]byte, error) {
	return r.execute(ctx, args)
}

func (r *Runner) execute(ctx context.Context, args []string) ([]byte, error) {
	log.Debug("running command", "cmd", FormatCommand(args))
	stdout, stderr, code, err := r.Exec.Execute(ctx, args)
	if err != nil || code != 0 {
		return stdout, &ExternalCommandError{
			Args:     append([]string(nil), args...),
			ExitCode: code,
			Stdout:   string(stdout),
			Stderr:   string(stderr),
			Err:      err,
		}
	}
	return stdout, nil
}
