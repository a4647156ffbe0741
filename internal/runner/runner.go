// Package runner spawns external commands. Run attaches the child to the
// invoking terminal and reports only its exit status; Capture is reserved
// for short probe queries that run under a deadline.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/supergemini/installer/internal/logger"
)

// Runner abstracts process execution so probes and flows can be driven by
// a scripted fake in tests.
type Runner interface {
	// LookPath resolves name against PATH.
	LookPath(name string) (string, error)
	// Run executes name synchronously with the terminal's streams attached.
	// A child that exits non-zero yields its status and a nil error; err is
	// only set when the process could not be started.
	Run(name string, args ...string) (int, error)
	// Capture executes name under ctx and returns its combined output.
	Capture(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExitError reports a captured command that ran and exited non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}

// Exec is the os/exec backed Runner.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    *logger.Logger
}

// New returns an Exec wired to the process's own stdio.
func New(log *logger.Logger) *Exec {
	return &Exec{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    log,
	}
}

func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (e *Exec) Run(name string, args ...string) (int, error) {
	e.logf("run: %s", Quote(name, args...))

	cmd := exec.Command(name, args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err == nil {
		e.logf("exit: 0")
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// -1 when the child was killed by a signal.
		e.logf("exit: %d", exitErr.ExitCode())
		return exitErr.ExitCode(), nil
	}
	e.logf("start failed: %v", err)
	return -1, fmt.Errorf("%s: %w", name, err)
}

func (e *Exec) Capture(ctx context.Context, name string, args ...string) ([]byte, error) {
	e.logf("probe: %s", Quote(name, args...))

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return out, captureErr(ctx, err, name, args...)
}

// captureErr classifies a finished probe. The deadline only matters when the
// child failed: a probe that exited 0 as the deadline passed still succeeded.
func captureErr(ctx context.Context, err error, name string, args ...string) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", name, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: Quote(name, args...), Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (e *Exec) logf(format string, args ...any) {
	if e.Log != nil {
		e.Log.Printf(format, args...)
	}
}

// Quote renders a command line the way a POSIX shell would accept it.
func Quote(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}
