// Package pm abstracts Python package manager operations behind a common
// interface. Resolve a Tool with the probe package, then wrap it with NewPip.
package pm

import (
	"context"
	"fmt"

	"github.com/supergemini/installer/internal/runner"
)

// Tool is a resolved executable reference: the program to spawn plus any
// leading arguments, e.g. "python3 -m pip" is Name "python3", Args ["-m", "pip"].
type Tool struct {
	Name    string
	Args    []string
	Version string // first line of the tool's --version output
}

// Command returns the program and full argument list for invoking the tool
// with extra args appended.
func (t Tool) Command(args ...string) (string, []string) {
	full := make([]string, 0, len(t.Args)+len(args))
	full = append(full, t.Args...)
	full = append(full, args...)
	return t.Name, full
}

// String renders the tool as a shell command line.
func (t Tool) String() string {
	return runner.Quote(t.Name, t.Args...)
}

// CommandError reports a package manager command that exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Err      error // set when the process could not be started
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

func (e *CommandError) Unwrap() error { return e.Err }

// PackageManager abstracts pip-style install operations.
// Install and Upgrade run synchronously with output attached to the terminal.
type PackageManager interface {
	// Name returns the command line used to invoke the manager.
	Name() string
	// Install installs pkg.
	Install(pkg string) error
	// Upgrade installs the latest version of pkg.
	Upgrade(pkg string) error
	// IsInstalled queries whether pkg is present. A non-nil error means the
	// query itself could not be answered.
	IsInstalled(ctx context.Context, pkg string) (bool, error)
}
