// Package installer implements the install and update flows. Each flow is a
// linear sequence of probes followed by at most one package manager command;
// it returns an Outcome on success or a typed error on the first failure and
// never terminates the process itself.
package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/supergemini/installer/internal/logger"
	"github.com/supergemini/installer/internal/pm"
	"github.com/supergemini/installer/internal/probe"
	"github.com/supergemini/installer/internal/runner"
)

// Outcome is the successful end state of a flow.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeInstalled
	OutcomeAlreadyInstalled
	OutcomeUpdated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInstalled:
		return "installed"
	case OutcomeAlreadyInstalled:
		return "already installed"
	case OutcomeUpdated:
		return "updated"
	default:
		return "none"
	}
}

// ToolNotFoundError reports that no candidate for a required tool responded.
type ToolNotFoundError struct {
	Tool string
}

func (e *ToolNotFoundError) Error() string {
	return e.Tool + " not found"
}

// ExitCode maps a flow result to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Reported reports whether err is a flow failure the Reporter has already
// shown to the user.
func Reported(err error) bool {
	var notFound *ToolNotFoundError
	var cmdErr *pm.CommandError
	return errors.As(err, &notFound) || errors.As(err, &cmdErr)
}

// Reporter receives human-readable progress lines.
type Reporter interface {
	Step(msg string)
	Success(msg string)
	Failure(msg string)
	Note(msg string)
}

// Installer drives the flows for one package.
type Installer struct {
	Probe   *probe.Prober
	Runner  runner.Runner
	Log     *logger.Logger
	UI      Reporter
	Package string
}

// Install ensures the package is present:
// interpreter → package manager → installed? → install.
func (ins *Installer) Install(ctx context.Context) (Outcome, error) {
	ins.Log.Printf("install %s", ins.Package)
	ins.UI.Step("Checking environment...")

	interp := ins.Probe.FindInterpreter(ctx)
	if interp == nil {
		ins.UI.Failure("Python 3 is required but not found.")
		return OutcomeNone, &ToolNotFoundError{Tool: "Python 3"}
	}
	ins.UI.Success(fmt.Sprintf("Found Python: %s", describe(interp)))

	tool := ins.Probe.FindPackageManager(ctx, interp)
	if tool == nil {
		ins.UI.Failure("pip is required but not found.")
		return OutcomeNone, &ToolNotFoundError{Tool: "pip"}
	}
	ins.UI.Success(fmt.Sprintf("Found pip: %s", describe(tool)))

	mgr := pm.NewPip(*tool, ins.Runner)
	installed, queryErr := ins.Probe.CheckPackage(ctx, mgr, ins.Package)
	if installed {
		ins.UI.Success(fmt.Sprintf("%s already installed.", ins.Package))
		return OutcomeAlreadyInstalled, nil
	}
	if queryErr != nil {
		ins.UI.Note(fmt.Sprintf("Could not query %s for %s; installing anyway.", mgr.Name(), ins.Package))
	}

	ins.UI.Step(fmt.Sprintf("Installing %s from PyPI...", ins.Package))
	if err := mgr.Install(ins.Package); err != nil {
		ins.Log.Printf("install failed: %v", err)
		ins.UI.Failure("Installation failed.")
		return OutcomeNone, fmt.Errorf("install %s: %w", ins.Package, err)
	}
	ins.UI.Success(fmt.Sprintf("%s installed successfully!", ins.Package))
	return OutcomeInstalled, nil
}

// Update upgrades the package: package manager → upgrade. The package
// query is never consulted.
func (ins *Installer) Update(ctx context.Context) (Outcome, error) {
	ins.Log.Printf("update %s", ins.Package)

	tool := ins.Probe.FindPackageManager(ctx, nil)
	if tool == nil {
		ins.UI.Failure("pip not found, cannot update.")
		return OutcomeNone, &ToolNotFoundError{Tool: "pip"}
	}
	mgr := pm.NewPip(*tool, ins.Runner)

	ins.UI.Step(fmt.Sprintf("Updating %s from PyPI...", ins.Package))
	if err := mgr.Upgrade(ins.Package); err != nil {
		ins.Log.Printf("update failed: %v", err)
		ins.UI.Failure("Update failed.")
		return OutcomeNone, fmt.Errorf("update %s: %w", ins.Package, err)
	}
	ins.UI.Success(fmt.Sprintf("%s updated successfully!", ins.Package))
	return OutcomeUpdated, nil
}

func describe(t *pm.Tool) string {
	if t.Version == "" {
		return t.String()
	}
	return fmt.Sprintf("%s (%s)", t, t.Version)
}
