package pm

import (
	"bytes"
	"context"
	"errors"

	"github.com/supergemini/installer/internal/runner"
)

// PipManager implements PackageManager using pip.
type PipManager struct {
	Tool   Tool
	Runner runner.Runner
}

// NewPip wraps a resolved pip tool.
func NewPip(tool Tool, r runner.Runner) *PipManager {
	return &PipManager{Tool: tool, Runner: r}
}

func (p *PipManager) Name() string { return p.Tool.String() }

func (p *PipManager) Install(pkg string) error {
	return p.run("install", pkg)
}

func (p *PipManager) Upgrade(pkg string) error {
	return p.run("install", "--upgrade", pkg)
}

// IsInstalled runs "pip show". A normal non-zero exit means the package is
// absent; start failures and timeouts are returned as errors.
func (p *PipManager) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	name, args := p.Tool.Command("show", pkg)
	out, err := p.Runner.Capture(ctx, name, args...)
	if err != nil {
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

func (p *PipManager) run(args ...string) error {
	name, full := p.Tool.Command(args...)
	code, err := p.Runner.Run(name, full...)
	if err != nil || code != 0 {
		return &CommandError{Command: runner.Quote(name, full...), ExitCode: code, Err: err}
	}
	return nil
}
