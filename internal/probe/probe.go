// Package probe detects the Python interpreter and package manager on the
// host and asks the package manager whether a package is present.
//
// Probes are read-only: each candidate is looked up on PATH and asked for
// its version under a short deadline. Absence is a nil result, never an
// error.
package probe

import (
	"bufio"
	"bytes"
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/supergemini/installer/internal/logger"
	"github.com/supergemini/installer/internal/pm"
	"github.com/supergemini/installer/internal/runner"
)

// DefaultTimeout bounds each probe query when Prober.Timeout is zero.
const DefaultTimeout = 10 * time.Second

var pythonVersionRe = regexp.MustCompile(`Python (\d+)\.(\d+)`)

// Prober runs environment probes through a Runner.
type Prober struct {
	Runner runner.Runner
	Log    *logger.Logger

	// Interpreters and PackageManagers are candidate command lines tried in
	// order, e.g. "python3" or "py -3".
	Interpreters    []string
	PackageManagers []string

	Timeout time.Duration
}

// Installation is the result of a full probe, used by the status report.
type Installation struct {
	Interpreter    *pm.Tool
	PackageManager *pm.Tool
	Installed      bool
}

// FindInterpreter returns the first candidate that answers --version with
// Python 3 or newer, or nil.
func (p *Prober) FindInterpreter(ctx context.Context) *pm.Tool {
	for _, candidate := range p.Interpreters {
		tool, out := p.try(ctx, candidate)
		if tool == nil {
			continue
		}
		if major, ok := pythonMajor(out); !ok || major < 3 {
			p.Log.Printf("interpreter %q: not Python 3 (%s)", candidate, tool.Version)
			continue
		}
		p.Log.Printf("interpreter: %s (%s)", tool, tool.Version)
		return tool
	}
	p.Log.Printf("interpreter: none of %v responded", p.Interpreters)
	return nil
}

// FindPackageManager returns the first package manager candidate that
// answers --version. When none do and interpreter is non-nil, the
// interpreter's pip module is tried last.
func (p *Prober) FindPackageManager(ctx context.Context, interpreter *pm.Tool) *pm.Tool {
	for _, candidate := range p.PackageManagers {
		if tool, _ := p.try(ctx, candidate); tool != nil {
			p.Log.Printf("package manager: %s (%s)", tool, tool.Version)
			return tool
		}
	}

	if interpreter != nil {
		module := pm.Tool{
			Name: interpreter.Name,
			Args: append(append([]string{}, interpreter.Args...), "-m", "pip"),
		}
		if tool := p.query(ctx, module); tool != nil {
			p.Log.Printf("package manager: %s (%s)", tool, tool.Version)
			return tool
		}
	}
	p.Log.Printf("package manager: none of %v responded", p.PackageManagers)
	return nil
}

// IsPackageInstalled reports whether mgr knows pkg. A failed query counts
// as not installed so the caller attempts the install rather than skipping it.
func (p *Prober) IsPackageInstalled(ctx context.Context, mgr pm.PackageManager, pkg string) bool {
	installed, _ := p.CheckPackage(ctx, mgr, pkg)
	return installed
}

// CheckPackage is IsPackageInstalled that also returns the query error, so
// callers can tell "confirmed absent" (nil error) from "query failed".
func (p *Prober) CheckPackage(ctx context.Context, mgr pm.PackageManager, pkg string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	installed, err := mgr.IsInstalled(ctx, pkg)
	switch {
	case err != nil:
		p.Log.Printf("package %s: query failed, assuming not installed: %v", pkg, err)
		return false, err
	case installed:
		p.Log.Printf("package %s: installed", pkg)
	default:
		p.Log.Printf("package %s: not installed", pkg)
	}
	return installed, nil
}

// Inspect runs every probe without side effects.
func (p *Prober) Inspect(ctx context.Context, pkg string) Installation {
	var inst Installation
	inst.Interpreter = p.FindInterpreter(ctx)
	inst.PackageManager = p.FindPackageManager(ctx, inst.Interpreter)
	if inst.PackageManager != nil {
		inst.Installed = p.IsPackageInstalled(ctx, pm.NewPip(*inst.PackageManager, p.Runner), pkg)
	}
	return inst
}

// try parses candidate, checks PATH and queries the version.
func (p *Prober) try(ctx context.Context, candidate string) (*pm.Tool, []byte) {
	words, err := shellquote.Split(candidate)
	if err != nil || len(words) == 0 {
		p.Log.Printf("candidate %q: unparseable: %v", candidate, err)
		return nil, nil
	}
	if _, err := p.Runner.LookPath(words[0]); err != nil {
		p.Log.Printf("candidate %q: not on PATH", candidate)
		return nil, nil
	}

	tool := pm.Tool{Name: words[0], Args: words[1:]}
	return p.queryOutput(ctx, tool)
}

func (p *Prober) query(ctx context.Context, tool pm.Tool) *pm.Tool {
	found, _ := p.queryOutput(ctx, tool)
	return found
}

func (p *Prober) queryOutput(ctx context.Context, tool pm.Tool) (*pm.Tool, []byte) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	name, args := tool.Command("--version")
	out, err := p.Runner.Capture(ctx, name, args...)
	if err != nil {
		p.Log.Printf("candidate %q: version query failed: %v", tool.String(), err)
		return nil, nil
	}
	tool.Version = firstLine(out)
	return &tool, out
}

func (p *Prober) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

func pythonMajor(out []byte) (int, bool) {
	m := pythonVersionRe.FindSubmatch(out)
	if m == nil {
		return 0, false
	}
	major, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, false
	}
	return major, true
}

func firstLine(out []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if line := bytes.TrimSpace(sc.Bytes()); len(line) > 0 {
			return string(line)
		}
	}
	return ""
}
