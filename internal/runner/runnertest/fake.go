// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/supergemini/installer/internal/runner"
)

// Result is the scripted response for one command line.
type Result struct {
	Output string
	Code   int
	Err    error // start failure or timeout
}

// Call records one invocation.
type Call struct {
	Interactive bool // Run rather than Capture
	Line        string
}

// Fake answers LookPath from a set of known executables and Run/Capture
// from results keyed by the quoted command line. Unscripted commands fail
// to start.
type Fake struct {
	paths   map[string]bool
	results map[string]Result
	Calls   []Call
}

// New returns a Fake where only the given executables are on PATH.
func New(onPath ...string) *Fake {
	f := &Fake{paths: map[string]bool{}, results: map[string]Result{}}
	for _, name := range onPath {
		f.paths[name] = true
	}
	return f
}

// On scripts the response for a command line, e.g. "pip3 show SuperGemini".
func (f *Fake) On(line string, r Result) *Fake {
	f.results[line] = r
	return f
}

func (f *Fake) LookPath(name string) (string, error) {
	if f.paths[name] {
		return "/usr/bin/" + name, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (f *Fake) Run(name string, args ...string) (int, error) {
	line := runner.Quote(name, args...)
	f.Calls = append(f.Calls, Call{Interactive: true, Line: line})

	r, ok := f.results[line]
	if !ok {
		return -1, fmt.Errorf("%s: not scripted", line)
	}
	if r.Err != nil {
		return -1, r.Err
	}
	return r.Code, nil
}

func (f *Fake) Capture(ctx context.Context, name string, args ...string) ([]byte, error) {
	line := runner.Quote(name, args...)
	f.Calls = append(f.Calls, Call{Line: line})

	r, ok := f.results[line]
	if !ok {
		return nil, fmt.Errorf("%s: not scripted", line)
	}
	if r.Err != nil {
		return []byte(r.Output), r.Err
	}
	if r.Code != 0 {
		return []byte(r.Output), &runner.ExitError{Command: line, Code: r.Code}
	}
	return []byte(r.Output), nil
}

// Ran reports whether line was spawned interactively.
func (f *Fake) Ran(line string) bool {
	for _, c := range f.Calls {
		if c.Interactive && c.Line == line {
			return true
		}
	}
	return false
}

// Interactive returns every command line passed to Run, in order.
func (f *Fake) Interactive() []string {
	var out []string
	for _, c := range f.Calls {
		if c.Interactive {
			out = append(out, c.Line)
		}
	}
	return out
}

// Queried reports whether any captured call's command line starts with prefix.
func (f *Fake) Queried(prefix string) bool {
	for _, c := range f.Calls {
		if !c.Interactive && strings.HasPrefix(c.Line, prefix) {
			return true
		}
	}
	return false
}
