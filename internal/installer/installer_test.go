package installer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supergemini/installer/internal/logger"
	"github.com/supergemini/installer/internal/pm"
	"github.com/supergemini/installer/internal/probe"
	"github.com/supergemini/installer/internal/runner/runnertest"
)

// ── fakes ────────────────────────────────────────────────────────────────────

// recorder is a Reporter that keeps every line with its marker.
type recorder struct {
	lines []string
}

func (r *recorder) Step(msg string)    { r.lines = append(r.lines, "step: "+msg) }
func (r *recorder) Success(msg string) { r.lines = append(r.lines, "ok: "+msg) }
func (r *recorder) Failure(msg string) { r.lines = append(r.lines, "fail: "+msg) }
func (r *recorder) Note(msg string)    { r.lines = append(r.lines, "note: "+msg) }

func (r *recorder) String() string { return strings.Join(r.lines, "\n") }

const pkg = "SuperGemini"

var (
	python3Version = runnertest.Result{Output: "Python 3.12.1\n"}
	pip3Version    = runnertest.Result{Output: "pip 24.0 from /usr/lib/python3/dist-packages/pip (python 3.12)\n"}
	notInstalled   = runnertest.Result{Output: "WARNING: Package(s) not found: SuperGemini\n", Code: 1}
	installedShow  = runnertest.Result{Output: "Name: SuperGemini\nVersion: 4.1.0\n"}
)

func newInstaller(fake *runnertest.Fake) (*Installer, *recorder) {
	log := logger.NewDiscard(false)
	ui := &recorder{}
	return &Installer{
		Probe: &probe.Prober{
			Runner:          fake,
			Log:             log,
			Interpreters:    []string{"python3", "python"},
			PackageManagers: []string{"pip3", "pip"},
			Timeout:         time.Second,
		},
		Runner:  fake,
		Log:     log,
		UI:      ui,
		Package: pkg,
	}, ui
}

// healthyHost has python3 and pip3 on PATH; the package query is left to the test.
func healthyHost() *runnertest.Fake {
	return runnertest.New("python3", "pip3").
		On("python3 --version", python3Version).
		On("pip3 --version", pip3Version)
}

// ── Install ──────────────────────────────────────────────────────────────────

// TestInstallFreshInstall verifies absent package + install exit 0 → success.
func TestInstallFreshInstall(t *testing.T) {
	fake := healthyHost().
		On("pip3 show SuperGemini", notInstalled).
		On("pip3 install SuperGemini", runnertest.Result{})
	ins, ui := newInstaller(fake)

	outcome, err := ins.Install(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeInstalled, outcome)
	assert.Equal(t, 0, ExitCode(err))
	assert.Equal(t, []string{"pip3 install SuperGemini"}, fake.Interactive())
	assert.Contains(t, ui.lines, "ok: SuperGemini installed successfully!")
	assert.Contains(t, ui.lines, "ok: Found Python: python3 (Python 3.12.1)")
	assert.NotContains(t, ui.String(), "note:", "confirmed absence needs no note")
}

// TestInstallAlreadyInstalled verifies the install command is never spawned.
func TestInstallAlreadyInstalled(t *testing.T) {
	fake := healthyHost().On("pip3 show SuperGemini", installedShow)
	ins, ui := newInstaller(fake)

	outcome, err := ins.Install(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyInstalled, outcome)
	assert.Empty(t, fake.Interactive())
	assert.Contains(t, ui.lines, "ok: SuperGemini already installed.")
}

// TestInstallNoInterpreter verifies exit 1 without any package manager query.
func TestInstallNoInterpreter(t *testing.T) {
	fake := runnertest.New("pip3").On("pip3 --version", pip3Version)
	ins, ui := newInstaller(fake)

	outcome, err := ins.Install(context.Background())
	var notFound *ToolNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Python 3", notFound.Tool)
	assert.Equal(t, OutcomeNone, outcome)
	assert.Equal(t, 1, ExitCode(err))
	assert.False(t, fake.Queried("pip"), "no package manager query may run without an interpreter")
	assert.Empty(t, fake.Interactive())
	assert.Contains(t, ui.lines, "fail: Python 3 is required but not found.")
}

// TestInstallNoPackageManager verifies exit 1 and no install attempt.
func TestInstallNoPackageManager(t *testing.T) {
	fake := runnertest.New("python3").
		On("python3 --version", python3Version).
		On("python3 -m pip --version", runnertest.Result{Output: "No module named pip", Code: 1})
	ins, ui := newInstaller(fake)

	_, err := ins.Install(context.Background())
	var notFound *ToolNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "pip", notFound.Tool)
	assert.Equal(t, 1, ExitCode(err))
	assert.Empty(t, fake.Interactive())
	assert.Contains(t, ui.lines, "fail: pip is required but not found.")
}

// TestInstallViaPipModule verifies the interpreter's pip module is used when
// no pip executable exists.
func TestInstallViaPipModule(t *testing.T) {
	fake := runnertest.New("python3").
		On("python3 --version", python3Version).
		On("python3 -m pip --version", pip3Version).
		On("python3 -m pip show SuperGemini", notInstalled).
		On("python3 -m pip install SuperGemini", runnertest.Result{})
	ins, _ := newInstaller(fake)

	outcome, err := ins.Install(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeInstalled, outcome)
	assert.True(t, fake.Ran("python3 -m pip install SuperGemini"))
}

// TestInstallCommandFails verifies exit 1, a failure diagnostic and no retry.
func TestInstallCommandFails(t *testing.T) {
	fake := healthyHost().
		On("pip3 show SuperGemini", notInstalled).
		On("pip3 install SuperGemini", runnertest.Result{Code: 1})
	ins, ui := newInstaller(fake)

	outcome, err := ins.Install(context.Background())
	var cmdErr *pm.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Equal(t, OutcomeNone, outcome)
	assert.Equal(t, 1, ExitCode(err))
	assert.Len(t, fake.Interactive(), 1, "the install must not be retried")
	assert.Contains(t, ui.lines, "fail: Installation failed.")
	assert.NotContains(t, ui.String(), "installed successfully")
}

// TestInstallQueryFailedStillInstalls verifies the conservative default and
// that the failed query is surfaced as a note.
func TestInstallQueryFailedStillInstalls(t *testing.T) {
	fake := healthyHost().
		On("pip3 show SuperGemini", runnertest.Result{Err: context.DeadlineExceeded}).
		On("pip3 install SuperGemini", runnertest.Result{})
	ins, ui := newInstaller(fake)

	outcome, err := ins.Install(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeInstalled, outcome)
	assert.Contains(t, ui.String(), "note: Could not query pip3 for SuperGemini")
}

// ── Update ───────────────────────────────────────────────────────────────────

// TestUpdateSuccess verifies one upgrade attempt and no package query.
func TestUpdateSuccess(t *testing.T) {
	fake := healthyHost().On("pip3 install --upgrade SuperGemini", runnertest.Result{})
	ins, ui := newInstaller(fake)

	outcome, err := ins.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, []string{"pip3 install --upgrade SuperGemini"}, fake.Interactive())
	assert.False(t, fake.Queried("pip3 show"), "update must not query the package")
	assert.False(t, fake.Queried("python3"), "update must not probe the interpreter")
	assert.Contains(t, ui.lines, "ok: SuperGemini updated successfully!")
}

// TestUpdateFails verifies non-zero upgrade status maps to exit 1.
func TestUpdateFails(t *testing.T) {
	fake := healthyHost().On("pip3 install --upgrade SuperGemini", runnertest.Result{Code: 2})
	ins, ui := newInstaller(fake)

	_, err := ins.Update(context.Background())
	var cmdErr *pm.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 2, cmdErr.ExitCode)
	assert.Equal(t, 1, ExitCode(err))
	assert.Len(t, fake.Interactive(), 1)
	assert.Contains(t, ui.lines, "fail: Update failed.")
}

// TestUpdateNoPackageManager verifies exit 1 with nothing spawned.
func TestUpdateNoPackageManager(t *testing.T) {
	fake := runnertest.New("python3").On("python3 --version", python3Version)
	ins, ui := newInstaller(fake)

	_, err := ins.Update(context.Background())
	var notFound *ToolNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 1, ExitCode(err))
	assert.Empty(t, fake.Interactive())
	assert.Contains(t, ui.lines, "fail: pip not found, cannot update.")
}

// ── exit codes ───────────────────────────────────────────────────────────────

// TestExitCode verifies the nil → 0, error → 1 mapping.
func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(&ToolNotFoundError{Tool: "pip"}))
	assert.Equal(t, 1, ExitCode(fmt.Errorf("wrapped: %w", &pm.CommandError{Command: "pip3 install x", ExitCode: 7})))
	assert.Equal(t, 1, ExitCode(errors.New("config")))
}

// TestReported verifies only flow failures count as already reported.
func TestReported(t *testing.T) {
	assert.True(t, Reported(&ToolNotFoundError{Tool: "pip"}))
	assert.True(t, Reported(fmt.Errorf("install: %w", &pm.CommandError{})))
	assert.False(t, Reported(errors.New("bad config")))
	assert.False(t, Reported(nil))
}

// TestOutcomeString verifies outcome labels.
func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "installed", OutcomeInstalled.String())
	assert.Equal(t, "already installed", OutcomeAlreadyInstalled.String())
	assert.Equal(t, "updated", OutcomeUpdated.String())
	assert.Equal(t, "none", OutcomeNone.String())
}
