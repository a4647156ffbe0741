package cmd

import (
	"github.com/spf13/cobra"

	"github.com/supergemini/installer/internal/config"
	"github.com/supergemini/installer/internal/installer"
	"github.com/supergemini/installer/internal/logger"
	"github.com/supergemini/installer/internal/probe"
	"github.com/supergemini/installer/internal/runner"
)

// newRunner is swapped by tests for a scripted runner.
var newRunner = func(log *logger.Logger) runner.Runner {
	return runner.New(log)
}

// session holds everything one command invocation needs.
type session struct {
	settings *config.Settings
	log      *logger.Logger
	runner   runner.Runner
	probe    *probe.Prober
	ui       console
}

// newSession loads settings, opens the diagnostic log for name and wires
// the prober. A log directory that cannot be created is not fatal.
func newSession(cmd *cobra.Command, name string) (*session, error) {
	settings, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	ui := console{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}

	log, err := logger.New(settings.LogDir, name, settings.Verbose)
	if err != nil {
		ui.Note("diagnostic log disabled: " + err.Error())
		log = logger.NewDiscard(settings.Verbose)
	}

	r := newRunner(log)
	return &session{
		settings: settings,
		log:      log,
		runner:   r,
		probe: &probe.Prober{
			Runner:          r,
			Log:             log,
			Interpreters:    settings.Interpreters,
			PackageManagers: settings.PackageManagers,
			Timeout:         settings.ProbeTimeout,
		},
		ui: ui,
	}, nil
}

func (s *session) installer() *installer.Installer {
	return &installer.Installer{
		Probe:   s.probe,
		Runner:  s.runner,
		Log:     s.log,
		UI:      s.ui,
		Package: s.settings.Package,
	}
}

func (s *session) close() {
	if path := s.log.LogPath(); path != "" {
		s.log.Printf("log: %s", path)
	}
	_ = s.log.Close()
}
