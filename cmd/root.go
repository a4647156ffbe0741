// Package cmd implements the supergemini CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/supergemini/installer/internal/config"
	"github.com/supergemini/installer/internal/installer"
)

// SetVersionInfo is called from main.go with values injected at build time via -ldflags.
// It must be called before Execute().
func SetVersionInfo(version, commit, date string) {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"supergemini %s (commit %s, built %s)\n", version, commit, date,
	))
	rootCmd.Version = version
}

var rootCmd = &cobra.Command{
	Use:   "supergemini",
	Short: "SuperGemini installer",
	Long: `supergemini installs and updates the SuperGemini Python package
using the host's Python 3 interpreter and pip.

Examples:
  supergemini install            install SuperGemini if it is missing
  supergemini update             upgrade SuperGemini to the latest release
  supergemini status             show what was detected
  supergemini logs               show the latest diagnostic log`,
	// Flow failures are printed by the console reporter; Execute prints the rest.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go. It is the only place
// that turns a command result into a process exit code.
func Execute() {
	err := rootCmd.Execute()
	if err != nil && !installer.Reported(err) {
		fmt.Fprintln(os.Stderr, failStyle.Render("Error:"), err)
	}
	os.Exit(installer.ExitCode(err))
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("package", config.DefaultPackage, "Python package to manage (env SUPERGEMINI_PACKAGE)")
	pf.BoolP("verbose", "v", false, "echo the diagnostic log to stderr")
	pf.Duration("probe-timeout", config.DefaultProbeTimeout, "timeout for each interpreter/pip probe")
	pf.String("log-dir", "", "directory for diagnostic logs (default: user cache dir)")
}
