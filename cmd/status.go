package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/supergemini/installer/internal/installer"
	"github.com/supergemini/installer/internal/pm"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show detected Python, pip and package state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd, "status")
	if err != nil {
		return err
	}
	defer sess.close()

	inst := sess.probe.Inspect(cmd.Context(), sess.settings.Package)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	printTool(out, "Python:   ", inst.Interpreter)
	printTool(out, "pip:      ", inst.PackageManager)

	state := failStyle.Render("not installed")
	if inst.Installed {
		state = okStyle.Render("installed")
	} else if inst.PackageManager == nil {
		state = dimStyle.Render("unknown")
	}
	fmt.Fprintf(out, "  %s %s %s\n", labelStyle.Render("Package:  "), valStyle.Render(sess.settings.Package), state)
	if path := sess.log.LogPath(); path != "" {
		fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("Log:      "), dimStyle.Render(path))
	}
	fmt.Fprintln(out)

	switch {
	case inst.Interpreter == nil:
		return &installer.ToolNotFoundError{Tool: "Python 3"}
	case inst.PackageManager == nil:
		return &installer.ToolNotFoundError{Tool: "pip"}
	}
	return nil
}

func printTool(w io.Writer, label string, t *pm.Tool) {
	if t == nil {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(label), failStyle.Render("✗ not found"))
		return
	}
	fmt.Fprintf(w, "  %s %s %s\n", labelStyle.Render(label), valStyle.Render(t.String()), dimStyle.Render(t.Version))
}
