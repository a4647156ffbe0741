package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/supergemini/installer/internal/config"
	"github.com/supergemini/installer/internal/logger"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the latest diagnostic log",
	Long: `Show the most recent install/update/status log.
Use --follow to stream new lines in real time.`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var flagFollow bool

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVarP(&flagFollow, "follow", "f", false, "follow log output (like tail -f)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	// No session here: opening one would create a newer, empty log.
	settings, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logPath := logger.LatestLogPath(settings.LogDir)
	if logPath == "" {
		return fmt.Errorf("no logs found in %s", settings.LogDir)
	}

	f, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	if _, err := io.Copy(out, f); err != nil {
		return err
	}

	if !flagFollow {
		return nil
	}

	// Follow mode: poll for new content until interrupted.
	ctx := cmd.Context()
	r := bufio.NewReader(f)
	var pending strings.Builder
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(300 * time.Millisecond):
		}
		if err := drainLines(r, out, &pending); err != nil {
			return err
		}
	}
}

// drainLines copies every complete line available from r to out. A trailing
// line without its newline is held in pending until the rest is written.
func drainLines(r *bufio.Reader, out io.Writer, pending *strings.Builder) error {
	for {
		chunk, err := r.ReadString('\n')
		pending.WriteString(chunk)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := io.WriteString(out, pending.String()); err != nil {
			return err
		}
		pending.Reset()
	}
}
