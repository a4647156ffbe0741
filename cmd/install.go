package cmd

import (
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the package if it is missing",
	Long: `Checks for Python 3 and pip, then installs the package from PyPI
unless pip already reports it as installed.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd, "install")
	if err != nil {
		return err
	}
	defer sess.close()

	outcome, err := sess.installer().Install(cmd.Context())
	sess.log.Printf("result: %s, err=%v", outcome, err)
	return err
}
