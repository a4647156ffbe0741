package cmd

import (
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Upgrade the package to the latest release",
	Long: `Finds pip and runs "pip install --upgrade" for the package.
The upgrade is attempted whether or not the package is installed.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd, "update")
	if err != nil {
		return err
	}
	defer sess.close()

	outcome, err := sess.installer().Update(cmd.Context())
	sess.log.Printf("result: %s, err=%v", outcome, err)
	return err
}
