package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/cmd/filegatectl/cmdutil"
)

var rmForce bool

var rmCmd = &cobra.Command{
	Use:   "rm <folder>/<file>",
	Short: "Delete a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "Skip confirmation")
}

func runRm(cmd *cobra.Command, args []string) error {
	folder, file, err := cmdutil.ParseTarget(args[0])
	if err != nil {
		return err
	}
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("file", args[0], rmForce, func() error {
		msg, err := client.DeleteFile(cmd.Context(), folder, file)
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		cmdutil.PrintSuccess(msg.Message)
		return nil
	})
}
