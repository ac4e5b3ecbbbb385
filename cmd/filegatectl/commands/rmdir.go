package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/cmd/filegatectl/cmdutil"
)

var rmdirForce bool

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <folder>",
	Short: "Delete a folder and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRmdir,
}

func init() {
	rmdirCmd.Flags().BoolVarP(&rmdirForce, "force", "f", false, "Skip confirmation")
}

func runRmdir(cmd *cobra.Command, args []string) error {
	folder, err := cmdutil.ParseFolder(args[0])
	if err != nil {
		return err
	}
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("folder and all its contents", folder, rmdirForce, func() error {
		msg, err := client.DeleteFolder(cmd.Context(), folder)
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", folder, err)
		}
		cmdutil.PrintSuccess(msg.Message)
		return nil
	})
}
