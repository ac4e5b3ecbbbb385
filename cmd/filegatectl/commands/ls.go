package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/cmd/filegatectl/cmdutil"
)

var lsCmd = &cobra.Command{
	Use:   "ls <folder>",
	Short: "List the files in a folder",
	Long: `List the names of the files in a folder. Subfolders are not shown.

Examples:
  filegatectl ls photos
  filegatectl ls photos -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	folder, err := cmdutil.ParseFolder(args[0])
	if err != nil {
		return err
	}
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	list, err := client.ListFolder(cmd.Context(), folder)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", folder, err)
	}
	return cmdutil.PrintOutput(os.Stdout, list, len(list.Files) == 0, "No files found.", fileListing{list})
}
