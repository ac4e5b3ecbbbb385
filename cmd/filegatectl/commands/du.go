package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/cmd/filegatectl/cmdutil"
	"github.com/marmos91/filegate/internal/cli/output"
)

var duCmd = &cobra.Command{
	Use:   "du <folder>",
	Short: "Show the total size of a folder's files",
	Long: `Show the sum of the sizes of the files directly inside a folder, and the
folder's modification time. Subfolders are not counted.`,
	Args: cobra.ExactArgs(1),
	RunE: runDu,
}

func runDu(cmd *cobra.Command, args []string) error {
	folder, err := cmdutil.ParseFolder(args[0])
	if err != nil {
		return err
	}
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	stat, err := client.StatFolder(cmd.Context(), folder)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", folder, err)
	}

	printer, err := cmdutil.NewPrinter()
	if err != nil {
		return err
	}
	if printer.Format() == output.FormatTable {
		return output.PrintKeyValues(os.Stdout, folderStatPairs(stat))
	}
	return printer.Print(stat)
}
