package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/cmd/filegatectl/cmdutil"
	"github.com/marmos91/filegate/internal/cli/output"
)

var statCmd = &cobra.Command{
	Use:   "stat <folder>/<file>",
	Short: "Show a file's size and timestamps",
	Args:  cobra.ExactArgs(1),
	RunE:  runStat,
}

func runStat(cmd *cobra.Command, args []string) error {
	folder, file, err := cmdutil.ParseTarget(args[0])
	if err != nil {
		return err
	}
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	stat, err := client.StatFile(cmd.Context(), folder, file)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", args[0], err)
	}

	printer, err := cmdutil.NewPrinter()
	if err != nil {
		return err
	}
	if printer.Format() == output.FormatTable {
		return output.PrintKeyValues(os.Stdout, fileStatPairs(stat))
	}
	return printer.Print(stat)
}
