package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/cmd/filegatectl/cmdutil"
)

var (
	getOutputPath string
	getForce      bool
)

var getCmd = &cobra.Command{
	Use:   "get <folder>/<file>",
	Short: "Download a file",
	Long: `Download a file. By default it is written to the current directory under
its own name; use --to - to write to stdout.

Examples:
  filegatectl get photos/a.png
  filegatectl get photos/a.png --to /tmp/a.png
  filegatectl get photos/a.png --to - > a.png`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVar(&getOutputPath, "to", "", "Destination path, or - for stdout")
	getCmd.Flags().BoolVarP(&getForce, "force", "f", false, "Overwrite an existing destination")
}

func runGet(cmd *cobra.Command, args []string) error {
	folder, file, err := cmdutil.ParseTarget(args[0])
	if err != nil {
		return err
	}
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	if getOutputPath == "-" {
		_, err := client.DownloadFile(cmd.Context(), folder, file, os.Stdout)
		return err
	}

	dest := getOutputPath
	if dest == "" {
		dest = filepath.Base(file)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !getForce {
		flags |= os.O_EXCL
	}

	body, _, err := client.GetFile(cmd.Context(), folder, file)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", args[0], err)
	}
	defer func() { _ = body.Close() }()

	f, err := os.OpenFile(dest, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", dest)
		}
		return err
	}

	n, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Downloaded %s to %s (%s)", args[0], dest, cmdutil.FormatSize(n)))
	return nil
}
