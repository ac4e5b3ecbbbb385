package commands

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/cmd/filegatectl/cmdutil"
	"github.com/marmos91/filegate/pkg/apiclient"
)

var putContentType string

var putCmd = &cobra.Command{
	Use:   "put <local-file> <folder>[/<name>]",
	Short: "Upload a file",
	Long: `Upload a local file into a folder, replacing any file of the same name.
The folder is created if needed. The stored name defaults to the local
file's name; the server sanitizes it.

The content type is taken from the file extension, or detected from the
file's content when the extension is unknown. Use --content-type to set it.

Examples:
  filegatectl put ./a.png photos
  filegatectl put ./IMG_0001.JPG photos/cover.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: runPut,
}

func init() {
	putCmd.Flags().StringVar(&putContentType, "content-type", "", "Content type of the upload")
}

func runPut(cmd *cobra.Command, args []string) error {
	localPath := args[0]
	folder, name, err := putTarget(args[1], localPath)
	if err != nil {
		return err
	}

	contentType := putContentType
	if contentType == "" {
		if contentType, err = detectContentType(localPath); err != nil {
			return err
		}
	}

	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", localPath)
	}

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	msg, err := client.PutFile(cmd.Context(), apiclient.Upload{
		Folder:      folder,
		File:        name,
		SourceName:  filepath.Base(localPath),
		ContentType: contentType,
		Body:        f,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", localPath, err)
	}

	printer, err := cmdutil.NewPrinter()
	if err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("%s: %s/%s (%s)", msg.Message, folder, name, cmdutil.FormatSize(info.Size())))
	return nil
}

// putTarget resolves "<folder>" or "<folder>/<name>".
func putTarget(target, localPath string) (folder, name string, err error) {
	if !strings.Contains(strings.TrimSuffix(target, "/"), "/") {
		folder, err = cmdutil.ParseFolder(target)
		return folder, filepath.Base(localPath), err
	}
	return cmdutil.ParseTarget(target)
}

func detectContentType(path string) (string, error) {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct, nil
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type of %s: %w", path, err)
	}
	return mt.String(), nil
}
