// Package cmdutil provides shared utilities for filegatectl commands.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/marmos91/filegate/internal/bytesize"
	"github.com/marmos91/filegate/internal/cli/credentials"
	"github.com/marmos91/filegate/internal/cli/output"
	"github.com/marmos91/filegate/internal/cli/prompt"
	"github.com/marmos91/filegate/pkg/apiclient"
)

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ServerURL string
	APIKey    string
	Header    string
	Output    string
	NoColor   bool
}

// GetClient returns an API client for the current context. The --server,
// --api-key and --header flags override the stored values; with both
// --server and --api-key no stored context is needed.
func GetClient() (*apiclient.Client, error) {
	if Flags.ServerURL != "" && Flags.APIKey != "" {
		return apiclient.New(Flags.ServerURL).WithHeader(Flags.Header).WithAPIKey(Flags.APIKey), nil
	}

	store, err := credentials.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}
	_, ctx, err := store.Current()
	if err != nil {
		return nil, err
	}

	url := ctx.ServerURL
	if Flags.ServerURL != "" {
		url = Flags.ServerURL
	}
	if url == "" {
		return nil, fmt.Errorf("no server URL configured. Run 'filegatectl login' first")
	}

	key := ctx.APIKey
	if Flags.APIKey != "" {
		key = Flags.APIKey
	}
	header := ctx.AuthHeader
	if Flags.Header != "" {
		header = Flags.Header
	}

	return apiclient.New(url).WithHeader(header).WithAPIKey(key), nil
}

// GetOutputFormatParsed returns the output format: the --output flag, then
// the stored preference, then table.
func GetOutputFormatParsed() (output.Format, error) {
	if Flags.Output != "" {
		return output.ParseFormat(Flags.Output)
	}
	if store, err := credentials.NewStore(); err == nil {
		return output.ParseFormat(store.Preferences().DefaultOutput)
	}
	return output.FormatTable, nil
}

// NewPrinter returns a printer for stdout in the selected format.
func NewPrinter() (*output.Printer, error) {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(os.Stdout, format, !Flags.NoColor), nil
}

// PrintOutput prints data in the selected format. In table format it prints
// emptyMsg instead when isEmpty is set.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintSuccess prints a confirmation in table format only.
func PrintSuccess(msg string) {
	printer, err := NewPrinter()
	if err != nil {
		return
	}
	printer.Success(msg)
}

// RunDeleteWithConfirmation prompts for confirmation (unless force is set)
// and runs deleteFn.
func RunDeleteWithConfirmation(resourceType, name string, force bool, deleteFn func() error) error {
	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete %s '%s'?", resourceType, name), force)
	if err != nil {
		if prompt.IsAborted(err) {
			fmt.Println("\nAborted.")
			return nil
		}
		return err
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}
	return deleteFn()
}

// ParseTarget splits "folder/file" into its parts.
func ParseTarget(target string) (folder, file string, err error) {
	folder, file, ok := strings.Cut(target, "/")
	if !ok || folder == "" || file == "" {
		return "", "", fmt.Errorf("invalid target %q: expected <folder>/<file>", target)
	}
	return folder, file, nil
}

// ParseFolder accepts "folder" or "folder/".
func ParseFolder(target string) (string, error) {
	folder := strings.TrimSuffix(target, "/")
	if folder == "" || strings.Contains(folder, "/") {
		return "", fmt.Errorf("invalid folder %q", target)
	}
	return folder, nil
}

// FormatSize renders a byte count for humans.
func FormatSize(n int64) string {
	if n < 0 {
		return "-"
	}
	return bytesize.ByteSize(n).String()
}

// FormatTime renders a timestamp in local time, or "-" when unknown.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
