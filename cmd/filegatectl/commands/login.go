package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/cmd/filegatectl/cmdutil"
	"github.com/marmos91/filegate/internal/cli/credentials"
	"github.com/marmos91/filegate/internal/cli/prompt"
	"github.com/marmos91/filegate/pkg/apiclient"
)

// probeFolder is looked up to check the key; it need not exist.
const probeFolder = "filegatectl-login-check"

var (
	loginName     string
	loginNoVerify bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a server URL and API key",
	Long: `Store the URL and API key of a filegate server as a named context and
make it current. Missing values are prompted for.

Examples:
  # Interactive
  filegatectl login

  # Non-interactive
  filegatectl login --server http://localhost:3000 --api-key $API_KEY --name local`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginName, "name", "default", "Context name")
	loginCmd.Flags().BoolVar(&loginNoVerify, "no-verify", false, "Save without checking the key against the server")
}

func runLogin(cmd *cobra.Command, args []string) error {
	serverURL := cmdutil.Flags.ServerURL
	if serverURL == "" {
		var err error
		if serverURL, err = prompt.ServerURL("Server URL", "http://localhost:3000"); err != nil {
			return err
		}
	}

	apiKey := cmdutil.Flags.APIKey
	if apiKey == "" {
		var err error
		if apiKey, err = prompt.Secret("API key"); err != nil {
			return err
		}
	}

	client := apiclient.New(serverURL).WithHeader(cmdutil.Flags.Header).WithAPIKey(apiKey)
	if !loginNoVerify {
		if err := verifyKey(cmd.Context(), client); err != nil {
			return err
		}
	}

	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize credential store: %w", err)
	}
	if err := store.Save(loginName, &credentials.Context{
		ServerURL:  client.BaseURL(),
		APIKey:     apiKey,
		AuthHeader: cmdutil.Flags.Header,
	}); err != nil {
		return fmt.Errorf("failed to save context: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Logged in to %s (context %q)", client.BaseURL(), loginName))
	return nil
}

// verifyKey probes the server: anything but 403 proves the key was accepted.
func verifyKey(ctx context.Context, client *apiclient.Client) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := client.StatFolder(ctx, probeFolder)
	switch {
	case err == nil, apiclient.IsNotFound(err):
		return nil
	case apiclient.IsForbidden(err):
		return fmt.Errorf("the server rejected the API key")
	default:
		return fmt.Errorf("could not reach %s: %w", client.BaseURL(), err)
	}
}
