package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample filegate configuration file with a freshly
generated API key.

By default, the configuration file is created at $XDG_CONFIG_HOME/filegate/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  filegate init

  # Force overwrite existing config
  filegate init --config /etc/filegate/config.yaml --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var (
		configPath string
		err        error
	)
	if configFile != "" {
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Set storage.root to the directory files should live in")
	_, _ = fmt.Fprintln(out, "  2. Start the server with: filegate start")
	_, _ = fmt.Fprintf(out, "  3. Or specify custom config: filegate start --config %s\n", configPath)
	_, _ = fmt.Fprintln(out, "\nSecurity note:")
	_, _ = fmt.Fprintln(out, "  A random API key has been written to the file (auth.api_key).")
	_, _ = fmt.Fprintln(out, "  To keep it out of the file, remove it and set it in the environment:")
	_, _ = fmt.Fprintf(out, "    export %s_AUTH_API_KEY=$(openssl rand -hex 32)\n", config.EnvPrefix)

	return nil
}
