package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/internal/cli/output"
	"github.com/marmos91/filegate/pkg/config"
)

var (
	showOutput     string
	showWithSecret bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the configuration after the file, environment and defaults
have been merged. The API key is masked unless --show-secret is given.

Examples:
  # Show as YAML
  filegate config show

  # Show as JSON
  filegate config show --output json`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
	showCmd.Flags().BoolVar(&showWithSecret, "show-secret", false, "Print the API key in clear")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !showWithSecret && cfg.Auth.APIKey != "" {
		cfg.Auth.APIKey = "********"
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(cmd.OutOrStdout(), cfg)
	default:
		return output.PrintYAML(cmd.OutOrStdout(), cfg)
	}
}
