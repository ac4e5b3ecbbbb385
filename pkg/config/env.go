package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding maps a config key to the environment variables that may set
// it, highest precedence first.
type envBinding struct {
	ConfigKey string
	EnvVars   []string
	Validate  func(string) error
}

// Unprefixed names accepted for compatibility with existing deployments.
const (
	EnvFilesDir = "FILES_DIR"
	EnvAPIKey   = "API_KEY"
	EnvPort     = "PORT"
)

func getEnvBindings() []envBinding {
	return []envBinding{
		{"storage.root", []string{EnvPrefix + "_STORAGE_ROOT", EnvFilesDir}, nil},
		{"auth.api_key", []string{EnvPrefix + "_AUTH_API_KEY", EnvAPIKey}, nil},
		{"server.port", []string{EnvPrefix + "_SERVER_PORT", EnvPort}, validateEnvPort},
	}
}

// bindEnvVars binds the keys that have more than one environment name.
func bindEnvVars(v *viper.Viper) error {
	var problems []string

	for _, b := range getEnvBindings() {
		args := append([]string{b.ConfigKey}, b.EnvVars...)
		if err := v.BindEnv(args...); err != nil {
			problems = append(problems, fmt.Sprintf("failed to bind %s: %v", b.ConfigKey, err))
			continue
		}
		if b.Validate == nil {
			continue
		}
		for _, name := range b.EnvVars {
			if value := os.Getenv(name); value != "" {
				if err := b.Validate(value); err != nil {
					problems = append(problems, fmt.Sprintf("invalid %s value %q: %v", name, value, err))
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}
