package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/filegate/pkg/auth"
)

// secretBytes is the entropy of a generated API key.
const secretBytes = 32

const configHeader = `# filegate configuration file
#
# Every key can be overridden with an environment variable named
# FILEGATE_<SECTION>_<KEY>, e.g. FILEGATE_LOGGING_LEVEL=DEBUG.
# FILES_DIR, API_KEY and PORT are honored as well.
#
# auth.api_key below was generated randomly. Clients must send it in the
# server.auth_header header.

`

// InitConfig writes a default configuration with a fresh API key to the
// default location and returns its path.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a default configuration with a fresh API key to
// path. An existing file is only replaced when force is set.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}
	}

	cfg := GetDefaultConfig()
	secret, err := auth.GenerateSecret(secretBytes)
	if err != nil {
		return fmt.Errorf("failed to generate API key: %w", err)
	}
	cfg.Auth.APIKey = secret

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeConfigFile(path, append([]byte(configHeader), data...))
}
