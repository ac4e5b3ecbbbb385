package store

import "os"

// Config configures the filesystem-backed store.
type Config struct {
	// Root is the directory all folders live under. It is created if absent,
	// made absolute and symlink-evaluated once at Open.
	Root string `mapstructure:"root" validate:"required" yaml:"root" json:"root"`

	// DirMode is the permission mode for created folders.
	// Default: 0755
	DirMode os.FileMode `mapstructure:"dir_mode" yaml:"dir_mode" json:"dir_mode,omitempty"`

	// FileMode is the permission mode for stored files.
	// Default: 0644
	FileMode os.FileMode `mapstructure:"file_mode" yaml:"file_mode" json:"file_mode,omitempty"`
}

// ApplyDefaults fills in zero values.
func (c *Config) ApplyDefaults() {
	if c.DirMode == 0 {
		c.DirMode = 0o755
	}
	if c.FileMode == 0 {
		c.FileMode = 0o644
	}
}
