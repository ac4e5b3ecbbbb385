package upload

import "github.com/marmos91/filegate/internal/bytesize"

// Config configures the upload policy.
type Config struct {
	// AllowedExtensions lists accepted file extensions, compared
	// case-insensitively. A leading dot is optional.
	// Default: .gif, .jpg, .png
	AllowedExtensions []string `mapstructure:"allowed_extensions" validate:"required,min=1,dive,required" yaml:"allowed_extensions" json:"allowed_extensions"`

	// AllowedContentTypes lists accepted declared media types.
	// Default: image/gif, image/jpeg, image/png
	AllowedContentTypes []string `mapstructure:"allowed_content_types" validate:"required,min=1,dive,required" yaml:"allowed_content_types" json:"allowed_content_types"`

	// MaxSize is the largest accepted payload.
	// Default: 10MiB
	MaxSize bytesize.ByteSize `mapstructure:"max_size" validate:"required,gt=0" yaml:"max_size" json:"max_size"`

	// VerifyContent additionally sniffs the first bytes of the payload and
	// requires the detected type to be on AllowedContentTypes.
	// Default: false
	VerifyContent bool `mapstructure:"verify_content" yaml:"verify_content" json:"verify_content"`
}

// DefaultMaxSize is the payload ceiling used when none is configured.
const DefaultMaxSize = 10 * bytesize.MiB

// ApplyDefaults fills in zero values.
func (c *Config) ApplyDefaults() {
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = []string{".gif", ".jpg", ".png"}
	}
	if len(c.AllowedContentTypes) == 0 {
		c.AllowedContentTypes = []string{"image/gif", "image/jpeg", "image/png"}
	}
	if c.MaxSize == 0 {
		c.MaxSize = DefaultMaxSize
	}
}
