package api

import "time"

// Config configures the file API HTTP server.
type Config struct {
	// Port is the HTTP port for the file API.
	// Default: 3000
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port" json:"port"`

	// ReadTimeout bounds reading the entire request, body included. Uploads
	// must fit in it.
	// Default: 60s
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout"`

	// WriteTimeout bounds writing the response.
	// Default: 60s
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout"`

	// IdleTimeout is how long keep-alive connections wait for the next request.
	// Default: 120s
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" json:"idle_timeout"`

	// RequestTimeout cancels the request context of slow handlers.
	// Default: 60s
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" json:"request_timeout"`

	// AuthHeader names the header carrying the shared secret.
	// Default: X-API-Key
	AuthHeader string `mapstructure:"auth_header" yaml:"auth_header" json:"auth_header"`
}

// DefaultPort is the file API port used when none is configured.
const DefaultPort = 3000

// ApplyDefaults fills in zero values.
func (c *Config) ApplyDefaults() {
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if c.AuthHeader == "" {
		c.AuthHeader = "X-API-Key"
	}
}
