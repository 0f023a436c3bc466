package ros

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/newtron-network/rosdriver/pkg/rosapi"
)

// Config holds everything needed to reach one device. Credentials and
// endpoints are passed explicitly, never read from ambient environment state.
type Config struct {
	// Hostname is the device address (name or IP, without port).
	Hostname string `yaml:"hostname" validate:"required"`

	// Username and Password authenticate both the API session and the SSH
	// channel used for configuration export.
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password"`

	// Port is the API service port. Zero selects 8728, or 8729 with TLS.
	Port int `yaml:"port" validate:"min=0,max=65535"`

	// UseTLS connects to the API-SSL service.
	UseTLS bool `yaml:"use_tls"`

	// TLSConfig overrides the TLS client configuration.
	TLSConfig *tls.Config `yaml:"-"`

	// Timeout bounds the TCP connect.
	Timeout time.Duration `yaml:"timeout"`

	// ReadTimeout bounds each wait for a reply sentence.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// SSHPort is the SSH service port used for GetConfig. Zero selects 22.
	SSHPort int `yaml:"ssh_port" validate:"min=0,max=65535"`
}

var validate = validator.New()

// Validate checks the configuration before any connection is attempted.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid driver config: %w", err)
	}
	return nil
}

// apiAddress returns the host:port of the API service.
func (c *Config) apiAddress() string {
	port := c.Port
	if port == 0 {
		if c.UseTLS {
			port = rosapi.DefaultTLSPort
		} else {
			port = rosapi.DefaultPort
		}
	}
	return fmt.Sprintf("%s:%d", c.Hostname, port)
}

// sshAddress returns the host:port of the SSH service.
func (c *Config) sshAddress() string {
	port := c.SSHPort
	if port == 0 {
		port = 22
	}
	return fmt.Sprintf("%s:%d", c.Hostname, port)
}
