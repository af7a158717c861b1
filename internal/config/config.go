// Package config loads the YAML configuration of the gotaylor MCP server.
package config

import (
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/gotaylor"
	"github.com/njchilds90/gotaylor/internal/logging"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	Debug             bool          `yaml:"debug"`
}

type EngineConfig struct {
	// MaxOrder bounds the Taylor order a single tool call may request.
	MaxOrder int `yaml:"max_order"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxBodyBytes:      1 << 20,
		},
		Engine: EngineConfig{MaxOrder: gotaylor.DefaultMaxOrder},
		Log:    LogConfig{Level: "info", Format: logging.FormatText},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read the config file")
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes data into cfg, keeping fields data does not mention, and
// validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "invalid yaml")
	}
	return cfg.Validate()
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		result = multierror.Append(result, errors.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		result = multierror.Append(result, errors.New("server.max_body_bytes must be positive"))
	}
	for name, d := range map[string]time.Duration{
		"read_header_timeout": c.Server.ReadHeaderTimeout,
		"read_timeout":        c.Server.ReadTimeout,
		"write_timeout":       c.Server.WriteTimeout,
		"idle_timeout":        c.Server.IdleTimeout,
	} {
		if d < 0 {
			result = multierror.Append(result, errors.Errorf("server.%s must not be negative", name))
		}
	}
	if c.Engine.MaxOrder < 0 {
		result = multierror.Append(result, errors.Errorf("engine.max_order %d must not be negative", c.Engine.MaxOrder))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "log.level"))
	}
	switch c.Log.Format {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		result = multierror.Append(result, errors.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	return result.ErrorOrNil()
}

// Logging returns the logger configuration for c.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format, Service: "gotaylor-mcp"}
}
