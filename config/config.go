// Package config reads the settings of the mesh index tooling from JSON or YAML files.
package config

import (
	"github.com/pkg/errors"

	"go.viam.com/meshoctree/logging"
	"go.viam.com/meshoctree/octree"
)

// Config is the file format read by Read.
type Config struct {
	// ConfigFilePath is where the config was read from, if anywhere.
	ConfigFilePath string `json:"-" yaml:"-"`

	Index    octree.Config `json:"index" yaml:"index"`
	LogLevel logging.Level `json:"log_level" yaml:"log_level"`
}

// Default returns the config used when no file is given.
func Default() *Config {
	return &Config{
		Index:    octree.DefaultConfig(),
		LogLevel: logging.INFO,
	}
}

// Ensure validates the config.
func (c *Config) Ensure() error {
	if err := c.Index.Validate("index"); err != nil {
		return errors.Wrap(err, "invalid index config")
	}
	return nil
}
