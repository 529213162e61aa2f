// Package config loads checker settings from a YAML file.
package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/sema/internal/types"
)

// Config holds the settings shared by the command line driver and the
// checker. Flags given on the command line override file values.
type Config struct {
	WarnShadowing      bool `yaml:"warn_shadowing"`
	StrictPrefixLvalue bool `yaml:"strict_prefix_lvalue"`
	MaxErrors          int  `yaml:"max_errors"` // 0 means unlimited
	Trace              bool `yaml:"trace"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{}
}

// Load reads the file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: open %s", path)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Decode reads settings from r on top of the defaults. An empty document
// yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "parse")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxErrors < 0 {
		return errors.Errorf("max_errors must not be negative, got %d", c.MaxErrors)
	}
	return nil
}

// Options returns the checker options selected by c.
func (c *Config) Options() types.Options {
	return types.Options{
		WarnShadowing:      c.WarnShadowing,
		StrictPrefixLvalue: c.StrictPrefixLvalue,
	}
}
