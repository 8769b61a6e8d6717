// Package config loads the optional YAML configuration shared by the RANP
// tools. Command-line flags override whatever the file sets.
//
// Example:
//
//	retime:
//	  delay_per_reset: 3
//	  reset_wait: true
//	  trailer: false
//	import:
//	  strict: false
//	  trailer: true
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/reallyoldfogie/ranp-go/ranp/importer"
	"github.com/reallyoldfogie/ranp-go/ranp/retime"
)

// maxDelayPerReset bounds delay_per_reset; each reset writes that many
// padding frames.
const maxDelayPerReset = 1 << 16

// Config is the top-level configuration file.
type Config struct {
	Retime RetimeConfig `yaml:"retime"`
	Import ImportConfig `yaml:"import"`
}

// RetimeConfig configures ranp2ranp.
type RetimeConfig struct {
	// DelayPerReset is added to the frame delay after every reset. Default: 0.
	DelayPerReset int `yaml:"delay_per_reset"`
	// ResetWait drops everything before the first reset. Default: false.
	ResetWait bool `yaml:"reset_wait"`
	// Trailer appends 60 empty frames. Default: false.
	Trailer bool `yaml:"trailer"`
}

// ImportConfig configures the movie importers.
type ImportConfig struct {
	// Strict fails on header validation problems. Default: false.
	Strict bool `yaml:"strict"`
	// Trailer appends 60 empty frames. Default: true.
	Trailer *bool `yaml:"trailer"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates the YAML file at path. Omitted fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Import.Trailer == nil {
		t := true
		c.Import.Trailer = &t
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	d := c.Retime.DelayPerReset
	if d > maxDelayPerReset || d < -maxDelayPerReset {
		return fmt.Errorf("retime.delay_per_reset %d out of range [-%d, %d]", d, maxDelayPerReset, maxDelayPerReset)
	}
	return nil
}

// RetimeOptions converts the retime section.
func (c *Config) RetimeOptions() retime.Config {
	return retime.Config{
		DelayPerReset: c.Retime.DelayPerReset,
		WaitForReset:  c.Retime.ResetWait,
		Trailer:       c.Retime.Trailer,
	}
}

// ImportOptions converts the import section.
func (c *Config) ImportOptions() importer.Options {
	return importer.Options{
		Strict:  c.Import.Strict,
		Trailer: c.Import.Trailer == nil || *c.Import.Trailer,
	}
}
