package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config controls how generated files are produced.
type Config struct {
	// Tag is the build tag that selects the signature files.
	Tag string `yaml:"tag"`
	// Suffix names generated files: foo.go becomes foo<Suffix>.
	Suffix string `yaml:"suffix"`
	// Tests includes _test.go files when loading packages.
	Tests bool `yaml:"tests"`
	// Write fills bodies in place instead of generating separate files.
	Write bool `yaml:"write"`
}

// NewConfig returns a configuration with default values.
func NewConfig() *Config {
	return &Config{
		Tag:    DefaultTag,
		Suffix: DefaultSuffix,
	}
}

// Load reads a YAML configuration file on top of the defaults. A missing file
// at the default location is not an error; an explicitly named one is.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			slog.Debug("No config file found, using defaults", "file", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	slog.Debug("Loaded config file", "file", path, "tag", cfg.Tag, "suffix", cfg.Suffix, "tests", cfg.Tests, "write", cfg.Write)
	return cfg, nil
}

// Validate checks that the tag is a usable build tag and that the suffix
// yields a regular Go file name distinct from its source.
func (c *Config) Validate() error {
	if c.Tag == "" {
		return errors.New("tag must not be empty")
	}
	for _, r := range c.Tag {
		if !isTagRune(r) {
			return fmt.Errorf("tag %q contains invalid character %q", c.Tag, r)
		}
	}
	switch {
	case !strings.HasSuffix(c.Suffix, ".go"):
		return fmt.Errorf("suffix %q must end in .go", c.Suffix)
	case c.Suffix == ".go":
		return errors.New("suffix must not be .go alone")
	case strings.HasSuffix(c.Suffix, "_test.go"):
		return fmt.Errorf("suffix %q would produce test files", c.Suffix)
	case strings.ContainsAny(c.Suffix, `/\`):
		return fmt.Errorf("suffix %q must not contain path separators", c.Suffix)
	}
	return nil
}

// isTagRune matches the characters go/build accepts in build tags.
func isTagRune(r rune) bool {
	return r == '_' || r == '.' ||
		'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
}
