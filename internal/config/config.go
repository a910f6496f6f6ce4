package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the stc.yaml settings file.
type Config struct {
	// Modules lists directories scanned for extension module manifests.
	// Relative paths are resolved against the settings file directory.
	Modules []string `yaml:"modules,omitempty"`

	// Store is the path of the sqlite signature store.
	// Defaults to ".stc/signatures.db".
	Store string `yaml:"store,omitempty"`

	// Verbose enables progress logging on stderr.
	Verbose bool `yaml:"verbose,omitempty"`

	// ObjectType names the root type substituted for signatures that
	// cannot be decoded in lenient mode. Defaults to "Object".
	ObjectType string `yaml:"object_type,omitempty"`

	// dir is the directory of the settings file, used to resolve relative paths.
	dir string
}

// Load reads and parses a settings file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses stc.yaml content from bytes.
// The path argument is used for error messages and relative path resolution.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Default returns the settings used when no stc.yaml exists.
func Default() *Config {
	cfg := &Config{dir: "."}
	cfg.setDefaults()
	return cfg
}

func (c *Config) validate(path string) error {
	for i, m := range c.Modules {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("%s: modules[%d]: empty path", path, i)
		}
	}
	if strings.ContainsAny(c.ObjectType, " \t<>[]") {
		return fmt.Errorf("%s: object_type %q is not a plain type name", path, c.ObjectType)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Store == "" {
		c.Store = filepath.Join(".stc", "signatures.db")
	}
	if c.ObjectType == "" {
		c.ObjectType = ObjectTypeName
	}
}

// ModuleDirs returns the manifest directories resolved against the settings file.
func (c *Config) ModuleDirs() []string {
	dirs := make([]string, 0, len(c.Modules))
	for _, m := range c.Modules {
		dirs = append(dirs, c.resolve(m))
	}
	return dirs
}

// StorePath returns the signature store path resolved against the settings file.
func (c *Config) StorePath() string {
	return c.resolve(c.Store)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}
