// Package config provides reading and writing of devise configuration.
// Supports both global (~/.devise/config.yaml) and local (.devise/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.devise/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is workspace-specific config in .devise/config.yaml
	ScopeLocal
)

// Author represents the author metadata stored in the workspace config.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Limits holds size limit configuration options.
type Limits struct {
	MaxTitle   *int `yaml:"max_title,omitempty"`
	MaxContent *int `yaml:"max_content,omitempty"`
}

// Workspace holds tab session configuration options.
type Workspace struct {
	MaxTabs         *int `yaml:"max_tabs,omitempty"`
	AutosaveSeconds *int `yaml:"autosave_seconds,omitempty"`
}

// AI holds assistant feature toggles.
type AI struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultMaxTitle        = 200
	DefaultMaxContent      = 1024 * 1024 // 1 MB
	DefaultMaxTabs         = 20
	DefaultAutosaveSeconds = 30
)

// Validation bounds for configuration values.
const (
	MinMaxTitle        = 1
	MaxMaxTitle        = 1024
	MinMaxContent      = 1
	MaxMaxContent      = 100 * 1024 * 1024 // 100 MB
	MinMaxTabs         = 1
	MaxMaxTabs         = 500
	MinAutosaveSeconds = 1
	MaxAutosaveSeconds = 3600
)

// Config contains configuration for devise.
type Config struct {
	Author    Author    `yaml:"author,omitempty"`
	Limits    Limits    `yaml:"limits,omitempty"`
	Workspace Workspace `yaml:"workspace,omitempty"`
	AI        AI        `yaml:"ai,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Limits.MaxTitle != nil {
		v := *c.Limits.MaxTitle
		if v < MinMaxTitle || v > MaxMaxTitle {
			return fmt.Errorf("%w: max_title must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxTitle, MaxMaxTitle, v)
		}
	}
	if c.Limits.MaxContent != nil {
		v := *c.Limits.MaxContent
		if v < MinMaxContent || v > MaxMaxContent {
			return fmt.Errorf("%w: max_content must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxContent, MaxMaxContent, v)
		}
	}
	if c.Workspace.MaxTabs != nil {
		v := *c.Workspace.MaxTabs
		if v < MinMaxTabs || v > MaxMaxTabs {
			return fmt.Errorf("%w: max_tabs must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxTabs, MaxMaxTabs, v)
		}
	}
	if c.Workspace.AutosaveSeconds != nil {
		v := *c.Workspace.AutosaveSeconds
		if v < MinAutosaveSeconds || v > MaxAutosaveSeconds {
			return fmt.Errorf("%w: autosave_seconds must be between %d and %d, got %d",
				ErrInvalidValue, MinAutosaveSeconds, MaxAutosaveSeconds, v)
		}
	}
	return nil
}

// MaxTitle returns the maximum title length in characters (defaults to 200).
func (c *Config) MaxTitle() int {
	if c.Limits.MaxTitle == nil {
		return DefaultMaxTitle
	}
	return *c.Limits.MaxTitle
}

// MaxContent returns the maximum page content size in bytes (defaults to 1 MB).
func (c *Config) MaxContent() int {
	if c.Limits.MaxContent == nil {
		return DefaultMaxContent
	}
	return *c.Limits.MaxContent
}

// MaxTabs returns the open tab capacity (defaults to 20).
func (c *Config) MaxTabs() int {
	if c.Workspace.MaxTabs == nil {
		return DefaultMaxTabs
	}
	return *c.Workspace.MaxTabs
}

// AutosaveSeconds returns the session autosave interval (defaults to 30).
func (c *Config) AutosaveSeconds() int {
	if c.Workspace.AutosaveSeconds == nil {
		return DefaultAutosaveSeconds
	}
	return *c.Workspace.AutosaveSeconds
}

// AIEnabled returns whether assistant features are enabled (defaults to true).
func (c *Config) AIEnabled() bool {
	if c.AI.Enabled == nil {
		return true
	}
	return *c.AI.Enabled
}

// LocalPath returns the path to the local (workspace) config file.
func LocalPath() string {
	return filepath.Join(".devise", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.devise/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".devise", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
