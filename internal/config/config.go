// Package config handles the citerius configuration file and the layout of
// the references directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the contents of ~/.config/citerius/config.json.
type Config struct {
	ReferencesDir string `json:"references_dir" yaml:"references_dir" mapstructure:"references_dir"`
	AuthorName    string `json:"author_name" yaml:"author_name" mapstructure:"author_name"`
	AuthorEmail   string `json:"author_email" yaml:"author_email" mapstructure:"author_email"`

	Editor    string `json:"editor,omitempty" yaml:"editor,omitempty" mapstructure:"editor"`             // Overrides $EDITOR
	Finder    string `json:"finder,omitempty" yaml:"finder,omitempty" mapstructure:"finder"`             // auto, fzf, builtin
	PDFReader string `json:"pdf_reader,omitempty" yaml:"pdf_reader,omitempty" mapstructure:"pdf_reader"` // system, zathura, skim...
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty" mapstructure:"user_agent"`
}

const (
	// AppDir is the directory name under XDG_CONFIG_HOME.
	AppDir = "citerius"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
	// EnvPrefix prefixes environment overrides (CITERIUS_REFERENCES_DIR, ...).
	EnvPrefix = "CITERIUS"
	// EnvConfigPath names the environment variable that overrides the config path.
	EnvConfigPath = "CITERIUS_CONFIG"
)

// ErrConfigNotFound is returned when the config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when a required key is missing or malformed.
var ErrInvalidConfig = errors.New("invalid config")

// ValidFinders lists the supported finder values.
var ValidFinders = []string{"auto", "fzf", "builtin"}

// DefaultPath returns the config path used when --config is not given.
// Respects CITERIUS_CONFIG and XDG_CONFIG_HOME, defaults to ~/.config/citerius/config.json.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return ExpandPath(p)
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppDir, ConfigFile)
}

// Load reads the config file at path (DefaultPath when empty).
// Environment variables with the CITERIUS_ prefix override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	path = ExpandPath(path)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range []string{"references_dir", "author_name", "author_email", "editor", "finder", "pdf_reader", "user_agent"} {
		v.SetDefault(key, "")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	cfg.ReferencesDir = ExpandPath(cfg.ReferencesDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the required keys are present.
func (c *Config) Validate() error {
	var missing []string
	if c.ReferencesDir == "" {
		missing = append(missing, "references_dir")
	}
	if c.AuthorName == "" {
		missing = append(missing, "author_name")
	}
	if c.AuthorEmail == "" {
		missing = append(missing, "author_email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}
	if c.Finder != "" && !contains(ValidFinders, c.Finder) {
		return fmt.Errorf("%w: finder %q (valid: %v)", ErrInvalidConfig, c.Finder, ValidFinders)
	}
	return nil
}

// Save writes the configuration as JSON to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandPath expands a leading ~ and any $VAR references.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return os.ExpandEnv(path)
}

// HelpfulConfigMessage explains how to create a config file at path.
func HelpfulConfigMessage(path string) string {
	return fmt.Sprintf(`No citerius config found at %s.

Create one with:
  citerius config init --references-dir ~/references --author-name "Your Name" --author-email you@example.org

or write it by hand:
  {
    "references_dir": "/path/to/references",
    "author_name": "Your Name",
    "author_email": "you@example.org"
  }`, path)
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
