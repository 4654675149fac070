// Package config loads the xhell YAML configuration.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/xhell/xhell/internal/cap"
	"github.com/xhell/xhell/internal/rules"
)

//go:embed default.yaml
var defaultData []byte

// EnvPath names the environment variable that overrides the config location.
const EnvPath = "XHELL_CONFIG"

// Config holds the global xhell configuration.
type Config struct {
	History HistoryConfig                      `yaml:"history"`
	Journal JournalConfig                      `yaml:"journal"`
	Prompt  PromptConfig                       `yaml:"prompt"`
	Tiers   TierConfig                         `yaml:"tiers"`
	Rules   map[string]rules.BuiltinRuleConfig `yaml:"rules"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
	Max  int    `yaml:"max" validate:"gte=1,lte=100000"`
}

type JournalConfig struct {
	Path string `yaml:"path"`
}

// PromptConfig controls the interactive prompt.
type PromptConfig struct {
	// Color is auto (colour when stdout is a terminal), always or never.
	Color string `yaml:"color" validate:"oneof=auto always never"`
}

// TierConfig controls which safety tiers are enabled.
type TierConfig struct {
	Read      bool `yaml:"read"`
	Write     bool `yaml:"write"`
	Dangerous bool `yaml:"dangerous"`
}

// DefaultConfig returns the built-in configuration with paths expanded.
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := decode(defaultData, cfg); err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	cfg.expand()
	return cfg
}

// Path returns $XHELL_CONFIG, or ~/.config/xhell/config.yaml.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "xhell", "config.yaml")
}

// Load reads the config from Path. A missing file yields the defaults.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config from the given path. Settings absent from the
// file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := decode(defaultData, cfg); err != nil {
		return nil, err
	}
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.expand()
	return cfg, nil
}

// decode rejects unknown keys so typos do not silently fall back to defaults.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
	return validate.Struct(c)
}

func (c *Config) expand() {
	c.History.Path = expandHome(c.History.Path)
	c.Journal.Path = expandHome(c.Journal.Path)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// UseColor resolves the prompt colour setting for a stdout that is or is
// not a terminal.
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Prompt.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminal
	}
}

// ApplyTiers sets the registry tier permissions from the config.
func (c *Config) ApplyTiers(reg *cap.Registry) {
	reg.SetTier(cap.TierRead, c.Tiers.Read)
	reg.SetTier(cap.TierWrite, c.Tiers.Write)
	reg.SetTier(cap.TierDangerous, c.Tiers.Dangerous)
}

// ApplyRules installs the hardcoded rules plus the configured ones.
func (c *Config) ApplyRules(reg *cap.Registry) {
	reg.SetRules(rules.FromConfig(c.Rules))
}

// WriteDefault writes the commented default configuration to path. It fails
// if the file already exists.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(defaultData); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
