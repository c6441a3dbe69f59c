// Package config loads the hostctl configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the user's config
// directory when no path is given.
const FileName = "hostctl.yaml"

// Config is the on-disk configuration.
type Config struct {
	// DotnetRoot is the .NET installation used for nethost lookups.
	DotnetRoot string `yaml:"dotnet_root,omitempty" json:"dotnet_root,omitempty" jsonschema:"description=Root of the .NET installation"`

	// NetHost is the nethost library used to find hostfxr when HostFxr is
	// empty.
	NetHost string `yaml:"nethost,omitempty" json:"nethost,omitempty" jsonschema:"description=Path to the nethost library"`

	// HostFxr is loaded before every command when set.
	HostFxr string `yaml:"hostfxr,omitempty" json:"hostfxr,omitempty" jsonschema:"description=Path to the hostfxr library"`

	// HostPolicy is loaded before every command when set.
	HostPolicy string `yaml:"hostpolicy,omitempty" json:"hostpolicy,omitempty" jsonschema:"description=Path to the hostpolicy library"`

	// Companion is the managed assembly used by file::is-assembly.
	Companion string `yaml:"companion,omitempty" json:"companion,omitempty" validate:"omitempty,endswith=.dll" jsonschema:"description=Managed companion assembly"`

	// TempDir receives temporary runtimeconfig files.
	TempDir string `yaml:"temp_dir,omitempty" json:"temp_dir,omitempty"`

	// Preload lists expressions evaluated after the libraries are loaded.
	Preload []string `yaml:"preload,omitempty" json:"preload,omitempty" validate:"dive,required,contains=::" jsonschema:"description=Expressions run at startup such as corehost::initialize(get_contract)"`

	Log  Log  `yaml:"log" json:"log"`
	REPL REPL `yaml:"repl" json:"repl"`
}

// Log configures the diagnostic log.
type Log struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Dir     string `yaml:"dir,omitempty" json:"dir,omitempty" jsonschema:"description=Log directory (default ~/.hostctl/logs)"`
	Level   string `yaml:"level,omitempty" json:"level,omitempty" validate:"omitempty,oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// REPL configures the interactive shell.
type REPL struct {
	History      string `yaml:"history,omitempty" json:"history,omitempty" jsonschema:"description=History file (default ~/.hostctl_history)"`
	HistoryLimit int    `yaml:"history_limit,omitempty" json:"history_limit,omitempty" validate:"gte=0,lte=100000"`
	Prompt       string `yaml:"prompt,omitempty" json:"prompt,omitempty" validate:"max=32"`
}

// ErrInvalid indicates a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid")

var validate = validator.New()

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		REPL: REPL{HistoryLimit: 1000, Prompt: "hostctl> "},
	}
}

// DefaultPath returns the configuration file in the user's config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hostctl", FileName), nil
}

// Load reads and validates the file at path. A missing file yields the
// defaults when optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping the values already set for keys the
// document omits, and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Schema returns the JSON Schema of the configuration file.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	schema := reflector.Reflect(&Config{})
	schema.Title = "hostctl configuration"
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("config: schema: %w", err)
	}
	return out, nil
}
