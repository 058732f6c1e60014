package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"github.com/stops2control/aeolus/control"
	"github.com/stops2control/aeolus/logging"
)

type (
	Preferences struct {
		// Definition is the name of the directive file in an instrument
		// directory.
		Definition string             `yaml:"definition" toml:"definition"`
		Control    ControlPreferences `yaml:"control" toml:"control"`
		Log        LogPreferences     `yaml:"log" toml:"log"`
		Output     OutputPreferences  `yaml:"output" toml:"output"`
	}

	// ControlPreferences describe where Aeolus listens for control messages.
	// Channel is 1-based, as in the Aeolus user interface.
	ControlPreferences struct {
		Channel int `yaml:"channel" toml:"channel"`
		Param   int `yaml:"param" toml:"param"`
	}

	LogPreferences struct {
		Level     string `yaml:"level" toml:"level"`
		NoColor   bool   `yaml:"nocolor" toml:"nocolor"`
		Timestamp bool   `yaml:"timestamp" toml:"timestamp"`
	}

	OutputPreferences struct {
		Format  string `yaml:"format" toml:"format"`
		Control bool   `yaml:"control" toml:"control"`
	}
)

const (
	FormatYAML     = "yaml"
	FormatJSON     = "json"
	FormatTemplate = "template"
)

//go:embed preferences.yml
var defaultPreferencesYaml []byte

// Default returns the built-in preferences.
func Default() Preferences {
	var p Preferences
	if err := yaml.UnmarshalStrict(defaultPreferencesYaml, &p); err != nil {
		panic(fmt.Errorf("failed to unmarshal default preferences: %w", err))
	}
	return p
}

// UserFile returns the path of the per-user preferences file.
func UserFile() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "stops2control", "preferences.yml"), nil
}

// Make returns the default preferences overridden by the per-user preferences
// file, if there is one, and then by the file at path, if path is not empty.
func Make(path string) (Preferences, error) {
	p := Default()
	if user, err := UserFile(); err == nil {
		if err := p.ReadFile(user); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Preferences{}, err
		}
	}
	if path != "" {
		if err := p.ReadFile(path); err != nil {
			return Preferences{}, err
		}
	}
	if err := p.Validate(); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

// ReadFile overrides p with the keys set in the file at path. Files ending in
// .toml are read as TOML, everything else as YAML. Unknown keys are errors.
func (p *Preferences) ReadFile(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		meta, err := toml.DecodeFile(path, p)
		if err != nil {
			return fmt.Errorf("config parse failed (%s): %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("config parse failed (%s): unknown key %v", path, undecoded[0])
		}
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, p); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func (p Preferences) Validate() error {
	if strings.TrimSpace(p.Definition) == "" {
		return fmt.Errorf("config missing definition file name")
	}
	if p.Control.Channel < 1 || p.Control.Channel > 16 {
		return fmt.Errorf("control channel %d not in 1..16", p.Control.Channel)
	}
	if p.Control.Param < 0 || p.Control.Param > 127 {
		return fmt.Errorf("control param %d not in 0..127", p.Control.Param)
	}
	if _, ok := logging.ParseLevel(p.Log.Level); !ok {
		return fmt.Errorf("unknown log level %q", p.Log.Level)
	}
	switch p.Output.Format {
	case FormatYAML, FormatJSON, FormatTemplate:
	default:
		return fmt.Errorf("unknown output format %q", p.Output.Format)
	}
	return nil
}

// Encoder returns the control message encoder for the configured channel.
func (p Preferences) Encoder() control.Encoder {
	return control.Encoder{Channel: uint8(p.Control.Channel - 1), Param: uint8(p.Control.Param)}
}

func (p Preferences) Logging() logging.Config {
	return logging.Config{Level: p.Log.Level, NoColor: p.Log.NoColor, Timestamp: p.Log.Timestamp}
}
