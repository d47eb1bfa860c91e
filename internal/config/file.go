package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
// Pointer fields distinguish "absent" from zero values so partial files work.
type FileConfig struct {
	Live    LiveConfig    `toml:"live"`
	Server  ServerConfig  `toml:"server"`
	Display DisplayConfig `toml:"display"`
}

// LiveConfig maps the refresh scheduler settings.
type LiveConfig struct {
	IntervalMS *int64 `toml:"interval_ms"`
	Immediate  *bool  `toml:"immediate"`
}

// ServerConfig maps the local HTTP server settings.
type ServerConfig struct {
	Enabled *bool `toml:"enabled"`
	Port    *int  `toml:"port"`
}

// DisplayConfig maps presentation settings.
type DisplayConfig struct {
	Language *string  `toml:"language"`
	Sections []string `toml:"sections"`
}

// Settings is the resolved, validated configuration used by the application.
type Settings struct {
	LiveInterval  time.Duration
	Immediate     bool
	ServerEnabled bool
	Port          string
	Language      string
	Sections      []string
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		LiveInterval:  DefaultLiveInterval,
		Immediate:     DefaultImmediate,
		ServerEnabled: DefaultServerOn,
		Port:          DefaultPort,
		Language:      DefaultLanguage,
		Sections:      slices.Clone(DefaultSections),
	}
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, errors.New(ErrConfigPathEmpty)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			slog.Info(MsgConfigMissing,
				LogKeyComponent, CompConfig,
				LogKeyPath, path,
			)
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("%s: %w", ErrConfigStat, err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("%s: %w", ErrConfigDecode, err)
	}
	return cfg, nil
}

// Resolve merges the file values over the defaults and validates the result.
func (c FileConfig) Resolve() (Settings, error) {
	s := DefaultSettings()

	if c.Live.IntervalMS != nil {
		s.LiveInterval = time.Duration(*c.Live.IntervalMS) * time.Millisecond
		if s.LiveInterval < MinLiveInterval {
			return Settings{}, fmt.Errorf("%s: %dms", ErrIntervalTooShort, *c.Live.IntervalMS)
		}
	}
	if c.Live.Immediate != nil {
		s.Immediate = *c.Live.Immediate
	}

	if c.Server.Enabled != nil {
		s.ServerEnabled = *c.Server.Enabled
	}
	if c.Server.Port != nil {
		if err := ValidatePort(strconv.Itoa(*c.Server.Port)); err != nil {
			return Settings{}, err
		}
		s.Port = strconv.Itoa(*c.Server.Port)
	}

	if c.Display.Language != nil {
		if !slices.Contains(SupportedLanguages, *c.Display.Language) {
			return Settings{}, fmt.Errorf("%s: %q", ErrLangUnsupported, *c.Display.Language)
		}
		s.Language = *c.Display.Language
	}
	if c.Display.Sections != nil {
		for _, sec := range c.Display.Sections {
			if !slices.Contains(DefaultSections, sec) {
				return Settings{}, fmt.Errorf("%s: %q", ErrSectionUnknown, sec)
			}
		}
		s.Sections = slices.Clone(c.Display.Sections)
	}

	return s, nil
}

// SectionEnabled reports whether the named display section should be rendered.
func (s Settings) SectionEnabled(name string) bool {
	return slices.Contains(s.Sections, name)
}

// ValidatePort checks that a port string is a number within 1-65535.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}
