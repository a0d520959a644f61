// Package config handles blockytool configuration loading and management.
package config

import (
	"strings"

	"github.com/Faultbox/blockyforge/pkg/formats"
)

// Config holds all tool settings.
type Config struct {
	Codec      CodecConfig      `yaml:"codec"`
	Animation  AnimationConfig  `yaml:"animation"`
	Validation ValidationConfig `yaml:"validation"`
	Assets     AssetsConfig     `yaml:"assets"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CodecConfig holds blockymodel conversion settings.
type CodecConfig struct {
	MainShapePolicy string `yaml:"main_shape_policy"`
	Format          string `yaml:"format"` // empty = detect from the model path
	Indent          int    `yaml:"indent"` // spaces; 0 writes compact JSON
	FinalNewline    bool   `yaml:"final_newline"`
}

// AnimationConfig holds blockyanim settings.
type AnimationConfig struct {
	Discover bool `yaml:"discover"` // load ../Animations next to a model
}

// ValidationConfig selects the checks run by "check".
type ValidationConfig struct {
	NodeCount bool `yaml:"node_count"`
	UVSize    bool `yaml:"uv_size"`
}

// AssetsConfig holds extra asset directories searched for textures.
type AssetsConfig struct {
	Dirs []string `yaml:"dirs"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			MainShapePolicy: formats.DefaultPolicy.String(),
			Indent:          2,
		},
		Animation: AnimationConfig{
			Discover: true,
		},
		Validation: ValidationConfig{
			NodeCount: true,
			UVSize:    true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Policy returns the configured main shape policy.
func (c *Config) Policy() (formats.MainShapePolicy, error) {
	return formats.ParsePolicy(c.Codec.MainShapePolicy)
}

// JSONOptions returns the output layout.
func (c *Config) JSONOptions() formats.JSONOptions {
	indent := ""
	if c.Codec.Indent > 0 {
		indent = strings.Repeat(" ", c.Codec.Indent)
	}
	return formats.JSONOptions{Indent: indent, FinalNewline: c.Codec.FinalNewline}
}

// Format returns the forced model format, or "" to detect it.
func (c *Config) Format() formats.ModelFormat {
	switch formats.ModelFormat(c.Codec.Format) {
	case formats.FormatProp:
		return formats.FormatProp
	case formats.FormatCharacter:
		return formats.FormatCharacter
	}
	return ""
}
