package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rcarmo/lockbits/internal/store"
)

// Config holds the application configuration
type Config struct {
	Canvas  CanvasConfig  `json:"canvas"`
	Codec   CodecConfig   `json:"codec"`
	Logging LoggingConfig `json:"logging"`
}

// LoadOptions holds command-line override options. Zero values leave the
// environment or default in place.
type LoadOptions struct {
	LogLevel      string
	LogFile       string
	DefaultFormat string
	JPEGQuality   int
}

// CanvasConfig controls blank canvases created by the CLI
type CanvasConfig struct {
	DefaultWidth  int    `json:"defaultWidth" env:"LOCKBITS_DEFAULT_WIDTH" default:"256"`
	DefaultHeight int    `json:"defaultHeight" env:"LOCKBITS_DEFAULT_HEIGHT" default:"256"`
	DefaultFormat string `json:"defaultFormat" env:"LOCKBITS_DEFAULT_FORMAT" default:"argb32"`
	MaxWidth      int    `json:"maxWidth" env:"LOCKBITS_MAX_WIDTH" default:"16384"`
	MaxHeight     int    `json:"maxHeight" env:"LOCKBITS_MAX_HEIGHT" default:"16384"`
}

// CodecConfig holds encoder settings
type CodecConfig struct {
	JPEGQuality     int    `json:"jpegQuality" env:"LOCKBITS_JPEG_QUALITY" default:"90"`
	PNGCompression  string `json:"pngCompression" env:"LOCKBITS_PNG_COMPRESSION" default:"default"`
	TIFFCompression string `json:"tiffCompression" env:"LOCKBITS_TIFF_COMPRESSION" default:"deflate"`
	RelockOnSave    bool   `json:"relockOnSave" env:"LOCKBITS_RELOCK_ON_SAVE" default:"true"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `json:"level" env:"LOG_LEVEL" default:"info"`
	File  string `json:"file" env:"LOG_FILE" default:""`
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	return LoadWithOverrides(LoadOptions{})
}

// LoadWithOverrides loads configuration with command-line overrides
func LoadWithOverrides(opts LoadOptions) (*Config, error) {
	config := &Config{}

	config.Canvas.DefaultWidth = getIntWithDefault("LOCKBITS_DEFAULT_WIDTH", 256)
	config.Canvas.DefaultHeight = getIntWithDefault("LOCKBITS_DEFAULT_HEIGHT", 256)
	config.Canvas.DefaultFormat = getOverrideOrEnv(opts.DefaultFormat, "LOCKBITS_DEFAULT_FORMAT", "argb32")
	config.Canvas.MaxWidth = getIntWithDefault("LOCKBITS_MAX_WIDTH", 16384)
	config.Canvas.MaxHeight = getIntWithDefault("LOCKBITS_MAX_HEIGHT", 16384)

	config.Codec.JPEGQuality = getIntWithDefault("LOCKBITS_JPEG_QUALITY", 90)
	if opts.JPEGQuality != 0 {
		config.Codec.JPEGQuality = opts.JPEGQuality
	}
	config.Codec.PNGCompression = strings.ToLower(getEnvWithDefault("LOCKBITS_PNG_COMPRESSION", "default"))
	config.Codec.TIFFCompression = strings.ToLower(getEnvWithDefault("LOCKBITS_TIFF_COMPRESSION", "deflate"))
	config.Codec.RelockOnSave = getBoolWithDefault("LOCKBITS_RELOCK_ON_SAVE", true)

	config.Logging.Level = strings.ToLower(getOverrideOrEnv(opts.LogLevel, "LOG_LEVEL", "info"))
	config.Logging.File = getOverrideOrEnv(opts.LogFile, "LOG_FILE", "")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Canvas.DefaultWidth <= 0 || c.Canvas.DefaultHeight <= 0 {
		return fmt.Errorf("default dimensions must be positive")
	}

	if c.Canvas.MaxWidth < c.Canvas.DefaultWidth || c.Canvas.MaxHeight < c.Canvas.DefaultHeight {
		return fmt.Errorf("max dimensions must be >= default dimensions")
	}

	if _, err := c.Canvas.Format(); err != nil {
		return fmt.Errorf("invalid default format: %w", err)
	}

	if c.Codec.JPEGQuality < 1 || c.Codec.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be between 1 and 100: %d", c.Codec.JPEGQuality)
	}

	validPNGLevels := map[string]bool{
		"default": true,
		"none":    true,
		"speed":   true,
		"best":    true,
	}

	if !validPNGLevels[c.Codec.PNGCompression] {
		return fmt.Errorf("invalid png compression: %s", c.Codec.PNGCompression)
	}

	if c.Codec.TIFFCompression != "none" && c.Codec.TIFFCompression != "deflate" {
		return fmt.Errorf("invalid tiff compression: %s", c.Codec.TIFFCompression)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// Format resolves DefaultFormat to a pixel format a buffer can lock. Names
// and aliases accepted by store.ParseFormat are allowed.
func (c CanvasConfig) Format() (store.PixelFormat, error) {
	format, err := store.ParseFormat(c.DefaultFormat)
	if err != nil {
		return store.FormatUndefined, err
	}
	switch format.Bits() {
	case 8, 24, 32:
		return format, nil
	}
	return store.FormatUndefined, fmt.Errorf("%s has %d bpp, want 8, 24 or 32", format, format.Bits())
}

// CheckSize reports whether a canvas of width x height is within limits.
func (c *Config) CheckSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("canvas size must be positive: %dx%d", width, height)
	}
	if width > c.Canvas.MaxWidth || height > c.Canvas.MaxHeight {
		return fmt.Errorf("canvas %dx%d exceeds limit %dx%d", width, height, c.Canvas.MaxWidth, c.Canvas.MaxHeight)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getOverrideOrEnv returns command-line override value, env value, or default
func getOverrideOrEnv(override, envKey, defaultValue string) string {
	if override != "" {
		return override
	}
	return getEnvWithDefault(envKey, defaultValue)
}
