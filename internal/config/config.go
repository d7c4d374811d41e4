package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ironsheep/watermark-manager/internal/imaging"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// WATERMARK_IMAGES_DIR or WATERMARK_WATERMARK_OPACITY.
const EnvPrefix = "WATERMARK"

// Config holds the settings of the watermark tool.
type Config struct {
	ImagesDir string    `mapstructure:"images_dir"` // Directory holding inputs, overlays and outputs
	LogLevel  string    `mapstructure:"log_level"`  // zerolog level name
	Output    Output    `mapstructure:"output"`
	Watermark Watermark `mapstructure:"watermark"`
}

// Output holds encoder settings.
type Output struct {
	Quality int `mapstructure:"quality"` // JPEG quality, 1-100
}

// Watermark holds the appearance of text and image watermarks.
type Watermark struct {
	Opacity   float64 `mapstructure:"opacity"`    // Image watermark opacity, 0-1
	FontSize  float64 `mapstructure:"font_size"`  // Text size in points
	FontPath  string  `mapstructure:"font_path"`  // Optional TTF file; empty uses the built-in face
	TextColor string  `mapstructure:"text_color"` // Hex colour of text watermarks
}

// TextStyle builds the text style described by w.
func (w Watermark) TextStyle() (imaging.TextStyle, error) {
	return imaging.NewTextStyle(w.FontPath, w.FontSize, w.TextColor)
}

// RegisterFlags adds the command-line flags that Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML configuration file")
	fs.String("dir", "", "images directory (default ./img)")
	fs.String("log-level", "", "log level: debug, info, warn, error (default info)")
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"dir":       "images_dir",
	"log-level": "log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("images_dir", "./img")
	v.SetDefault("log_level", "info")
	v.SetDefault("output.quality", imaging.DefaultQuality)
	v.SetDefault("watermark.opacity", imaging.DefaultOpacity)
	v.SetDefault("watermark.font_size", imaging.DefaultFontSize)
	v.SetDefault("watermark.font_path", "")
	v.SetDefault("watermark.text_color", "#000000")
}

// Load resolves the configuration from, in increasing priority: built-in
// defaults, the YAML file at path (skipped when path is empty), WATERMARK_*
// environment variables, and flags in fs that were set explicitly. fs may be
// nil.
//
// The result is validated; an invalid value is returned as an error naming the
// offending key.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ImagesDir) == "" {
		errs = append(errs, errors.New("images_dir must not be empty"))
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		errs = append(errs, fmt.Errorf("output.quality must be within 1-100, got %d", c.Output.Quality))
	}
	if !(c.Watermark.Opacity >= 0 && c.Watermark.Opacity <= 1) {
		errs = append(errs, fmt.Errorf("watermark.opacity must be within 0-1, got %v", c.Watermark.Opacity))
	}
	if c.Watermark.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("watermark.font_size must be positive, got %v", c.Watermark.FontSize))
	}
	if _, err := imaging.ParseColor(c.Watermark.TextColor); err != nil {
		errs = append(errs, fmt.Errorf("watermark.text_color: %w", err))
	}

	return errors.Join(errs...)
}
