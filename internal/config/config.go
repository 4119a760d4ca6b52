// Package config loads the optional user configuration from the standard
// config directories. Every field has a sane default; a missing file is not
// an error.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	defaultWindowWidth  = 1024
	defaultWindowHeight = 768
	defaultZoomStep     = 0.05
	defaultScrollStep   = 30
)

type Config struct {
	WindowWidth  int     `mapstructure:"window_width"`
	WindowHeight int     `mapstructure:"window_height"`
	ZoomStep     float64 `mapstructure:"zoom_step"`
	ScrollStep   int     `mapstructure:"scroll_step"`
	ExportDir    string  `mapstructure:"export_dir"`
}

func defaultConfig() *Config {
	return &Config{
		WindowWidth:  defaultWindowWidth,
		WindowHeight: defaultWindowHeight,
		ZoomStep:     defaultZoomStep,
		ScrollStep:   defaultScrollStep,
	}
}

// Load reads config.yaml from $XDG_CONFIG_HOME/varimat or ~/.config/varimat.
// Absent or unreadable files yield the defaults.
func Load() (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "varimat"))
	v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "varimat"))
	v.SetConfigType("yaml")

	v.SetDefault("window_width", defaultWindowWidth)
	v.SetDefault("window_height", defaultWindowHeight)
	v.SetDefault("zoom_step", defaultZoomStep)
	v.SetDefault("scroll_step", defaultScrollStep)
	v.SetDefault("export_dir", "")

	if err := v.ReadInConfig(); err == nil {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	cfg.normalize()
	return cfg, nil
}

// normalize pulls malformed values back to the defaults rather than letting
// a bad config wedge the viewport math.
func (c *Config) normalize() {
	if c.WindowWidth < 320 {
		c.WindowWidth = defaultWindowWidth
	}
	if c.WindowHeight < 240 {
		c.WindowHeight = defaultWindowHeight
	}
	if c.ZoomStep <= 0 || c.ZoomStep > 1 {
		c.ZoomStep = defaultZoomStep
	}
	if c.ScrollStep < 1 {
		c.ScrollStep = defaultScrollStep
	}
}
