package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Journal JournalConfig
	Profile ProfileConfig
	Replay  ReplayConfig
	UI      UIConfig
}

// JournalConfig holds sqlite settings for session history.
type JournalConfig struct {
	Path    string
	Enabled bool
}

// ProfileConfig holds binding profile settings.
type ProfileConfig struct {
	Path  string
	Watch bool
}

// ReplayConfig holds recording settings.
type ReplayConfig struct {
	Dir    string
	Record bool
}

// UIConfig holds presentation settings.
type UIConfig struct {
	FPS          int
	LogLines     int `mapstructure:"log_lines"`
	ChartWindowS int `mapstructure:"chart_window_s"`
}

// Load reads configuration from file and env. Env var overrides use prefix JASKINPUT_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("journal.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "jaskinput", "journal.db"))
	v.SetDefault("journal.enabled", true)
	v.SetDefault("profile.path", filepath.Join(os.Getenv("HOME"), ".config", "jaskinput", "bindings.toml"))
	v.SetDefault("profile.watch", true)
	v.SetDefault("replay.dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "jaskinput", "replays"))
	v.SetDefault("replay.record", false)
	v.SetDefault("ui.fps", 30)
	v.SetDefault("ui.log_lines", 8)
	v.SetDefault("ui.chart_window_s", 60)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("JASKINPUT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "jaskinput"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JASKINPUT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("JASKINPUT_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "jaskinput", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("journal.path", cfg.Journal.Path)
	v.Set("journal.enabled", cfg.Journal.Enabled)
	v.Set("profile.path", cfg.Profile.Path)
	v.Set("profile.watch", cfg.Profile.Watch)
	v.Set("replay.dir", cfg.Replay.Dir)
	v.Set("replay.record", cfg.Replay.Record)
	v.Set("ui.fps", cfg.UI.FPS)
	v.Set("ui.log_lines", cfg.UI.LogLines)
	v.Set("ui.chart_window_s", cfg.UI.ChartWindowS)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
