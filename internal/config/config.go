// Package config loads and validates the daemon configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the full configuration surface. Every field has a working
// default; a config file and command-line flags only override.
type Config struct {
	// Player is the short MPRIS name of the monitored player.
	Player string `toml:"player"`
	// MixerApp is the application.name tag used to find the player's
	// output stream in the mixer. Usually the capitalized player name.
	MixerApp string `toml:"mixer_app"`
	// FillerDir enables filler mode when set to a readable directory.
	FillerDir string `toml:"filler_dir"`
	// Backend selects the filler playback backend: "beep" or "mpd".
	Backend string `toml:"backend"`

	MPDHost     string `toml:"mpd_host"`
	MPDPort     int    `toml:"mpd_port"`
	MPDPassword string `toml:"mpd_password"`

	// SettleDelayMS is the wait between starting filler playback and
	// sampling its duration.
	SettleDelayMS int `toml:"settle_delay_ms"`

	// StatusAddr enables the read-only status HTTP endpoint when set,
	// e.g. "127.0.0.1:3080".
	StatusAddr string `toml:"status_addr"`

	Debug bool `toml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Player:        "spotify",
		MixerApp:      "Spotify",
		Backend:       "beep",
		MPDHost:       "localhost",
		MPDPort:       6600,
		SettleDelayMS: 1000,
	}
}

// Load reads a TOML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Player == "" {
		return errors.New("player name must not be empty")
	}
	if c.MixerApp == "" {
		return errors.New("mixer_app must not be empty")
	}
	switch c.Backend {
	case "beep", "mpd":
	default:
		return fmt.Errorf("unknown backend %q (want beep or mpd)", c.Backend)
	}
	if c.Backend == "mpd" && c.MPDHost == "" {
		return errors.New("mpd_host must be set for the mpd backend")
	}
	if c.SettleDelayMS <= 0 {
		return errors.New("settle_delay_ms must be positive")
	}
	return nil
}

// SettleDelay returns the settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// FillerMode reports whether a filler directory is configured and
// readable. An absent or unreadable directory falls back to simple
// mute-only mode.
func (c *Config) FillerMode() bool {
	if c.FillerDir == "" {
		return false
	}
	info, err := os.Stat(c.FillerDir)
	return err == nil && info.IsDir()
}
