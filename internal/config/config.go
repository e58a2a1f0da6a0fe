// Package config loads the YAML or TOML configuration of the gridplay
// front ends.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/render"
)

// Config is the complete user configuration.
type Config struct {
	Play    PlayConfig        `yaml:"play" toml:"play"`
	Colors  map[string]string `yaml:"colors" toml:"colors"`
	Storage StorageConfig     `yaml:"storage" toml:"storage"`
}

// PlayConfig controls interactive play.
type PlayConfig struct {
	TickDelayMs int    `yaml:"tick_delay_ms" toml:"tick_delay_ms"`
	ShowMasks   bool   `yaml:"show_masks" toml:"show_masks"`
	Occlusion   string `yaml:"occlusion" toml:"occlusion"`
}

// StorageConfig locates the episode database.
type StorageConfig struct {
	DBPath string `yaml:"db_path" toml:"db_path"`
}

// TickDelay returns the idle tick interval, or zero when the board only
// advances on key presses.
func (c Config) TickDelay() time.Duration {
	if c.Play.TickDelayMs <= 0 {
		return 0
	}
	return time.Duration(c.Play.TickDelayMs) * time.Millisecond
}

// Occlusion parses the configured mask policy.
func (c Config) Occlusion() (render.Occlusion, error) {
	occ, err := render.ParseOcclusion(c.Play.Occlusion)
	if err != nil {
		return render.Occluding, fmt.Errorf("config: play.occlusion: %w", err)
	}
	return occ, nil
}

// ColorFor returns the configured colour for a board code.
func (c Config) ColorFor(code core.Code) (string, bool) {
	color, ok := c.Colors[code.String()]
	return color, ok
}

// Validate reports configuration values that cannot be used.
func (c Config) Validate() error {
	if _, err := c.Occlusion(); err != nil {
		return err
	}
	for key := range c.Colors {
		if len(key) != 1 {
			return fmt.Errorf("config: colors: key %q is not a single character", key)
		}
	}
	if c.Play.TickDelayMs < 0 {
		return fmt.Errorf("config: play.tick_delay_ms must not be negative")
	}
	return nil
}
