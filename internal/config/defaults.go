package config

import (
	_ "embed"
)

//go:embed defaults/gridplay.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration, used when no YAML can
// be loaded at all.
func DefaultConfig() Config {
	return Config{
		Play: PlayConfig{
			TickDelayMs: 0,
			ShowMasks:   false,
			Occlusion:   "occluding",
		},
		Colors: map[string]string{
			"#": "#8fa5c9",
			"P": "#f5d76e",
		},
		Storage: StorageConfig{
			DBPath: "~/.gridplay/episodes.db",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
