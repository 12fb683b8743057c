package config

import (
	_ "embed"
)

//go:embed defaults/astrotape.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded default configuration, used as the
// last-resort fallback if the embedded YAML fails to parse.
func DefaultConfig() Config {
	return Config{
		Player: PlayerConfig{
			Claimant: "anonymous",
		},
		Database: DatabaseConfig{
			Path: "~/.astrotape/astrotape.db",
		},
		Verify: VerifyConfig{
			MaxFrames: 18000,
		},
		Serve: ServeConfig{
			Host:        "0.0.0.0",
			Port:        23234,
			HostKeyPath: "~/.astrotape/id_ed25519",
		},
		UI: UIConfig{
			Interpolate:  true,
			ShowPressure: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// GetDefaultYAML returns the embedded default configuration YAML.
func GetDefaultYAML() []byte {
	return defaultYAML
}
