// Package config provides YAML-based application configuration loading.
// Only ambient concerns live here: gameplay constants are part of the replay
// contract and are deliberately not configurable.
package config

// Config is the full application configuration.
type Config struct {
	Player   PlayerConfig   `yaml:"player"`
	Database DatabaseConfig `yaml:"database"`
	Verify   VerifyConfig   `yaml:"verify"`
	Serve    ServeConfig    `yaml:"serve"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
}

// PlayerConfig identifies the local player.
type PlayerConfig struct {
	// Claimant is written into every recorded tape, up to 56 bytes.
	Claimant string `yaml:"claimant"`
}

// DatabaseConfig points at the local run and verification store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// VerifyConfig bounds tape verification.
type VerifyConfig struct {
	// MaxFrames caps accepted tape length. Zero selects the built-in
	// default of five minutes at 60 frames per second.
	MaxFrames uint32 `yaml:"max_frames"`
}

// ServeConfig configures the SSH server.
type ServeConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	HostKeyPath string `yaml:"host_key_path"`
}

// UIConfig holds terminal presentation options.
type UIConfig struct {
	// Interpolate blends entity poses between simulation frames when the
	// terminal refreshes faster than the simulation steps.
	Interpolate bool `yaml:"interpolate"`
	// ShowPressure displays the difficulty pressure gauge in the HUD.
	ShowPressure bool `yaml:"show_pressure"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}
