package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/osfabias/moss/engine/core"
)

// ApplicationConfig holds everything the engine needs to boot: window
// placement, camera framing and the asset directory. It is normally
// loaded from a TOML file next to the binary.
type ApplicationConfig struct {
	// The application name used in windowing.
	Name string `toml:"name"`
	// Window starting position, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting size.
	StartWidth  uint32 `toml:"start_width"`
	StartHeight uint32 `toml:"start_height"`
	// World-unit size of the camera view.
	CameraWidth  float32 `toml:"camera_width"`
	CameraHeight float32 `toml:"camera_height"`
	// Directory watched and loaded by the asset manager.
	AssetsDir string `toml:"assets_dir"`
	// Clear color, RGBA in [0,1].
	ClearColor [4]float32 `toml:"clear_color"`
	// Prefer mailbox presentation over fifo when available.
	VSync bool `toml:"vsync"`
}

// Default returns the configuration used when no config file exists.
func Default() *ApplicationConfig {
	return &ApplicationConfig{
		Name:         "Moss Application",
		StartPosX:    128,
		StartPosY:    128,
		StartWidth:   640,
		StartHeight:  360,
		CameraWidth:  960,
		CameraHeight: 540,
		AssetsDir:    "assets",
		ClearColor:   [4]float32{0.01, 0.01, 0.01, 1.0},
		VSync:        true,
	}
}

// Load reads a TOML config file, filling unset fields with defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*ApplicationConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			core.LogDebug("no config file at %s, using defaults", path)
			return cfg, nil
		}
		core.LogError("failed to read config file %s: %s", path, err)
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		core.LogError("failed to parse config file %s: %s", path, err)
		return nil, err
	}
	return cfg, nil
}
