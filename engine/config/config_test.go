package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %s", err)
	}
	def := Default()
	if cfg.Name != def.Name || cfg.StartWidth != def.StartWidth {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moss.toml")
	body := `
name = "Depth Test"
start_width = 1280
start_height = 720
camera_width = 1920.0
camera_height = 1080.0
vsync = false
clear_color = [0.0, 0.0, 0.2, 1.0]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}

	if cfg.Name != "Depth Test" {
		t.Errorf("Name = %q, want %q", cfg.Name, "Depth Test")
	}
	if cfg.StartWidth != 1280 || cfg.StartHeight != 720 {
		t.Errorf("window size = %dx%d, want 1280x720", cfg.StartWidth, cfg.StartHeight)
	}
	if cfg.CameraWidth != 1920 || cfg.CameraHeight != 1080 {
		t.Errorf("camera size = %fx%f, want 1920x1080", cfg.CameraWidth, cfg.CameraHeight)
	}
	if cfg.VSync {
		t.Error("VSync = true, want false")
	}
	if cfg.ClearColor != [4]float32{0, 0, 0.2, 1} {
		t.Errorf("ClearColor = %v", cfg.ClearColor)
	}
	// Fields absent from the file keep their defaults.
	if cfg.AssetsDir != Default().AssetsDir {
		t.Errorf("AssetsDir = %q, want default %q", cfg.AssetsDir, Default().AssetsDir)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("name = [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed toml")
	}
}
