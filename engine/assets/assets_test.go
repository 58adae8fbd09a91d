package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/osfabias/moss/engine/renderer/metadata"
)

func writeTestAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "shaders"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "textures"), 0o755); err != nil {
		t.Fatal(err)
	}

	// A fake SPIR-V blob, two 32-bit words.
	spirv := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}
	if err := os.WriteFile(filepath.Join(dir, "shaders", "sprite.vert.spv"), spirv, 0o644); err != nil {
		t.Fatal(err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "textures", "checker.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	return dir
}

func newTestManager(t *testing.T, dir string) *AssetManager {
	t.Helper()
	am, err := NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	if err := am.Initialize(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(am.Shutdown)
	return am
}

func TestLoadShaderCode(t *testing.T) {
	am := newTestManager(t, writeTestAssets(t))

	code, err := am.LoadShaderCode("sprite.vert")
	if err != nil {
		t.Fatalf("LoadShaderCode: %s", err)
	}
	if len(code) != 8 {
		t.Errorf("shader code length = %d, want 8", len(code))
	}
}

func TestLoadTextureDecodesRGBA(t *testing.T) {
	am := newTestManager(t, writeTestAssets(t))

	texture, err := am.LoadTexture("checker")
	if err != nil {
		t.Fatalf("LoadTexture: %s", err)
	}
	if texture.Width != 2 || texture.Height != 1 {
		t.Fatalf("texture size = %dx%d, want 2x1", texture.Width, texture.Height)
	}
	if texture.ChannelCount != 4 {
		t.Fatalf("channel count = %d, want 4", texture.ChannelCount)
	}
	if len(texture.Pixels) != 8 {
		t.Fatalf("pixel data length = %d, want 8", len(texture.Pixels))
	}
	// First texel red, second blue, both opaque.
	if texture.Pixels[0] != 255 || texture.Pixels[3] != 255 {
		t.Errorf("texel 0 = %v, want opaque red", texture.Pixels[0:4])
	}
	if texture.Pixels[6] != 255 || texture.Pixels[7] != 255 {
		t.Errorf("texel 1 = %v, want opaque blue", texture.Pixels[4:8])
	}
}

func TestLoadAssetRejectsUnindexedPath(t *testing.T) {
	am := newTestManager(t, writeTestAssets(t))

	if _, err := am.LoadAsset("missing", metadata.ResourceTypeShader, nil); err == nil {
		t.Error("loading a missing asset succeeded")
	}
}

func TestDetermineAssetType(t *testing.T) {
	cases := []struct {
		path string
		want metadata.ResourceType
	}{
		{"shaders/sprite.vert.spv", metadata.ResourceTypeShader},
		{"textures/atlas.png", metadata.ResourceTypeImage},
		{"textures/photo.jpg", metadata.ResourceTypeImage},
		{"fonts/mono.fnt", metadata.ResourceTypeBitmapFont},
		{"notes.txt", metadata.ResourceTypeNone},
	}
	for _, tc := range cases {
		if got := determineAssetType(tc.path); got != tc.want {
			t.Errorf("determineAssetType(%q) = %d, want %d", tc.path, got, tc.want)
		}
	}
}
