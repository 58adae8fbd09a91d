package text

import (
	"testing"

	"github.com/osfabias/moss/engine/math"
	"github.com/osfabias/moss/engine/renderer/metadata"
)

// testFont builds a tiny two-glyph font on a 64x64 atlas. 'A' is an
// 8x10 glyph, 'V' is 8x10 as well, with a kerning pair tightening AV.
func testFont() *BitmapFont {
	return NewBitmapFont(&metadata.FontData{
		Face:       "test",
		Size:       10,
		LineHeight: 12,
		Baseline:   10,
		AtlasSizeX: 64,
		AtlasSizeY: 64,
		Glyphs: []*metadata.FontGlyph{
			{Codepoint: 'A', X: 0, Y: 0, Width: 8, Height: 10, XOffset: 1, YOffset: 0, XAdvance: 9},
			{Codepoint: 'V', X: 8, Y: 0, Width: 8, Height: 10, XOffset: 0, YOffset: 0, XAdvance: 8},
			{Codepoint: ' ', X: 16, Y: 0, Width: 0, Height: 0, XAdvance: 4},
		},
		Kernings: []*metadata.FontKerning{
			{Codepoint0: 'A', Codepoint1: 'V', Amount: -2},
		},
	})
}

func TestLayoutSingleGlyph(t *testing.T) {
	font := testFont()
	sprites := font.Layout("A", math.Vec2{X: 0, Y: 0}, 0.5)
	if len(sprites) != 1 {
		t.Fatalf("sprite count = %d, want 1", len(sprites))
	}

	s := sprites[0]
	// Left edge at XOffset, top at the line top (baseline + base).
	if s.Position.X != 5 || s.Position.Y != 5 {
		t.Errorf("position = (%f, %f), want (5, 5)", s.Position.X, s.Position.Y)
	}
	if s.Size.X != 8 || s.Size.Y != 10 {
		t.Errorf("size = (%f, %f), want (8, 10)", s.Size.X, s.Size.Y)
	}
	if s.Depth != 0.5 {
		t.Errorf("depth = %f, want 0.5", s.Depth)
	}
	if s.UV.TopLeft.X != 0 || s.UV.TopLeft.Y != 0 {
		t.Errorf("uv top-left = %v, want origin", s.UV.TopLeft)
	}
	if s.UV.BottomRight.X != 0.125 || s.UV.BottomRight.Y != 10.0/64.0 {
		t.Errorf("uv bottom-right = %v", s.UV.BottomRight)
	}
}

func TestLayoutAppliesKerning(t *testing.T) {
	font := testFont()
	sprites := font.Layout("AV", math.Vec2{X: 0, Y: 0}, 0)
	if len(sprites) != 2 {
		t.Fatalf("sprite count = %d, want 2", len(sprites))
	}

	// Pen advances by A's XAdvance (9) then the AV kerning (-2). V has
	// no XOffset, so its left edge is at 7 and its center at 11.
	if got := sprites[1].Position.X; got != 11 {
		t.Errorf("kerned glyph center x = %f, want 11", got)
	}
}

func TestLayoutSkipsInvisibleGlyphs(t *testing.T) {
	font := testFont()
	sprites := font.Layout("A A", math.Vec2{X: 0, Y: 0}, 0)
	if len(sprites) != 2 {
		t.Fatalf("sprite count = %d, want 2 (space has no quad)", len(sprites))
	}

	// The space still advances the pen: 9 + 4 + 1 offset + half width.
	if got := sprites[1].Position.X; got != 18 {
		t.Errorf("second glyph center x = %f, want 18", got)
	}
}

func TestLayoutNewlineDropsALine(t *testing.T) {
	font := testFont()
	sprites := font.Layout("A\nA", math.Vec2{X: 0, Y: 0}, 0)
	if len(sprites) != 2 {
		t.Fatalf("sprite count = %d, want 2", len(sprites))
	}
	if sprites[1].Position.X != sprites[0].Position.X {
		t.Errorf("second line x = %f, want %f", sprites[1].Position.X, sprites[0].Position.X)
	}
	if got, want := sprites[0].Position.Y-sprites[1].Position.Y, float32(12); got != want {
		t.Errorf("line spacing = %f, want %f", got, want)
	}
}

func TestMeasure(t *testing.T) {
	font := testFont()
	if got := font.Measure("AV"); got != 15 {
		t.Errorf("Measure(AV) = %f, want 15 (9 + 8 - 2 kerning)", got)
	}
	if got := font.Measure(""); got != 0 {
		t.Errorf("Measure of empty string = %f, want 0", got)
	}
}
