package text

import (
	"github.com/osfabias/moss/engine/math"
	"github.com/osfabias/moss/engine/renderer/metadata"
)

/**
 * @brief A bitmap font prepared for layout.
 *
 * Wraps parsed font data with lookup tables so laying out a string is
 * a plain walk over its runes.
 */
type BitmapFont struct {
	data     *metadata.FontData
	glyphs   map[rune]*metadata.FontGlyph
	kernings map[[2]rune]int16
}

func NewBitmapFont(data *metadata.FontData) *BitmapFont {
	font := &BitmapFont{
		data:     data,
		glyphs:   make(map[rune]*metadata.FontGlyph, len(data.Glyphs)),
		kernings: make(map[[2]rune]int16, len(data.Kernings)),
	}
	for _, g := range data.Glyphs {
		font.glyphs[g.Codepoint] = g
	}
	for _, k := range data.Kernings {
		font.kernings[[2]rune{k.Codepoint0, k.Codepoint1}] = k.Amount
	}
	return font
}

// LineHeight returns the vertical distance between baselines.
func (f *BitmapFont) LineHeight() float32 {
	return float32(f.data.LineHeight)
}

// Measure returns the width of a single line of text. Newlines are not
// taken into account.
func (f *BitmapFont) Measure(content string) float32 {
	var width float32
	var prev rune
	for i, r := range content {
		glyph, ok := f.glyphs[r]
		if !ok {
			continue
		}
		if i > 0 {
			width += float32(f.kernings[[2]rune{prev, r}])
		}
		width += float32(glyph.XAdvance)
		prev = r
	}
	return width
}

// Layout converts a string into one sprite per visible glyph. The
// origin is the pen position of the first line's baseline's left edge;
// text flows right and wraps downward on newlines. Glyph sprites sample
// the font's atlas texture.
func (f *BitmapFont) Layout(content string, origin math.Vec2, depth float32) []metadata.Sprite {
	sprites := make([]metadata.Sprite, 0, len(content))

	atlasW := float32(f.data.AtlasSizeX)
	atlasH := float32(f.data.AtlasSizeY)

	penX := origin.X
	lineTop := origin.Y + float32(f.data.Baseline)
	var prev rune
	first := true

	for _, r := range content {
		if r == '\n' {
			penX = origin.X
			lineTop -= float32(f.data.LineHeight)
			first = true
			continue
		}

		glyph, ok := f.glyphs[r]
		if !ok {
			continue
		}

		if !first {
			penX += float32(f.kernings[[2]rune{prev, r}])
		}

		w := float32(glyph.Width)
		h := float32(glyph.Height)
		if w > 0 && h > 0 {
			// Glyph offsets are measured downward from the line top.
			left := penX + float32(glyph.XOffset)
			top := lineTop - float32(glyph.YOffset)

			sprites = append(sprites, metadata.Sprite{
				Position: math.Vec2{X: left + w*0.5, Y: top - h*0.5},
				Size:     math.Vec2{X: w, Y: h},
				Depth:    depth,
				UV: metadata.UVRect{
					TopLeft:     math.Vec2{X: float32(glyph.X) / atlasW, Y: float32(glyph.Y) / atlasH},
					BottomRight: math.Vec2{X: (float32(glyph.X) + w) / atlasW, Y: (float32(glyph.Y) + h) / atlasH},
				},
			})
		}

		penX += float32(glyph.XAdvance)
		prev = r
		first = false
	}

	return sprites
}
