package metadata

import (
	"github.com/osfabias/moss/engine/math"
)

// UVRect is an axis-aligned region of a texture in normalized
// coordinates, with (0,0) at the top-left of the image.
type UVRect struct {
	TopLeft     math.Vec2
	BottomRight math.Vec2
}

// FullTexture covers the whole texture.
var FullTexture = UVRect{
	TopLeft:     math.Vec2{X: 0, Y: 0},
	BottomRight: math.Vec2{X: 1, Y: 1},
}

// Sprite is one textured quad to be batched. Position is the center of
// the quad in world units; Size its full width and height. Depth is the
// normalized device depth written for all four corners, smaller values
// draw in front when depth testing is enabled.
type Sprite struct {
	Position math.Vec2
	Size     math.Vec2
	Depth    float32
	UV       UVRect
}
