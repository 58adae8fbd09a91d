package metadata

import (
	"github.com/osfabias/moss/engine/math"
)

// Camera maps world coordinates to normalized device coordinates with a
// scale and an offset, applied in the vertex stage as
// position*scale+offset. The Y scale is negated so that world +Y points
// up on screen.
type Camera struct {
	Scale  math.Vec2
	Offset math.Vec2
}

// NewCamera returns a camera framing a width-by-height world-unit view
// centered on the origin.
func NewCamera(width, height float32) *Camera {
	c := &Camera{
		Scale:  math.Vec2{X: 1, Y: 1},
		Offset: math.Vec2{X: 0, Y: 0},
	}
	c.SetSize(width, height)
	return c
}

// SetSize changes the world-unit size of the view while keeping the
// camera position. The offset is rescaled through the old scale so the
// world-space position it encodes is preserved.
func (c *Camera) SetSize(width, height float32) {
	c.Offset.X /= c.Scale.X
	c.Offset.Y /= c.Scale.Y

	c.Scale.X = 2.0 / width
	c.Scale.Y = -2.0 / height

	c.Offset.X *= c.Scale.X
	c.Offset.Y *= c.Scale.Y
}

// SetPosition centers the view on the given world-space position.
func (c *Camera) SetPosition(pos math.Vec2) {
	c.Offset.X = -pos.X * c.Scale.X
	c.Offset.Y = -pos.Y * c.Scale.Y
}

// Position returns the world-space position the view is centered on.
func (c *Camera) Position() math.Vec2 {
	return math.Vec2{
		X: -c.Offset.X / c.Scale.X,
		Y: -c.Offset.Y / c.Scale.Y,
	}
}
