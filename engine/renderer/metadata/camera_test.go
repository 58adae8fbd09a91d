package metadata

import (
	"testing"

	"github.com/osfabias/moss/engine/math"
)

func almostEqual(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-5
}

func TestNewCameraScale(t *testing.T) {
	c := NewCamera(960, 540)

	if !almostEqual(c.Scale.X, 2.0/960.0) {
		t.Errorf("Scale.X = %f, want %f", c.Scale.X, 2.0/960.0)
	}
	if !almostEqual(c.Scale.Y, -2.0/540.0) {
		t.Errorf("Scale.Y = %f, want %f", c.Scale.Y, -2.0/540.0)
	}
	if c.Offset.X != 0 || c.Offset.Y != 0 {
		t.Errorf("fresh camera offset = %+v, want origin", c.Offset)
	}
}

func TestSetPosition(t *testing.T) {
	c := NewCamera(960, 540)
	c.SetPosition(math.Vec2{X: 100, Y: -50})

	// A vertex at the camera position must land at NDC origin.
	ndcX := 100*c.Scale.X + c.Offset.X
	ndcY := -50*c.Scale.Y + c.Offset.Y
	if !almostEqual(ndcX, 0) || !almostEqual(ndcY, 0) {
		t.Errorf("camera center maps to (%f, %f), want origin", ndcX, ndcY)
	}

	got := c.Position()
	if !almostEqual(got.X, 100) || !almostEqual(got.Y, -50) {
		t.Errorf("Position() = %+v, want (100, -50)", got)
	}
}

func TestSetSizeKeepsPosition(t *testing.T) {
	c := NewCamera(960, 540)
	c.SetPosition(math.Vec2{X: 30, Y: 40})
	c.SetSize(1920, 1080)

	got := c.Position()
	if !almostEqual(got.X, 30) || !almostEqual(got.Y, 40) {
		t.Errorf("Position() after resize = %+v, want (30, 40)", got)
	}
	if !almostEqual(c.Scale.X, 2.0/1920.0) || !almostEqual(c.Scale.Y, -2.0/1080.0) {
		t.Errorf("Scale after resize = %+v", c.Scale)
	}
}

func TestWorldEdgesMapToClipEdges(t *testing.T) {
	c := NewCamera(200, 100)

	// Right edge of the view is +100 world units from center.
	if got := 100 * c.Scale.X; !almostEqual(got, 1) {
		t.Errorf("right edge maps to %f, want 1", got)
	}
	// Top edge (+50 world units) maps to NDC -1, Y is flipped.
	if got := 50 * c.Scale.Y; !almostEqual(got, -1) {
		t.Errorf("top edge maps to %f, want -1", got)
	}
}
