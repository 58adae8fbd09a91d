package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Extent2D represents a width/height pair in pixels.
type Extent2D struct {
	Width, Height uint32
}
