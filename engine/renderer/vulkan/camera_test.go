package vulkan

import (
	"encoding/binary"
	gomath "math"
	"testing"

	"github.com/osfabias/moss/engine/math"
	"github.com/osfabias/moss/engine/renderer/metadata"
)

func mappedFloat(dst []byte, offset int) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(dst[offset:]))
}

func TestCameraUniformWriteLayout(t *testing.T) {
	uniform := &VulkanCameraUniform{
		mapped: [][]byte{
			make([]byte, CAMERA_UNIFORM_SIZE),
			make([]byte, CAMERA_UNIFORM_SIZE),
		},
	}

	camera := metadata.NewCamera(960, 540)
	camera.SetPosition(math.Vec2{X: 100, Y: -50})

	uniform.Write(1, camera)

	slot := uniform.mapped[1]
	if got := mappedFloat(slot, 0); got != camera.Scale.X {
		t.Errorf("scale.x = %f, want %f", got, camera.Scale.X)
	}
	if got := mappedFloat(slot, 4); got != camera.Scale.Y {
		t.Errorf("scale.y = %f, want %f", got, camera.Scale.Y)
	}
	if got := mappedFloat(slot, 8); got != camera.Offset.X {
		t.Errorf("offset.x = %f, want %f", got, camera.Offset.X)
	}
	if got := mappedFloat(slot, 12); got != camera.Offset.Y {
		t.Errorf("offset.y = %f, want %f", got, camera.Offset.Y)
	}

	// The other slot stays untouched.
	for i, b := range uniform.mapped[0] {
		if b != 0 {
			t.Fatalf("slot 0 byte %d = %d, want 0", i, b)
		}
	}
}
