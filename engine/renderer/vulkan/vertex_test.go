package vulkan

import (
	"encoding/binary"
	gomath "math"
	"testing"

	"github.com/osfabias/moss/engine/math"
)

func TestPutVertexLayout(t *testing.T) {
	v := Vertex{
		Position: math.Vec3{X: 1.5, Y: -2.25, Z: 0.5},
		UV:       math.Vec2{X: 0.25, Y: 0.75},
	}

	buf := make([]byte, VERTEX_SIZE)
	PutVertex(buf, v)

	want := []float32{1.5, -2.25, 0.5, 0.25, 0.75}
	for i, w := range want {
		got := gomath.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != w {
			t.Errorf("component %d = %f, want %f", i, got, w)
		}
	}
}

func TestVertexInputAttributesMatchStride(t *testing.T) {
	attrs := VertexInputAttributes()
	if len(attrs) != 2 {
		t.Fatalf("attribute count = %d, want 2", len(attrs))
	}
	if attrs[0].Offset != 0 || attrs[1].Offset != 12 {
		t.Errorf("offsets = %d, %d; want 0, 12", attrs[0].Offset, attrs[1].Offset)
	}
	// vec2 uv ends exactly at the stride.
	if attrs[1].Offset+8 != VERTEX_SIZE {
		t.Errorf("uv attribute overruns the %d byte stride", VERTEX_SIZE)
	}
	for i, a := range attrs {
		if a.Binding != 0 {
			t.Errorf("attribute %d binding = %d, want 0", i, a.Binding)
		}
	}
}
