package vulkan

import (
	"encoding/binary"
	gomath "math"

	vk "github.com/goki/vulkan"

	"github.com/osfabias/moss/engine/math"
)

/**
 * @brief Packed byte size of one sprite vertex: vec3 position + vec2 uv.
 */
const VERTEX_SIZE uint32 = 20

/**
 * @brief Byte size of one index. Indices are 16-bit.
 */
const INDEX_SIZE uint32 = 2

// Vertex is one corner of a sprite quad in the layout the sprite
// pipeline consumes.
type Vertex struct {
	Position math.Vec3
	UV       math.Vec2
}

// PutVertex writes v into dst as five packed little-endian float32s.
// dst must have room for VERTEX_SIZE bytes.
func PutVertex(dst []byte, v Vertex) {
	binary.LittleEndian.PutUint32(dst[0:], gomath.Float32bits(v.Position.X))
	binary.LittleEndian.PutUint32(dst[4:], gomath.Float32bits(v.Position.Y))
	binary.LittleEndian.PutUint32(dst[8:], gomath.Float32bits(v.Position.Z))
	binary.LittleEndian.PutUint32(dst[12:], gomath.Float32bits(v.UV.X))
	binary.LittleEndian.PutUint32(dst[16:], gomath.Float32bits(v.UV.Y))
}

// VertexInputAttributes describes the vertex layout for pipeline
// creation. One binding, position at location 0 and uv at location 1.
func VertexInputAttributes() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Location: 0,
			Binding:  0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   0,
		},
		{
			Location: 1,
			Binding:  0,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   12,
		},
	}
}
