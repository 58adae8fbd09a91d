package vulkan

import (
	"encoding/binary"
	gomath "math"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/osfabias/moss/engine/renderer/metadata"
)

/**
 * @brief Size in bytes of the camera uniform: scale.xy and offset.xy.
 */
const CAMERA_UNIFORM_SIZE = 16

/**
 * @brief Per-frame-slot uniform buffers holding the camera transform.
 *
 * Each slot owns its own host-visible buffer so a frame in flight never
 * sees a transform written for the next one. The buffers stay mapped
 * for the lifetime of the uniform.
 */
type VulkanCameraUniform struct {
	Buffers []*VulkanBuffer
	mapped  [][]byte
}

func CameraUniformCreate(context *VulkanContext, slotCount uint32) (*VulkanCameraUniform, error) {
	uniform := &VulkanCameraUniform{
		Buffers: make([]*VulkanBuffer, slotCount),
		mapped:  make([][]byte, slotCount),
	}

	for i := uint32(0); i < slotCount; i++ {
		buffer, err := BufferCreate(
			context,
			CAMERA_UNIFORM_SIZE,
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|
				vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			uniform.Destroy(context)
			return nil, err
		}
		uniform.Buffers[i] = buffer

		ptr, err := buffer.LockMemory(context, 0, CAMERA_UNIFORM_SIZE, 0)
		if err != nil {
			uniform.Destroy(context)
			return nil, err
		}
		uniform.mapped[i] = unsafe.Slice((*byte)(ptr), CAMERA_UNIFORM_SIZE)
	}

	return uniform, nil
}

// Write packs the camera transform into the given frame slot's buffer.
// The memory is host-coherent so no flush is needed.
func (u *VulkanCameraUniform) Write(slot uint32, camera *metadata.Camera) {
	dst := u.mapped[slot]
	binary.LittleEndian.PutUint32(dst[0:], gomath.Float32bits(camera.Scale.X))
	binary.LittleEndian.PutUint32(dst[4:], gomath.Float32bits(camera.Scale.Y))
	binary.LittleEndian.PutUint32(dst[8:], gomath.Float32bits(camera.Offset.X))
	binary.LittleEndian.PutUint32(dst[12:], gomath.Float32bits(camera.Offset.Y))
}

func (u *VulkanCameraUniform) Destroy(context *VulkanContext) {
	for i, buffer := range u.Buffers {
		if buffer != nil {
			buffer.Destroy(context)
			u.Buffers[i] = nil
		}
	}
	u.mapped = nil
}
