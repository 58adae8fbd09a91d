package vulkan

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"

	"github.com/osfabias/moss/engine/core"
	"github.com/osfabias/moss/engine/math"
	"github.com/osfabias/moss/engine/renderer/metadata"
)

/**
 * @brief A streaming batch of sprite quads.
 *
 * Geometry is accumulated into a persistently mapped staging buffer
 * between Begin and End, then transferred in one shot into a combined
 * device-local buffer holding the vertex region at offset zero and the
 * index region right after it. The device buffer is what draws bind.
 */
type VulkanSpriteBatch struct {
	// Identity of the renderer that created this batch. A batch can
	// only be drawn by its creator.
	RendererID uuid.UUID

	// Maximum number of sprites the batch can hold.
	Capacity uint32

	VertexCount uint32
	IndexCount  uint32

	begun bool

	// View over the staging buffer's mapped memory, kept mapped for
	// the lifetime of the batch.
	staging []byte

	vertexRegionSize vk.DeviceSize
	indexRegionSize  vk.DeviceSize

	stagingBuffer *VulkanBuffer
	deviceBuffer  *VulkanBuffer
}

func NewSpriteBatch(context *VulkanContext, rendererID uuid.UUID, capacity uint32) (*VulkanSpriteBatch, error) {
	if capacity == 0 {
		err := fmt.Errorf("sprite batch capacity must be greater than zero")
		core.LogError(err.Error())
		return nil, err
	}
	if capacity > VULKAN_MAX_SPRITE_BATCH_CAPACITY {
		err := fmt.Errorf("sprite batch capacity %d exceeds the 16-bit index ceiling of %d", capacity, VULKAN_MAX_SPRITE_BATCH_CAPACITY)
		core.LogError(err.Error())
		return nil, err
	}

	batch := &VulkanSpriteBatch{
		RendererID:       rendererID,
		Capacity:         capacity,
		vertexRegionSize: vk.DeviceSize(capacity * 4 * VERTEX_SIZE),
		indexRegionSize:  vk.DeviceSize(capacity * 6 * INDEX_SIZE),
	}
	totalSize := batch.vertexRegionSize + batch.indexRegionSize

	deviceBuffer, err := BufferCreate(
		context,
		totalSize,
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit)|
			vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit)|
			vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}
	batch.deviceBuffer = deviceBuffer

	stagingBuffer, err := BufferCreate(
		context,
		totalSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		batch.deviceBuffer.Destroy(context)
		return nil, err
	}
	batch.stagingBuffer = stagingBuffer

	// Map once and keep the mapping for the batch's lifetime.
	ptr, err := stagingBuffer.LockMemory(context, 0, totalSize, 0)
	if err != nil {
		batch.stagingBuffer.Destroy(context)
		batch.deviceBuffer.Destroy(context)
		return nil, err
	}
	batch.staging = unsafe.Slice((*byte)(ptr), int(totalSize))

	core.LogDebug("Sprite batch created with capacity %d.", capacity)
	return batch, nil
}

func (sb *VulkanSpriteBatch) Destroy(context *VulkanContext) {
	if sb.stagingBuffer != nil {
		sb.stagingBuffer.Destroy(context)
		sb.stagingBuffer = nil
	}
	if sb.deviceBuffer != nil {
		sb.deviceBuffer.Destroy(context)
		sb.deviceBuffer = nil
	}
	sb.staging = nil
	sb.VertexCount = 0
	sb.IndexCount = 0
	sb.begun = false
}

// SpriteCount returns the number of sprites accumulated so far.
func (sb *VulkanSpriteBatch) SpriteCount() uint32 {
	return sb.VertexCount / 4
}

// Begin opens the batch for accumulation, discarding any previously
// recorded geometry.
func (sb *VulkanSpriteBatch) Begin() error {
	if sb.begun {
		return core.ErrBatchAlreadyBegun
	}
	if sb.staging == nil {
		return fmt.Errorf("sprite batch has been destroyed")
	}
	sb.VertexCount = 0
	sb.IndexCount = 0
	sb.begun = true
	return nil
}

// Clear discards the accumulated geometry and closes the batch without
// touching the device. The buffers are kept for reuse.
func (sb *VulkanSpriteBatch) Clear() {
	sb.VertexCount = 0
	sb.IndexCount = 0
	sb.begun = false
}

// Add appends sprite quads in submission order. When the batch cannot
// hold all of them it is left untouched and the caller decides whether
// to flush or drop.
func (sb *VulkanSpriteBatch) Add(sprites ...metadata.Sprite) error {
	if !sb.begun {
		return core.ErrBatchNotBegun
	}
	if sb.SpriteCount()+uint32(len(sprites)) > sb.Capacity {
		return core.ErrBatchFull
	}
	for _, sprite := range sprites {
		sb.add(sprite)
	}
	return nil
}

func (sb *VulkanSpriteBatch) add(sprite metadata.Sprite) {
	halfW := sprite.Size.X * 0.5
	halfH := sprite.Size.Y * 0.5
	left := sprite.Position.X - halfW
	right := sprite.Position.X + halfW
	bottom := sprite.Position.Y - halfH
	top := sprite.Position.Y + halfH

	quad := [4]Vertex{
		{Position: math.Vec3{X: left, Y: top, Z: sprite.Depth}, UV: sprite.UV.TopLeft},
		{Position: math.Vec3{X: right, Y: top, Z: sprite.Depth}, UV: math.Vec2{X: sprite.UV.BottomRight.X, Y: sprite.UV.TopLeft.Y}},
		{Position: math.Vec3{X: right, Y: bottom, Z: sprite.Depth}, UV: sprite.UV.BottomRight},
		{Position: math.Vec3{X: left, Y: bottom, Z: sprite.Depth}, UV: math.Vec2{X: sprite.UV.TopLeft.X, Y: sprite.UV.BottomRight.Y}},
	}

	vertexOffset := sb.VertexCount * VERTEX_SIZE
	for i, v := range quad {
		PutVertex(sb.staging[vertexOffset+uint32(i)*VERTEX_SIZE:], v)
	}

	base := uint16(sb.VertexCount)
	indices := [6]uint16{base, base + 1, base + 2, base + 2, base + 3, base}
	indexOffset := uint32(sb.vertexRegionSize) + sb.IndexCount*INDEX_SIZE
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(sb.staging[indexOffset+uint32(i)*INDEX_SIZE:], idx)
	}

	sb.VertexCount += 4
	sb.IndexCount += 6
}

// End closes the batch and transfers the accumulated regions into the
// device-local buffer. The transfer is synchronous on the transfer
// queue; once End returns the geometry is ready to draw.
func (sb *VulkanSpriteBatch) End(context *VulkanContext) error {
	if !sb.begun {
		return core.ErrBatchNotBegun
	}
	sb.begun = false

	if sb.IndexCount == 0 {
		return nil
	}

	// On any transfer failure the device buffer still holds the previous
	// upload, so drop the cursors rather than let Draw present it at the
	// new count.
	if context == nil || context.Device == nil {
		sb.Clear()
		err := fmt.Errorf("sprite batch flushed without a device")
		core.LogError(err.Error())
		return err
	}

	commandBuffer, err := AllocateAndBeginSingleUse(context, context.Device.TransferCommandPool)
	if err != nil {
		sb.Clear()
		return err
	}

	vertexBytes := vk.DeviceSize(sb.VertexCount * VERTEX_SIZE)
	if vertexBytes > 0 {
		region := vk.BufferCopy{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      vertexBytes,
		}
		vk.CmdCopyBuffer(commandBuffer.Handle, sb.stagingBuffer.Handle, sb.deviceBuffer.Handle, 1, []vk.BufferCopy{region})
	}

	indexBytes := vk.DeviceSize(sb.IndexCount * INDEX_SIZE)
	if indexBytes > 0 {
		region := vk.BufferCopy{
			SrcOffset: sb.vertexRegionSize,
			DstOffset: sb.vertexRegionSize,
			Size:      indexBytes,
		}
		vk.CmdCopyBuffer(commandBuffer.Handle, sb.stagingBuffer.Handle, sb.deviceBuffer.Handle, 1, []vk.BufferCopy{region})
	}

	if err := commandBuffer.EndSingleUse(context, context.Device.TransferCommandPool, context.Device.TransferQueue); err != nil {
		sb.Clear()
		return err
	}
	return nil
}

// Draw binds the batch geometry and issues a single indexed draw. An
// empty batch draws nothing and succeeds.
func (sb *VulkanSpriteBatch) Draw(rendererID uuid.UUID, commandBuffer *VulkanCommandBuffer) error {
	if sb.IndexCount == 0 {
		return nil
	}
	if sb.begun {
		return core.ErrBatchNotEnded
	}
	if rendererID != sb.RendererID {
		return core.ErrBatchWrongEngine
	}

	vk.CmdBindVertexBuffers(commandBuffer.Handle, 0, 1, []vk.Buffer{sb.deviceBuffer.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(commandBuffer.Handle, sb.deviceBuffer.Handle, sb.vertexRegionSize, vk.IndexTypeUint16)
	vk.CmdDrawIndexed(commandBuffer.Handle, sb.IndexCount, 1, 0, 0, 0)

	return nil
}
