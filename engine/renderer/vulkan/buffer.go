package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/osfabias/moss/engine/core"
)

type VulkanBuffer struct {
	Handle       vk.Buffer
	Memory       vk.DeviceMemory
	TotalSize    vk.DeviceSize
	Usage        vk.BufferUsageFlags
	MemoryIndex  int32
	MemoryFlags  vk.MemoryPropertyFlags
	IsLocked     bool
	MappedMemory unsafe.Pointer
}

func BufferCreate(context *VulkanContext, size vk.DeviceSize, usage vk.BufferUsageFlags, memoryFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	buffer := &VulkanBuffer{
		TotalSize:   size,
		Usage:       usage,
		MemoryFlags: memoryFlags,
	}

	// Sharing mode comes from the device: concurrent across the graphics
	// and transfer families when they differ, exclusive otherwise.
	sharingMode := vk.SharingModeExclusive
	var sharedFamilies []uint32
	if context.Device.BufferSharingMode == vk.SharingModeConcurrent {
		sharingMode = vk.SharingModeConcurrent
		sharedFamilies = context.Device.SharedQueueFamilies
	}

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:                 vk.StructureTypeBufferCreateInfo,
		Size:                  size,
		Usage:                 usage,
		SharingMode:           sharingMode,
		QueueFamilyIndexCount: uint32(len(sharedFamilies)),
		PQueueFamilyIndices:   sharedFamilies,
	}

	var pBuffer vk.Buffer
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferCreateInfo, context.Allocator, &pBuffer); res != vk.Success {
		err := fmt.Errorf("failed to create buffer: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}
	buffer.Handle = pBuffer

	// Gather memory requirements.
	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, buffer.Handle, &requirements)
	requirements.Deref()

	buffer.MemoryIndex = context.FindMemoryIndex(requirements.MemoryTypeBits, uint32(memoryFlags))
	if buffer.MemoryIndex == -1 {
		err := fmt.Errorf("unable to create buffer, required memory type index not found")
		core.LogError(err.Error())
		return nil, err
	}

	// Allocate memory info
	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(buffer.MemoryIndex),
	}

	var pMemory vk.DeviceMemory
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &pMemory); res != vk.Success {
		err := fmt.Errorf("unable to create buffer, memory allocation failed: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}
	buffer.Memory = pMemory

	if res := vk.BindBufferMemory(context.Device.LogicalDevice, buffer.Handle, buffer.Memory, 0); res != vk.Success {
		err := fmt.Errorf("failed to bind buffer memory: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}

	return buffer, nil
}

func (vb *VulkanBuffer) Destroy(context *VulkanContext) {
	if vb.MappedMemory != nil {
		vb.UnlockMemory(context)
	}
	if vb.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device.LogicalDevice, vb.Memory, context.Allocator)
		vb.Memory = vk.NullDeviceMemory
	}
	if vb.Handle != vk.NullBuffer {
		vk.DestroyBuffer(context.Device.LogicalDevice, vb.Handle, context.Allocator)
		vb.Handle = vk.NullBuffer
	}
	vb.TotalSize = 0
	vb.IsLocked = false
}

// LockMemory maps the buffer's memory and keeps the mapping until
// UnlockMemory or Destroy. Requires host visible memory.
func (vb *VulkanBuffer) LockMemory(context *VulkanContext, offset, size vk.DeviceSize, flags vk.MemoryMapFlags) (unsafe.Pointer, error) {
	var data unsafe.Pointer
	if res := vk.MapMemory(context.Device.LogicalDevice, vb.Memory, offset, size, flags, &data); res != vk.Success {
		err := fmt.Errorf("failed to map buffer memory: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}
	vb.MappedMemory = data
	vb.IsLocked = true
	return data, nil
}

func (vb *VulkanBuffer) UnlockMemory(context *VulkanContext) {
	vk.UnmapMemory(context.Device.LogicalDevice, vb.Memory)
	vb.MappedMemory = nil
	vb.IsLocked = false
}

// LoadData maps, copies and unmaps in one shot. For frequently updated
// buffers prefer a persistent LockMemory mapping.
func (vb *VulkanBuffer) LoadData(context *VulkanContext, offset, size vk.DeviceSize, flags vk.MemoryMapFlags, data []byte) error {
	var ptr unsafe.Pointer
	if res := vk.MapMemory(context.Device.LogicalDevice, vb.Memory, offset, size, flags, &ptr); res != vk.Success {
		err := fmt.Errorf("failed to map buffer memory: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return err
	}
	vk.Memcopy(ptr, data)
	vk.UnmapMemory(context.Device.LogicalDevice, vb.Memory)
	return nil
}

// CopyTo records and submits a one-shot copy between buffers on the
// given queue and waits for it to complete.
func (vb *VulkanBuffer) CopyTo(
	context *VulkanContext,
	pool vk.CommandPool,
	queue vk.Queue,
	sourceOffset vk.DeviceSize,
	dest *VulkanBuffer,
	destOffset vk.DeviceSize,
	size vk.DeviceSize) error {

	commandBuffer, err := AllocateAndBeginSingleUse(context, pool)
	if err != nil {
		return err
	}

	copyRegion := vk.BufferCopy{
		SrcOffset: sourceOffset,
		DstOffset: destOffset,
		Size:      size,
	}
	vk.CmdCopyBuffer(commandBuffer.Handle, vb.Handle, dest.Handle, 1, []vk.BufferCopy{copyRegion})

	return commandBuffer.EndSingleUse(context, pool, queue)
}
