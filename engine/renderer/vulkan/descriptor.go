package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/osfabias/moss/engine/core"
)

/**
 * @brief Descriptor state for the sprite pipeline: one set per frame
 * slot, each holding the camera uniform at binding 0 and the sprite
 * texture sampler at binding 1.
 */
type VulkanDescriptor struct {
	Pool      vk.DescriptorPool
	SetLayout vk.DescriptorSetLayout
	Sets      []vk.DescriptorSet
}

func DescriptorCreate(context *VulkanContext) (*VulkanDescriptor, error) {
	descriptor := &VulkanDescriptor{}
	frameCount := uint32(VULKAN_MAX_FRAMES_IN_FLIGHT)

	bindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		},
		{
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
	}

	layoutCreateInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}

	var pLayout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutCreateInfo, context.Allocator, &pLayout); res != vk.Success {
		err := fmt.Errorf("failed to create descriptor set layout: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}
	descriptor.SetLayout = pLayout

	poolSizes := []vk.DescriptorPoolSize{
		{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: frameCount,
		},
		{
			Type:            vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: frameCount,
		},
	}

	poolCreateInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
		MaxSets:       frameCount,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
	}

	var pPool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolCreateInfo, context.Allocator, &pPool); res != vk.Success {
		err := fmt.Errorf("failed to create descriptor pool: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}
	descriptor.Pool = pPool

	layouts := make([]vk.DescriptorSetLayout, frameCount)
	for i := range layouts {
		layouts[i] = descriptor.SetLayout
	}

	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     descriptor.Pool,
		DescriptorSetCount: frameCount,
		PSetLayouts:        layouts,
	}

	descriptor.Sets = make([]vk.DescriptorSet, frameCount)
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocateInfo, &descriptor.Sets[0]); res != vk.Success {
		err := fmt.Errorf("failed to allocate descriptor sets: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}

	return descriptor, nil
}

// UpdateUniform points the camera binding of one frame slot at the
// given uniform buffer.
func (d *VulkanDescriptor) UpdateUniform(context *VulkanContext, slot uint32, buffer *VulkanBuffer, size vk.DeviceSize) {
	bufferInfo := vk.DescriptorBufferInfo{
		Buffer: buffer.Handle,
		Offset: 0,
		Range:  size,
	}

	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          d.Sets[slot],
		DstBinding:      0,
		DstArrayElement: 0,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		PBufferInfo:     []vk.DescriptorBufferInfo{bufferInfo},
	}

	vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
}

// UpdateSampler points the texture binding of every frame slot at the
// given image view and sampler.
func (d *VulkanDescriptor) UpdateSampler(context *VulkanContext, view vk.ImageView, sampler vk.Sampler) {
	imageInfo := vk.DescriptorImageInfo{
		Sampler:     sampler,
		ImageView:   view,
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
	}

	writes := make([]vk.WriteDescriptorSet, len(d.Sets))
	for i := range d.Sets {
		writes[i] = vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          d.Sets[i],
			DstBinding:      1,
			DstArrayElement: 0,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			PImageInfo:      []vk.DescriptorImageInfo{imageInfo},
		}
	}

	vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
}

// Bind binds the set belonging to the given frame slot.
func (d *VulkanDescriptor) Bind(commandBuffer *VulkanCommandBuffer, layout vk.PipelineLayout, slot uint32) {
	vk.CmdBindDescriptorSets(
		commandBuffer.Handle,
		vk.PipelineBindPointGraphics,
		layout,
		0,
		1,
		[]vk.DescriptorSet{d.Sets[slot]},
		0,
		nil)
}

func (d *VulkanDescriptor) Destroy(context *VulkanContext) {
	if d.Pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, d.Pool, context.Allocator)
		d.Pool = vk.NullDescriptorPool
	}
	if d.SetLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, d.SetLayout, context.Allocator)
		d.SetLayout = vk.NullDescriptorSetLayout
	}
	d.Sets = nil
}
