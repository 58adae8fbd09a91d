package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/osfabias/moss/engine/core"
	"github.com/osfabias/moss/engine/renderer/metadata"
)

/**
 * @brief GPU-side state for a sampled texture.
 */
type VulkanTexture struct {
	/** @brief The device image backing the texture. */
	Image *VulkanImage
	/** @brief The sampler used to sample the texture. */
	Sampler vk.Sampler
}

// TextureCreate uploads the texture's pixel data into a device-local
// image through a staging buffer and builds a sampler for it. Pixels
// are expected as tightly packed RGBA8.
func TextureCreate(context *VulkanContext, texture *metadata.Texture) (*VulkanTexture, error) {
	imageSize := vk.DeviceSize(texture.Width) * vk.DeviceSize(texture.Height) * vk.DeviceSize(texture.ChannelCount)
	imageFormat := vk.FormatR8g8b8a8Unorm

	staging, err := BufferCreate(
		context,
		imageSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(context)

	if err := staging.LoadData(context, 0, imageSize, 0, texture.Pixels); err != nil {
		return nil, err
	}

	image, err := ImageCreate(
		context,
		vk.ImageType2d,
		texture.Width,
		texture.Height,
		imageFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit)|vk.ImageUsageFlags(vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		return nil, err
	}

	commandBuffer, err := AllocateAndBeginSingleUse(context, context.Device.GraphicsCommandPool)
	if err != nil {
		image.ImageDestroy(context)
		return nil, err
	}

	// Transition to a layout optimal for receiving data, copy the
	// buffer in, then transition for shader reads.
	if err := image.ImageTransitionLayout(context, commandBuffer, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		image.ImageDestroy(context)
		return nil, err
	}

	image.ImageCopyFromBuffer(commandBuffer, staging.Handle)

	if err := image.ImageTransitionLayout(context, commandBuffer, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		image.ImageDestroy(context)
		return nil, err
	}

	if err := commandBuffer.EndSingleUse(context, context.Device.GraphicsCommandPool, context.Device.GraphicsQueue); err != nil {
		image.ImageDestroy(context)
		return nil, err
	}

	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.True,
		MaxAnisotropy:           16,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		MipLodBias:              0.0,
		MinLod:                  0.0,
		MaxLod:                  0.0,
	}

	var pSampler vk.Sampler
	if res := vk.CreateSampler(context.Device.LogicalDevice, &samplerInfo, context.Allocator, &pSampler); res != vk.Success {
		image.ImageDestroy(context)
		err := fmt.Errorf("error creating texture sampler: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return nil, err
	}

	vulkanTexture := &VulkanTexture{
		Image:   image,
		Sampler: pSampler,
	}
	texture.InternalData = vulkanTexture
	texture.Generation++

	return vulkanTexture, nil
}

func (vt *VulkanTexture) Destroy(context *VulkanContext) {
	vk.DeviceWaitIdle(context.Device.LogicalDevice)
	if vt.Image != nil {
		vt.Image.ImageDestroy(context)
		vt.Image = nil
	}
	if vt.Sampler != vk.NullSampler {
		vk.DestroySampler(context.Device.LogicalDevice, vt.Sampler, context.Allocator)
		vt.Sampler = vk.NullSampler
	}
}
