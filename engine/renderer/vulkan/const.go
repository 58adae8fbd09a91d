package vulkan

/**
 * @brief Number of frames that may be recorded ahead of presentation.
 */
const VULKAN_MAX_FRAMES_IN_FLIGHT uint8 = 2

/**
 * @brief Hard upper bound on swapchain images the renderer will track.
 * Sync bookkeeping is sized against this, so a driver handing out more
 * images is a hard failure rather than silent corruption.
 */
const VULKAN_MAX_SWAPCHAIN_IMAGE_COUNT uint32 = 4

/**
 * @brief Largest sprite capacity a batch can be created with.
 * Indices are 16-bit, so 4*capacity vertices must stay below 65536.
 */
const VULKAN_MAX_SPRITE_BATCH_CAPACITY uint32 = 16383
