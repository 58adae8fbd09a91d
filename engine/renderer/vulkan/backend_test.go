package vulkan

import "testing"

func TestResizedBumpsSizeGeneration(t *testing.T) {
	vr := &VulkanRenderer{context: &VulkanContext{}}

	if err := vr.Resized(800, 600); err != nil {
		t.Fatalf("Resized: %s", err)
	}
	if vr.context.FramebufferSizeGeneration != 1 {
		t.Errorf("generation = %d, want 1", vr.context.FramebufferSizeGeneration)
	}
	if vr.cachedFramebufferWidth != 800 || vr.cachedFramebufferHeight != 600 {
		t.Errorf("cached size = %dx%d, want 800x600", vr.cachedFramebufferWidth, vr.cachedFramebufferHeight)
	}

	// A second resize before the swapchain catches up keeps counting.
	if err := vr.Resized(1024, 768); err != nil {
		t.Fatalf("Resized: %s", err)
	}
	if vr.context.FramebufferSizeGeneration != 2 {
		t.Errorf("generation = %d, want 2", vr.context.FramebufferSizeGeneration)
	}
	if vr.context.FramebufferSizeGeneration == vr.context.FramebufferSizeLastGeneration {
		t.Error("pending resize not detectable from generation counters")
	}
}

func TestFrameSlotCycling(t *testing.T) {
	slots := uint32(VULKAN_MAX_FRAMES_IN_FLIGHT)
	current := uint32(0)
	seen := make(map[uint32]bool)
	for i := 0; i < 8; i++ {
		seen[current] = true
		current = (current + 1) % slots
	}
	if current != 0 {
		t.Errorf("slot after 8 frames = %d, want 0", current)
	}
	if len(seen) != int(slots) {
		t.Errorf("slots visited = %d, want %d", len(seen), slots)
	}
	for slot := range seen {
		if slot >= slots {
			t.Errorf("slot %d out of range", slot)
		}
	}
}
