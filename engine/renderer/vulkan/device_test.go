package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func TestBufferSharingModeSeparateFamilies(t *testing.T) {
	mode, families := bufferSharingMode(0, 2)
	if mode != vk.SharingModeConcurrent {
		t.Errorf("mode = %d, want concurrent", mode)
	}
	if len(families) != 2 || families[0] != 0 || families[1] != 2 {
		t.Errorf("shared families = %v, want [0 2]", families)
	}
}

func TestBufferSharingModeSharedFamily(t *testing.T) {
	mode, families := bufferSharingMode(1, 1)
	if mode != vk.SharingModeExclusive {
		t.Errorf("mode = %d, want exclusive", mode)
	}
	if families != nil {
		t.Errorf("shared families = %v, want none", families)
	}
}
