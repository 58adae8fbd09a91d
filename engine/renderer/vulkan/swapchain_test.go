package vulkan

import (
	"math"
	"testing"

	vk "github.com/goki/vulkan"
)

func TestChooseSurfaceFormatPrefersBGRA8Srgb(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	got := chooseSurfaceFormat(formats)
	if got.Format != vk.FormatB8g8r8a8Unorm {
		t.Errorf("chooseSurfaceFormat picked %v, want FormatB8g8r8a8Unorm", got.Format)
	}
}

func TestChooseSurfaceFormatFallsBackToFirst(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatR5g6b5UnormPack16, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	got := chooseSurfaceFormat(formats)
	if got.Format != vk.FormatR8g8b8a8Unorm {
		t.Errorf("chooseSurfaceFormat picked %v, want first reported format", got.Format)
	}
}

func TestChoosePresentMode(t *testing.T) {
	withMailbox := []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}
	fifoOnly := []vk.PresentMode{vk.PresentModeFifo}

	tests := []struct {
		name  string
		modes []vk.PresentMode
		vsync bool
		want  vk.PresentMode
	}{
		{"vsync forces fifo", withMailbox, true, vk.PresentModeFifo},
		{"mailbox when unlocked", withMailbox, false, vk.PresentModeMailbox},
		{"fifo fallback", fifoOnly, false, vk.PresentModeFifo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := choosePresentMode(tt.modes, tt.vsync); got != tt.want {
				t.Errorf("choosePresentMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChooseSwapExtentUsesCurrentExtent(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent: vk.Extent2D{Width: 800, Height: 600},
	}
	got := chooseSwapExtent(caps, 1920, 1080)
	if got.Width != 800 || got.Height != 600 {
		t.Errorf("chooseSwapExtent = %dx%d, want 800x600", got.Width, got.Height)
	}
}

func TestChooseSwapExtentClampsRequestedSize(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 320, Height: 240},
		MaxImageExtent: vk.Extent2D{Width: 1280, Height: 720},
	}

	got := chooseSwapExtent(caps, 1920, 100)
	if got.Width != 1280 {
		t.Errorf("width = %d, want clamped to 1280", got.Width)
	}
	if got.Height != 240 {
		t.Errorf("height = %d, want clamped to 240", got.Height)
	}

	got = chooseSwapExtent(caps, 640, 480)
	if got.Width != 640 || got.Height != 480 {
		t.Errorf("in-range extent changed to %dx%d", got.Width, got.Height)
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		name     string
		min, max uint32
		want     uint32
	}{
		{"one above minimum", 2, 8, 3},
		{"bounded by surface max", 3, 3, 3},
		{"unbounded surface", 2, 0, 3},
		{"bounded by hard cap", 8, 16, VULKAN_MAX_SWAPCHAIN_IMAGE_COUNT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := vk.SurfaceCapabilities{MinImageCount: tt.min, MaxImageCount: tt.max}
			if got := chooseImageCount(caps); got != tt.want {
				t.Errorf("chooseImageCount(min=%d, max=%d) = %d, want %d", tt.min, tt.max, got, tt.want)
			}
		})
	}
}
