package vulkan

import (
	"encoding/binary"
	"errors"
	gomath "math"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"

	"github.com/osfabias/moss/engine/core"
	"github.com/osfabias/moss/engine/math"
	"github.com/osfabias/moss/engine/renderer/metadata"
)

// hostBatch builds a batch backed by a plain byte slice instead of
// mapped device memory, enough for exercising the accumulation paths.
func hostBatch(capacity uint32) *VulkanSpriteBatch {
	vertexRegion := capacity * 4 * VERTEX_SIZE
	indexRegion := capacity * 6 * INDEX_SIZE
	return &VulkanSpriteBatch{
		RendererID:       uuid.New(),
		Capacity:         capacity,
		vertexRegionSize: vk.DeviceSize(vertexRegion),
		indexRegionSize:  vk.DeviceSize(indexRegion),
		staging:          make([]byte, vertexRegion+indexRegion),
	}
}

func stagingFloat(sb *VulkanSpriteBatch, byteOffset uint32) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(sb.staging[byteOffset:]))
}

func testSprite(x, y, w, h, depth float32) metadata.Sprite {
	return metadata.Sprite{
		Position: math.Vec2{X: x, Y: y},
		Size:     math.Vec2{X: w, Y: h},
		Depth:    depth,
		UV:       metadata.FullTexture,
	}
}

func TestBeginResetsCounts(t *testing.T) {
	sb := hostBatch(8)
	if err := sb.Begin(); err != nil {
		t.Fatalf("Begin: %s", err)
	}
	if err := sb.Add(testSprite(0, 0, 2, 2, 0)); err != nil {
		t.Fatalf("Add: %s", err)
	}

	// Re-opening discards the previous geometry.
	sb.begun = false
	if err := sb.Begin(); err != nil {
		t.Fatalf("Begin after reset: %s", err)
	}
	if sb.VertexCount != 0 || sb.IndexCount != 0 {
		t.Errorf("counts after Begin = %d/%d, want 0/0", sb.VertexCount, sb.IndexCount)
	}
}

func TestBeginTwiceFails(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.Begin(); err != nil {
		t.Fatalf("Begin: %s", err)
	}
	if err := sb.Begin(); !errors.Is(err, core.ErrBatchAlreadyBegun) {
		t.Errorf("second Begin returned %v, want ErrBatchAlreadyBegun", err)
	}
}

func TestAddRequiresBegin(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.Add(testSprite(0, 0, 1, 1, 0)); !errors.Is(err, core.ErrBatchNotBegun) {
		t.Errorf("Add without Begin returned %v, want ErrBatchNotBegun", err)
	}
}

func TestAddWritesQuadGeometry(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := sb.Add(testSprite(10, 20, 4, 6, 0.5)); err != nil {
		t.Fatal(err)
	}

	if sb.VertexCount != 4 || sb.IndexCount != 6 {
		t.Fatalf("counts = %d/%d, want 4/6", sb.VertexCount, sb.IndexCount)
	}

	// Corner order: top-left, top-right, bottom-right, bottom-left.
	wantPos := [][3]float32{
		{8, 23, 0.5},
		{12, 23, 0.5},
		{12, 17, 0.5},
		{8, 17, 0.5},
	}
	wantUV := [][2]float32{
		{0, 0},
		{1, 0},
		{1, 1},
		{0, 1},
	}
	for i := range wantPos {
		base := uint32(i) * VERTEX_SIZE
		for c := 0; c < 3; c++ {
			if got := stagingFloat(sb, base+uint32(c)*4); got != wantPos[i][c] {
				t.Errorf("vertex %d position[%d] = %f, want %f", i, c, got, wantPos[i][c])
			}
		}
		for c := 0; c < 2; c++ {
			if got := stagingFloat(sb, base+12+uint32(c)*4); got != wantUV[i][c] {
				t.Errorf("vertex %d uv[%d] = %f, want %f", i, c, got, wantUV[i][c])
			}
		}
	}

	wantIndices := []uint16{0, 1, 2, 2, 3, 0}
	indexBase := uint32(sb.vertexRegionSize)
	for i, want := range wantIndices {
		got := binary.LittleEndian.Uint16(sb.staging[indexBase+uint32(i)*INDEX_SIZE:])
		if got != want {
			t.Errorf("index %d = %d, want %d", i, got, want)
		}
	}
}

func TestAddAdvancesBaseVertex(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := sb.Add(testSprite(float32(i), 0, 1, 1, 0)); err != nil {
			t.Fatal(err)
		}
	}

	// Second quad indexes vertices 4..7.
	wantIndices := []uint16{4, 5, 6, 6, 7, 4}
	indexBase := uint32(sb.vertexRegionSize) + 6*INDEX_SIZE
	for i, want := range wantIndices {
		got := binary.LittleEndian.Uint16(sb.staging[indexBase+uint32(i)*INDEX_SIZE:])
		if got != want {
			t.Errorf("index %d = %d, want %d", i, got, want)
		}
	}
}

func TestAddRejectsOverflowWithoutMutation(t *testing.T) {
	sb := hostBatch(2)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := sb.Add(testSprite(float32(i), 0, 1, 1, 0)); err != nil {
			t.Fatal(err)
		}
	}

	vBefore, iBefore := sb.VertexCount, sb.IndexCount
	if err := sb.Add(testSprite(99, 99, 1, 1, 0)); !errors.Is(err, core.ErrBatchFull) {
		t.Errorf("overflow Add returned %v, want ErrBatchFull", err)
	}
	if sb.VertexCount != vBefore || sb.IndexCount != iBefore {
		t.Errorf("overflow mutated counts: %d/%d", sb.VertexCount, sb.IndexCount)
	}
	// Batch stays usable.
	if !sb.begun {
		t.Error("overflow closed the batch")
	}
}

func TestAddManySpritesAtOnce(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := sb.Add(
		testSprite(0, 0, 1, 1, 0),
		testSprite(1, 0, 1, 1, 0),
		testSprite(2, 0, 1, 1, 0)); err != nil {
		t.Fatalf("Add: %s", err)
	}
	if sb.VertexCount != 12 || sb.IndexCount != 18 {
		t.Errorf("counts = %d/%d, want 12/18", sb.VertexCount, sb.IndexCount)
	}
}

func TestAddManyOverflowLeavesBatchUntouched(t *testing.T) {
	sb := hostBatch(2)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := sb.Add(testSprite(0, 0, 1, 1, 0)); err != nil {
		t.Fatal(err)
	}

	// Two more sprites do not fit; none of them may be written.
	if err := sb.Add(testSprite(1, 0, 1, 1, 0), testSprite(2, 0, 1, 1, 0)); !errors.Is(err, core.ErrBatchFull) {
		t.Errorf("overflowing Add returned %v, want ErrBatchFull", err)
	}
	if sb.VertexCount != 4 || sb.IndexCount != 6 {
		t.Errorf("overflow mutated counts: %d/%d", sb.VertexCount, sb.IndexCount)
	}
}

func TestEndRequiresBegin(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.End(nil); !errors.Is(err, core.ErrBatchNotBegun) {
		t.Errorf("End without Begin returned %v, want ErrBatchNotBegun", err)
	}
}

func TestEndOfEmptyBatchSkipsTransfer(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	// nil context: an empty batch must return before touching the device.
	if err := sb.End(nil); err != nil {
		t.Errorf("End of empty batch returned %v", err)
	}
	if sb.begun {
		t.Error("End left the batch open")
	}
}

func TestEndWithoutDeviceDropsGeometry(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := sb.Add(testSprite(0, 0, 1, 1, 0)); err != nil {
		t.Fatal(err)
	}

	if err := sb.End(nil); err == nil {
		t.Fatal("End without a device succeeded")
	}
	if sb.VertexCount != 0 || sb.IndexCount != 0 {
		t.Errorf("counts after failed flush = %d/%d, want 0/0", sb.VertexCount, sb.IndexCount)
	}
	// A draw after the failed flush is a no-op, not stale geometry.
	if err := sb.Draw(sb.RendererID, nil); err != nil {
		t.Errorf("Draw after failed flush returned %v", err)
	}
}

func TestDrawEmptyBatchIsNoop(t *testing.T) {
	sb := hostBatch(4)
	// nil command buffer: an empty draw must return before recording.
	if err := sb.Draw(sb.RendererID, nil); err != nil {
		t.Errorf("Draw of empty batch returned %v", err)
	}
}

func TestDrawWhileBegunFails(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := sb.Add(testSprite(0, 0, 1, 1, 0)); err != nil {
		t.Fatal(err)
	}
	if err := sb.Draw(sb.RendererID, nil); !errors.Is(err, core.ErrBatchNotEnded) {
		t.Errorf("Draw while begun returned %v, want ErrBatchNotEnded", err)
	}
}

func TestDrawRejectsForeignRenderer(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := sb.Add(testSprite(0, 0, 1, 1, 0)); err != nil {
		t.Fatal(err)
	}
	sb.begun = false

	if err := sb.Draw(uuid.New(), nil); !errors.Is(err, core.ErrBatchWrongEngine) {
		t.Errorf("Draw with foreign renderer id returned %v, want ErrBatchWrongEngine", err)
	}
}

func TestClearResetsWithoutTransfer(t *testing.T) {
	sb := hostBatch(4)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := sb.Add(testSprite(0, 0, 1, 1, 0)); err != nil {
		t.Fatal(err)
	}

	sb.Clear()
	if sb.VertexCount != 0 || sb.IndexCount != 0 {
		t.Errorf("counts after Clear = %d/%d, want 0/0", sb.VertexCount, sb.IndexCount)
	}
	if sb.begun {
		t.Error("Clear left the batch open")
	}
	// The batch stays usable afterwards.
	if err := sb.Begin(); err != nil {
		t.Errorf("Begin after Clear returned %v", err)
	}
}

func TestBeginAfterDestroyFails(t *testing.T) {
	sb := hostBatch(4)
	sb.staging = nil
	if err := sb.Begin(); err == nil {
		t.Error("Begin on a destroyed batch succeeded")
	}
}

func TestSpriteCount(t *testing.T) {
	sb := hostBatch(8)
	if err := sb.Begin(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := sb.Add(testSprite(float32(i), 0, 1, 1, 0)); err != nil {
			t.Fatal(err)
		}
	}
	if got := sb.SpriteCount(); got != 3 {
		t.Errorf("SpriteCount = %d, want 3", got)
	}
}
