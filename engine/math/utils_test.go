package math

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		f, low, high    uint32
		want            uint32
	}{
		{"below range", 1, 10, 20, 10},
		{"above range", 30, 10, 20, 20},
		{"inside range", 15, 10, 20, 15},
		{"at low bound", 10, 10, 20, 10},
		{"at high bound", 20, 10, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.f, tt.low, tt.high); got != tt.want {
				t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.f, tt.low, tt.high, got, tt.want)
			}
		})
	}
}

func TestClampFloat(t *testing.T) {
	if got := Clamp(float32(-0.5), 0, 1); got != 0 {
		t.Errorf("Clamp(-0.5, 0, 1) = %f, want 0", got)
	}
	if got := Clamp(float32(1.5), 0, 1); got != 1 {
		t.Errorf("Clamp(1.5, 0, 1) = %f, want 1", got)
	}
}
