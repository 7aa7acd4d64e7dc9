package models

import (
	"testing"
)

// TestScalarRange verifies min/max computation over the volume data
func TestScalarRange(t *testing.T) {
	v := NewVolume(2, 2, 2)
	v.Set(0, 0, 0, -5.0)
	v.Set(1, 1, 1, 42.5)

	min, max := v.ScalarRange()
	if min != -5.0 {
		t.Errorf("Expected min -5.0, got %f", min)
	}
	if max != 42.5 {
		t.Errorf("Expected max 42.5, got %f", max)
	}
}

// TestAtOutOfBounds verifies that out-of-range voxel reads return zero
func TestAtOutOfBounds(t *testing.T) {
	v := NewVolume(2, 2, 2)
	v.Set(0, 0, 0, 7.0)

	cases := [][3]int{
		{-1, 0, 0},
		{0, -1, 0},
		{0, 0, -1},
		{2, 0, 0},
		{0, 2, 0},
		{0, 0, 2},
	}
	for _, c := range cases {
		if got := v.At(c[0], c[1], c[2]); got != 0 {
			t.Errorf("Expected 0 at (%d,%d,%d), got %f", c[0], c[1], c[2], got)
		}
	}

	if got := v.At(0, 0, 0); got != 7.0 {
		t.Errorf("Expected 7.0 at origin, got %f", got)
	}
}

// TestNewIntensityRange verifies the inclusive integer sequence construction
func TestNewIntensityRange(t *testing.T) {
	r := NewIntensityRange(0, 255)

	if len(r) != 256 {
		t.Fatalf("Expected 256 values for [0,255], got %d", len(r))
	}
	if r.Min() != 0 || r.Max() != 255 {
		t.Errorf("Expected range [0,255], got [%d,%d]", r.Min(), r.Max())
	}
	if r.Mid() != 127 {
		t.Errorf("Expected mid value 127, got %d", r.Mid())
	}

	// Sequence must be contiguous and ascending
	for i := 1; i < len(r); i++ {
		if r[i] != r[i-1]+1 {
			t.Fatalf("Range not contiguous at index %d: %d then %d", i, r[i-1], r[i])
		}
	}
}

// TestIntensityRangeMid verifies the default iso value: the lower middle
// element for even-length ranges, the exact middle for odd-length ones
func TestIntensityRangeMid(t *testing.T) {
	if got := NewIntensityRange(0, 255).Mid(); got != 127 {
		t.Errorf("Expected mid 127 for [0,255], got %d", got)
	}
	if got := NewIntensityRange(0, 10).Mid(); got != 5 {
		t.Errorf("Expected mid 5 for [0,10], got %d", got)
	}
	if got := NewIntensityRange(100, 100).Mid(); got != 100 {
		t.Errorf("Expected mid 100 for a single-element range, got %d", got)
	}
}

// TestIntensityRangeFractionalBounds verifies floor/ceil handling of
// non-integer scalar ranges
func TestIntensityRangeFractionalBounds(t *testing.T) {
	r := NewIntensityRange(0.3, 9.7)

	if r.Min() != 0 {
		t.Errorf("Expected floor(0.3)=0, got %d", r.Min())
	}
	if r.Max() != 10 {
		t.Errorf("Expected ceil(9.7)=10, got %d", r.Max())
	}
}

// TestIntensityRangeDegenerate verifies detection of zero-width ranges
func TestIntensityRangeDegenerate(t *testing.T) {
	r := NewIntensityRange(5, 5)
	if !r.Degenerate() {
		t.Errorf("Expected single-element range to be degenerate, got %d elements", len(r))
	}

	r = NewIntensityRange(0, 1)
	if r.Degenerate() {
		t.Error("Two-element range should not be degenerate")
	}
}

// TestRenderModeString verifies the mode names used in log output
func TestRenderModeString(t *testing.T) {
	if SurfaceMode.String() != "Surface" {
		t.Errorf("Expected Surface, got %s", SurfaceMode.String())
	}
	if RayCastMode.String() != "RayCast" {
		t.Errorf("Expected RayCast, got %s", RayCastMode.String())
	}
}
