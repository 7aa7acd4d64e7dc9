package filters

import (
	"math"
	"testing"

	"dicomviewer3d/internal/models"
)

// TestConstantFieldUnchanged verifies that smoothing a constant volume is
// the identity (the kernel is normalized)
func TestConstantFieldUnchanged(t *testing.T) {
	v := models.NewVolume(8, 8, 8)
	for i := range v.Data {
		v.Data[i] = 42.0
	}

	smoothed := NewGaussianSmoother(1.0).Apply(v)

	for i, val := range smoothed.Data {
		if math.Abs(val-42.0) > 1e-9 {
			t.Fatalf("Constant field changed at index %d: %f", i, val)
		}
	}
}

// TestImpulseSpreads verifies that a single bright voxel spreads to its
// neighbors and keeps total mass (edge effects aside, the impulse is central)
func TestImpulseSpreads(t *testing.T) {
	size := 15
	v := models.NewVolume(size, size, size)
	c := size / 2
	v.Set(c, c, c, 1.0)

	smoothed := NewGaussianSmoother(1.0).Apply(v)

	center := smoothed.At(c, c, c)
	if center <= 0 || center >= 1.0 {
		t.Errorf("Expected attenuated center value in (0,1), got %f", center)
	}

	neighbor := smoothed.At(c+1, c, c)
	if neighbor <= 0 {
		t.Error("Expected energy to spread to neighbor voxel")
	}
	if neighbor >= center {
		t.Errorf("Neighbor %f should be below center %f", neighbor, center)
	}

	// Total mass is preserved for a kernel fully inside the volume
	sum := 0.0
	for _, val := range smoothed.Data {
		sum += val
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("Expected mass ~1.0 preserved, got %f", sum)
	}
}

// TestSmoothingShrinksRange verifies that the scalar range of a noisy
// volume never widens under smoothing
func TestSmoothingShrinksRange(t *testing.T) {
	v := models.NewVolume(10, 10, 10)
	for i := range v.Data {
		// Deterministic pseudo-noise
		v.Data[i] = float64((i*7919)%256) / 255.0
	}

	origMin, origMax := v.ScalarRange()
	smoothed := NewGaussianSmoother(1.5).Apply(v)
	newMin, newMax := smoothed.ScalarRange()

	if newMin < origMin-1e-9 || newMax > origMax+1e-9 {
		t.Errorf("Smoothed range [%f,%f] exceeds original [%f,%f]",
			newMin, newMax, origMin, origMax)
	}
	if newMax-newMin >= origMax-origMin {
		t.Errorf("Expected range to shrink, got width %f vs %f",
			newMax-newMin, origMax-origMin)
	}
}

// TestZeroSigmaIsIdentity verifies the identity behavior for sigma <= 0
func TestZeroSigmaIsIdentity(t *testing.T) {
	v := models.NewVolume(4, 4, 4)
	for i := range v.Data {
		v.Data[i] = float64(i)
	}

	smoothed := NewGaussianSmoother(0).Apply(v)
	for i := range v.Data {
		if smoothed.Data[i] != v.Data[i] {
			t.Fatalf("Identity filter modified data at %d", i)
		}
	}
}

// TestApplyDoesNotModifyInput verifies the input volume stays untouched
func TestApplyDoesNotModifyInput(t *testing.T) {
	v := models.NewVolume(6, 6, 6)
	v.Set(3, 3, 3, 100.0)

	NewGaussianSmoother(1.0).Apply(v)

	if v.At(3, 3, 3) != 100.0 {
		t.Error("Apply modified its input volume")
	}
	if v.At(2, 3, 3) != 0 {
		t.Error("Apply spread values into its input volume")
	}
}
