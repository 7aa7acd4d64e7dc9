package interpolation

import (
	"math"
	"testing"

	"dicomviewer3d/internal/models"
)

// anisotropicVolume builds a two-slice volume with the given slice spacing
func anisotropicVolume(thickness float64) *models.Volume {
	v := models.NewVolume(2, 2, 2)
	v.VoxelSize.Z = thickness
	// Bottom slice 0, top slice 30
	for i := 0; i < 4; i++ {
		v.Data[4+i] = 30
	}
	return v
}

// TestMakeIsotropicInsertsSlices verifies the resampled depth matches the
// physical extent at the in-plane spacing
func TestMakeIsotropicInsertsSlices(t *testing.T) {
	v := anisotropicVolume(3.0)

	out := MakeIsotropic(v)
	if out == v {
		t.Fatal("Expected a resampled copy")
	}

	// One gap of 3mm at 1mm spacing becomes 3 gaps, 4 slices
	if out.Depth != 4 {
		t.Errorf("Expected depth 4, got %d", out.Depth)
	}
	if math.Abs(out.VoxelSize.Z-1.0) > 1e-9 {
		t.Errorf("Expected slice spacing 1.0, got %f", out.VoxelSize.Z)
	}

	// Linear ramp between the two original slices
	expected := []float64{0, 10, 20, 30}
	for z, want := range expected {
		got := out.At(0, 0, z)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Expected %f at slice %d, got %f", want, z, got)
		}
	}
}

// TestMakeIsotropicPreservesExtent verifies the physical bounds are unchanged
func TestMakeIsotropicPreservesExtent(t *testing.T) {
	v := anisotropicVolume(2.5)
	_, _, _, _, zMinBefore, zMaxBefore := v.Bounds()

	out := MakeIsotropic(v)
	_, _, _, _, zMinAfter, zMaxAfter := out.Bounds()

	if math.Abs(zMinAfter-zMinBefore) > 1e-9 || math.Abs(zMaxAfter-zMaxBefore) > 1e-9 {
		t.Errorf("Extent changed: [%f,%f] vs [%f,%f]",
			zMinBefore, zMaxBefore, zMinAfter, zMaxAfter)
	}
}

// TestMakeIsotropicNoOpCases verifies volumes that need no resampling are
// returned as-is
func TestMakeIsotropicNoOpCases(t *testing.T) {
	iso := models.NewVolume(2, 2, 2)
	if MakeIsotropic(iso) != iso {
		t.Error("Expected an isotropic volume unchanged")
	}

	fine := models.NewVolume(2, 2, 2)
	fine.VoxelSize.Z = 0.5
	if MakeIsotropic(fine) != fine {
		t.Error("Expected a z-finer volume unchanged")
	}

	single := models.NewVolume(2, 2, 1)
	single.VoxelSize.Z = 5
	if MakeIsotropic(single) != single {
		t.Error("Expected a single-slice volume unchanged")
	}

	if MakeIsotropic(nil) != nil {
		t.Error("Expected nil passthrough")
	}
}

// TestMakeIsotropicStaysInRange verifies interpolated intensities never
// leave the original scalar range
func TestMakeIsotropicStaysInRange(t *testing.T) {
	v := anisotropicVolume(4.0)
	minBefore, maxBefore := v.ScalarRange()

	out := MakeIsotropic(v)
	minAfter, maxAfter := out.ScalarRange()

	if minAfter < minBefore || maxAfter > maxBefore {
		t.Errorf("Range grew: [%f,%f] vs [%f,%f]", minBefore, maxBefore, minAfter, maxAfter)
	}
}
