// Package interpolation resamples anisotropic volumes. DICOM series often
// have a slice spacing several times larger than the in-plane pixel spacing,
// which stretches rendered geometry along z; resampling inserts linearly
// interpolated slices until the voxels are close to isotropic.
package interpolation

import (
	"math"

	"dicomviewer3d/internal/models"
)

// MakeIsotropic returns a volume resampled along z so the slice spacing
// matches the smaller in-plane spacing. Volumes that are already isotropic
// (or finer along z) are returned unchanged. Interpolation is linear between
// adjacent slices, so intensities never leave the original scalar range.
func MakeIsotropic(v *models.Volume) *models.Volume {
	if v == nil || v.Depth < 2 {
		return v
	}

	target := math.Min(v.VoxelSize.X, v.VoxelSize.Y)
	if target <= 0 || v.VoxelSize.Z <= target {
		return v
	}

	// Preserve the physical extent: (Depth-1) slice gaps of the old
	// spacing are re-divided at the target spacing
	extent := float64(v.Depth-1) * v.VoxelSize.Z
	newDepth := int(math.Round(extent/target)) + 1
	if newDepth <= v.Depth {
		return v
	}

	out := models.NewVolume(v.Width, v.Height, newDepth)
	out.VoxelSize = v.VoxelSize
	out.VoxelSize.Z = extent / float64(newDepth-1)

	sliceSize := v.Width * v.Height
	for z := 0; z < newDepth; z++ {
		// Position of the new slice in old slice coordinates
		zf := float64(z) * out.VoxelSize.Z / v.VoxelSize.Z
		z0 := int(math.Floor(zf))
		if z0 >= v.Depth-1 {
			z0 = v.Depth - 2
		}
		t := zf - float64(z0)
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}

		lower := v.Data[z0*sliceSize : (z0+1)*sliceSize]
		upper := v.Data[(z0+1)*sliceSize : (z0+2)*sliceSize]
		dst := out.Data[z*sliceSize : (z+1)*sliceSize]
		for i := range dst {
			dst[i] = (1-t)*lower[i] + t*upper[i]
		}
	}

	return out
}
