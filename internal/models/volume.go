package models

import (
	"math"
)

// Volume represents a 3D scalar volume assembled from a DICOM image series
type Volume struct {
	// Data is the 3D volume data as a 1D array in row-major order
	// (x fastest, then y, then z)
	Data []float64

	// Width is the width of the volume in voxels
	Width int

	// Height is the height of the volume in voxels
	Height int

	// Depth is the depth of the volume in voxels (number of slices)
	Depth int

	// VoxelSize is the physical size of each voxel in mm
	VoxelSize struct {
		X, Y, Z float64
	}
}

// NewVolume creates a volume of the given dimensions with zeroed data
// and a unit voxel size.
func NewVolume(width, height, depth int) *Volume {
	v := &Volume{
		Data:   make([]float64, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
	v.VoxelSize.X = 1.0
	v.VoxelSize.Y = 1.0
	v.VoxelSize.Z = 1.0
	return v
}

// At returns the scalar value at the given voxel coordinates.
// Coordinates outside the volume return 0.
func (v *Volume) At(x, y, z int) float64 {
	if x < 0 || y < 0 || z < 0 || x >= v.Width || y >= v.Height || z >= v.Depth {
		return 0
	}
	return v.Data[z*v.Width*v.Height+y*v.Width+x]
}

// Set writes the scalar value at the given voxel coordinates.
// Coordinates outside the volume are ignored.
func (v *Volume) Set(x, y, z int, value float64) {
	if x < 0 || y < 0 || z < 0 || x >= v.Width || y >= v.Height || z >= v.Depth {
		return
	}
	v.Data[z*v.Width*v.Height+y*v.Width+x] = value
}

// ScalarRange returns the minimum and maximum scalar values in the volume.
// An empty volume returns (0, 0).
func (v *Volume) ScalarRange() (min, max float64) {
	if len(v.Data) == 0 {
		return 0, 0
	}

	min = v.Data[0]
	max = v.Data[0]
	for _, val := range v.Data {
		if val < min {
			min = val
		}
		if val > max {
			max = val
		}
	}

	return min, max
}

// Bounds returns the physical extent of the volume in mm as
// (xmin, xmax, ymin, ymax, zmin, zmax), anchored at the origin.
func (v *Volume) Bounds() (xmin, xmax, ymin, ymax, zmin, zmax float64) {
	return 0, float64(v.Width-1) * v.VoxelSize.X,
		0, float64(v.Height-1) * v.VoxelSize.Y,
		0, float64(v.Depth-1) * v.VoxelSize.Z
}

// Clone returns a deep copy of the volume. Used by filters that must not
// modify the original data.
func (v *Volume) Clone() *Volume {
	clone := NewVolume(v.Width, v.Height, v.Depth)
	copy(clone.Data, v.Data)
	clone.VoxelSize = v.VoxelSize
	return clone
}

// RenderMode selects which visualization path the pipeline takes
type RenderMode int

const (
	// SurfaceMode extracts iso-surface contours with marching cubes
	SurfaceMode RenderMode = iota

	// RayCastMode performs direct volume rendering by ray-cast compositing
	RayCastMode
)

// String returns a human-readable name for the rendering mode
func (m RenderMode) String() string {
	switch m {
	case SurfaceMode:
		return "Surface"
	case RayCastMode:
		return "RayCast"
	}
	return "Unknown"
}

// IntensityRange is the ordered sequence of integer iso-values spanning the
// smoothed volume's scalar range. It drives the slider bounds and default.
type IntensityRange []int

// NewIntensityRange builds the inclusive integer sequence from floor(min)
// to ceil(max).
func NewIntensityRange(min, max float64) IntensityRange {
	lo := int(math.Floor(min))
	hi := int(math.Ceil(max))
	if hi < lo {
		lo, hi = hi, lo
	}

	values := make(IntensityRange, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		values = append(values, v)
	}
	return values
}

// Min returns the first value of the range, or 0 when empty
func (r IntensityRange) Min() int {
	if len(r) == 0 {
		return 0
	}
	return r[0]
}

// Max returns the last value of the range, or 0 when empty
func (r IntensityRange) Max() int {
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1]
}

// Mid returns the middle element of the range, rounding down for
// even-length ranges, used as the default slider value after a volume
// loads. For the canonical [0,255] range this is 127.
func (r IntensityRange) Mid() int {
	if len(r) == 0 {
		return 0
	}
	return r[(len(r)-1)/2]
}

// Degenerate reports whether the range has fewer than two elements,
// meaning the iso slider has nothing meaningful to select.
func (r IntensityRange) Degenerate() bool {
	return len(r) < 2
}
