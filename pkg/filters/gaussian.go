// Package filters implements the smoothing pre-filter applied to a scalar
// volume before range sampling, contour extraction and ray casting. The
// Gaussian reduces high-frequency acquisition noise that would otherwise
// fragment extracted surfaces.
package filters

import (
	"math"

	"dicomviewer3d/internal/models"
)

// GaussianSmoother applies a separable 3D Gaussian convolution to a volume
type GaussianSmoother struct {
	// sigma is the standard deviation of the kernel in voxels
	sigma float64

	// kernel holds the normalized 1D weights, truncated at 3 sigma
	kernel []float64

	// radius is half the kernel width
	radius int
}

// NewGaussianSmoother creates a smoother with the given standard deviation.
// A sigma of zero or less produces an identity filter.
func NewGaussianSmoother(sigma float64) *GaussianSmoother {
	g := &GaussianSmoother{sigma: sigma}
	g.buildKernel()
	return g
}

// buildKernel computes the normalized 1D Gaussian weights
func (g *GaussianSmoother) buildKernel() {
	if g.sigma <= 0 {
		g.radius = 0
		g.kernel = []float64{1.0}
		return
	}

	// Truncate at 3 sigma; beyond that the weights are negligible
	g.radius = int(math.Ceil(3 * g.sigma))
	size := 2*g.radius + 1
	g.kernel = make([]float64, size)

	sum := 0.0
	for i := 0; i < size; i++ {
		x := float64(i - g.radius)
		w := math.Exp(-(x * x) / (2 * g.sigma * g.sigma))
		g.kernel[i] = w
		sum += w
	}

	// Normalize so constant fields pass through unchanged
	for i := range g.kernel {
		g.kernel[i] /= sum
	}
}

// Apply returns a smoothed copy of the volume. The input is not modified.
// The convolution is separable: one 1D pass along each axis. Samples beyond
// the volume boundary are clamped to the nearest edge voxel, which avoids
// darkening at the faces of the volume.
func (g *GaussianSmoother) Apply(v *models.Volume) *models.Volume {
	if g.radius == 0 || len(v.Data) == 0 {
		return v.Clone()
	}

	src := v.Clone()
	dst := models.NewVolume(v.Width, v.Height, v.Depth)
	dst.VoxelSize = v.VoxelSize

	g.convolveAxis(src, dst, 0)
	src, dst = dst, src
	g.convolveAxis(src, dst, 1)
	src, dst = dst, src
	g.convolveAxis(src, dst, 2)

	return dst
}

// convolveAxis runs one 1D convolution pass along the given axis
// (0 = x, 1 = y, 2 = z)
func (g *GaussianSmoother) convolveAxis(src, dst *models.Volume, axis int) {
	clamp := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v >= max {
			return max - 1
		}
		return v
	}

	for z := 0; z < src.Depth; z++ {
		for y := 0; y < src.Height; y++ {
			for x := 0; x < src.Width; x++ {
				sum := 0.0
				for k := -g.radius; k <= g.radius; k++ {
					w := g.kernel[k+g.radius]
					switch axis {
					case 0:
						sum += w * src.At(clamp(x+k, src.Width), y, z)
					case 1:
						sum += w * src.At(x, clamp(y+k, src.Height), z)
					default:
						sum += w * src.At(x, y, clamp(z+k, src.Depth))
					}
				}
				dst.Set(x, y, z, sum)
			}
		}
	}
}
