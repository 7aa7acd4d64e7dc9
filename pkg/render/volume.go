package render

import (
	"image/color"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"dicomviewer3d/internal/models"
	"dicomviewer3d/pkg/transfer"
)

// volumeAmbient is the ambient term of the gradient shading applied to
// composited samples
const volumeAmbient = 0.2

// VolumeActor performs direct volume rendering by casting a ray per pixel
// through the scalar volume and compositing samples front to back.
type VolumeActor struct {
	// Volume is the scalar field being rendered
	Volume *models.Volume

	// Color maps scalar intensity to RGB
	Color *transfer.ColorFunction

	// Opacity maps scalar intensity to per-unit-length opacity
	Opacity *transfer.OpacityFunction

	// SampleDistance is the ray-march step in world units
	SampleDistance float64

	// Jitter randomizes the first sample along each ray to trade banding
	// for noise
	Jitter bool

	// Shade enables gradient-based Lambert shading
	Shade bool
}

// NewVolumeActor creates a volume actor with the given transfer functions
func NewVolumeActor(v *models.Volume, ctf *transfer.ColorFunction, otf *transfer.OpacityFunction) *VolumeActor {
	return &VolumeActor{
		Volume:         v,
		Color:          ctf,
		Opacity:        otf,
		SampleDistance: 0.5,
		Jitter:         true,
		Shade:          true,
	}
}

// Bounds returns the physical extent of the volume
func (a *VolumeActor) Bounds() Bounds {
	xmin, xmax, ymin, ymax, zmin, zmax := a.Volume.Bounds()
	return Bounds{XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax, ZMin: zmin, ZMax: zmax}
}

// sample returns the trilinearly interpolated scalar value at a world point
func (a *VolumeActor) sample(p r3.Vec) float64 {
	v := a.Volume

	fx := p.X / v.VoxelSize.X
	fy := p.Y / v.VoxelSize.Y
	fz := p.Z / v.VoxelSize.Z

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	z0 := int(math.Floor(fz))
	tx := fx - float64(x0)
	ty := fy - float64(y0)
	tz := fz - float64(z0)

	c000 := v.At(x0, y0, z0)
	c100 := v.At(x0+1, y0, z0)
	c010 := v.At(x0, y0+1, z0)
	c110 := v.At(x0+1, y0+1, z0)
	c001 := v.At(x0, y0, z0+1)
	c101 := v.At(x0+1, y0, z0+1)
	c011 := v.At(x0, y0+1, z0+1)
	c111 := v.At(x0+1, y0+1, z0+1)

	c00 := c000 + tx*(c100-c000)
	c10 := c010 + tx*(c110-c010)
	c01 := c001 + tx*(c101-c001)
	c11 := c011 + tx*(c111-c011)

	c0 := c00 + ty*(c10-c00)
	c1 := c01 + ty*(c11-c01)

	return c0 + tz*(c1-c0)
}

// gradient estimates the scalar gradient at a world point by central
// differences, used as the shading normal
func (a *VolumeActor) gradient(p r3.Vec) r3.Vec {
	h := a.SampleDistance
	if h <= 0 {
		h = 0.5
	}
	return r3.Vec{
		X: a.sample(r3.Vec{X: p.X + h, Y: p.Y, Z: p.Z}) - a.sample(r3.Vec{X: p.X - h, Y: p.Y, Z: p.Z}),
		Y: a.sample(r3.Vec{X: p.X, Y: p.Y + h, Z: p.Z}) - a.sample(r3.Vec{X: p.X, Y: p.Y - h, Z: p.Z}),
		Z: a.sample(r3.Vec{X: p.X, Y: p.Y, Z: p.Z + h}) - a.sample(r3.Vec{X: p.X, Y: p.Y, Z: p.Z - h}),
	}
}

// draw casts one ray per pixel and composites samples front to back
func (a *VolumeActor) draw(fb *frameBuffer, cam *Camera) {
	bounds := a.Bounds()
	step := a.SampleDistance
	if step <= 0 {
		step = 0.5
	}

	// Deterministic jitter sequence per render keeps output reproducible
	rng := rand.New(rand.NewSource(1))

	for py := 0; py < fb.height; py++ {
		for px := 0; px < fb.width; px++ {
			origin, dir := cam.ray(px, py, fb.width, fb.height)

			tNear, tFar, ok := bounds.intersectRay(origin, dir)
			if !ok {
				continue
			}

			t := tNear
			if a.Jitter {
				t += rng.Float64() * step
			}

			var accR, accG, accB, accA float64
			for ; t <= tFar; t += step {
				p := r3.Add(origin, r3.Scale(t, dir))
				scalar := a.sample(p)

				opacity := a.Opacity.Value(scalar)
				if opacity <= 0 {
					continue
				}

				// Opacity correction for the step length, so the
				// composited result is independent of sample spacing
				alpha := 1 - math.Pow(1-opacity, step)

				cr, cg, cb := a.Color.Value(scalar)

				if a.Shade {
					g := a.gradient(p)
					if n := r3.Norm(g); n > 1e-9 {
						// Headlight: light direction is the reverse ray
						diffuse := math.Abs(r3.Dot(r3.Scale(1/n, g), dir))
						shade := volumeAmbient + (1-volumeAmbient)*diffuse
						cr *= shade
						cg *= shade
						cb *= shade
					}
				}

				remain := 1 - accA
				accR += remain * alpha * cr
				accG += remain * alpha * cg
				accB += remain * alpha * cb
				accA += remain * alpha

				// Early termination once the ray is effectively opaque
				if accA >= 0.99 {
					break
				}
			}

			if accA <= 0 {
				continue
			}

			// Composite over the background already in the buffer
			bg := fb.img.RGBAAt(px, py)
			out := color.RGBA{
				R: clampChannel(accR*255 + (1-accA)*float64(bg.R)),
				G: clampChannel(accG*255 + (1-accA)*float64(bg.G)),
				B: clampChannel(accB*255 + (1-accA)*float64(bg.B)),
				A: 255,
			}
			fb.setPixel(px, py, tNear, out)
		}
	}
}

// clampChannel converts a float channel value to uint8 with clamping
func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
