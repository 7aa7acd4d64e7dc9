// Package transfer implements the scalar-to-opacity and scalar-to-color
// mappings used by the ray-cast volume renderer.
package transfer

import (
	"sort"
)

// OpacityPoint is a single control point of a piecewise-linear opacity
// transfer function.
type OpacityPoint struct {
	// Scalar is the intensity value of the control point
	Scalar float64

	// Opacity is the opacity at that intensity, in [0,1]
	Opacity float64
}

// OpacityFunction maps scalar intensity to opacity by linear interpolation
// between control points. Values outside the control points clamp to the
// nearest point.
type OpacityFunction struct {
	points []OpacityPoint
}

// NewOpacityFunction creates an empty opacity transfer function
func NewOpacityFunction() *OpacityFunction {
	return &OpacityFunction{}
}

// AddPoint inserts a control point, keeping points sorted by scalar value.
// Adding a point at an existing scalar value replaces it.
func (f *OpacityFunction) AddPoint(scalar, opacity float64) {
	for i, p := range f.points {
		if p.Scalar == scalar {
			f.points[i].Opacity = opacity
			return
		}
	}
	f.points = append(f.points, OpacityPoint{Scalar: scalar, Opacity: opacity})
	sort.Slice(f.points, func(i, j int) bool {
		return f.points[i].Scalar < f.points[j].Scalar
	})
}

// Value evaluates the function at the given scalar intensity
func (f *OpacityFunction) Value(scalar float64) float64 {
	n := len(f.points)
	if n == 0 {
		return 0
	}
	if scalar <= f.points[0].Scalar {
		return f.points[0].Opacity
	}
	if scalar >= f.points[n-1].Scalar {
		return f.points[n-1].Opacity
	}

	// Find the surrounding control points and interpolate
	for i := 1; i < n; i++ {
		if scalar <= f.points[i].Scalar {
			lo, hi := f.points[i-1], f.points[i]
			t := (scalar - lo.Scalar) / (hi.Scalar - lo.Scalar)
			return lo.Opacity + t*(hi.Opacity-lo.Opacity)
		}
	}
	return f.points[n-1].Opacity
}

// ColorPoint is a single control point of an RGB color transfer function
type ColorPoint struct {
	// Scalar is the intensity value of the control point
	Scalar float64

	// R, G, B are the color channels at that intensity, each in [0,1]
	R, G, B float64
}

// ColorFunction maps scalar intensity to an RGB color by channel-wise
// linear interpolation between control points.
type ColorFunction struct {
	points []ColorPoint
}

// NewColorFunction creates an empty color transfer function
func NewColorFunction() *ColorFunction {
	return &ColorFunction{}
}

// AddRGBPoint inserts a control point, keeping points sorted by scalar value.
// Adding a point at an existing scalar value replaces it.
func (f *ColorFunction) AddRGBPoint(scalar, r, g, b float64) {
	for i, p := range f.points {
		if p.Scalar == scalar {
			f.points[i].R, f.points[i].G, f.points[i].B = r, g, b
			return
		}
	}
	f.points = append(f.points, ColorPoint{Scalar: scalar, R: r, G: g, B: b})
	sort.Slice(f.points, func(i, j int) bool {
		return f.points[i].Scalar < f.points[j].Scalar
	})
}

// Value evaluates the function at the given scalar intensity
func (f *ColorFunction) Value(scalar float64) (r, g, b float64) {
	n := len(f.points)
	if n == 0 {
		return 0, 0, 0
	}
	if scalar <= f.points[0].Scalar {
		p := f.points[0]
		return p.R, p.G, p.B
	}
	if scalar >= f.points[n-1].Scalar {
		p := f.points[n-1]
		return p.R, p.G, p.B
	}

	for i := 1; i < n; i++ {
		if scalar <= f.points[i].Scalar {
			lo, hi := f.points[i-1], f.points[i]
			t := (scalar - lo.Scalar) / (hi.Scalar - lo.Scalar)
			return lo.R + t*(hi.R-lo.R),
				lo.G + t*(hi.G-lo.G),
				lo.B + t*(hi.B-lo.B)
		}
	}
	p := f.points[n-1]
	return p.R, p.G, p.B
}

// DefaultSoftTissueOpacity returns the opacity transfer function used for
// ray-cast rendering of DICOM series. The four control points model typical
// soft-tissue/bone separation: air fully transparent, soft tissue faint,
// denser tissue mostly opaque, bone fully opaque.
func DefaultSoftTissueOpacity() *OpacityFunction {
	f := NewOpacityFunction()
	f.AddPoint(0, 0.0)
	f.AddPoint(80, 0.1)
	f.AddPoint(120, 0.8)
	f.AddPoint(255, 1.0)
	return f
}

// DefaultGrayscaleColor returns the color transfer function used for
// ray-cast rendering: black at intensity 0 rising to white at 200.
func DefaultGrayscaleColor() *ColorFunction {
	f := NewColorFunction()
	f.AddRGBPoint(0, 0.0, 0.0, 0.0)
	f.AddRGBPoint(200, 1.0, 1.0, 1.0)
	return f
}
