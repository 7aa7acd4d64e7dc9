package render

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"dicomviewer3d/pkg/contour"
)

// surface shading constants: a headlight at the camera with a small
// ambient term so back-facing silhouettes stay visible
const (
	surfaceAmbient = 0.15
)

// SurfaceActor renders an extracted iso-surface as shaded triangles
type SurfaceActor struct {
	// Triangles is the extracted iso-surface geometry
	Triangles []contour.Triangle

	// Color is the base diffuse color of the surface
	Color color.RGBA

	bounds Bounds
}

// NewSurfaceActor creates a surface actor with the viewer's default
// bone-white diffuse color
func NewSurfaceActor(triangles []contour.Triangle) *SurfaceActor {
	a := &SurfaceActor{
		Triangles: triangles,
		Color:     color.RGBA{R: 230, G: 225, B: 210, A: 255},
		bounds:    emptyBounds(),
	}
	for _, t := range triangles {
		for _, v := range [][3]float32{t.Vertex1, t.Vertex2, t.Vertex3} {
			a.bounds = a.bounds.Union(Bounds{
				XMin: float64(v[0]), XMax: float64(v[0]),
				YMin: float64(v[1]), YMax: float64(v[1]),
				ZMin: float64(v[2]), ZMax: float64(v[2]),
			})
		}
	}
	return a
}

// Bounds returns the extent of the triangle geometry
func (a *SurfaceActor) Bounds() Bounds {
	return a.bounds
}

// draw rasterizes every triangle with a z-buffer and headlight Lambert
// shading
func (a *SurfaceActor) draw(fb *frameBuffer, cam *Camera) {
	_, _, forward := cam.basis()

	for _, t := range a.Triangles {
		v1 := r3.Vec{X: float64(t.Vertex1[0]), Y: float64(t.Vertex1[1]), Z: float64(t.Vertex1[2])}
		v2 := r3.Vec{X: float64(t.Vertex2[0]), Y: float64(t.Vertex2[1]), Z: float64(t.Vertex2[2])}
		v3 := r3.Vec{X: float64(t.Vertex3[0]), Y: float64(t.Vertex3[1]), Z: float64(t.Vertex3[2])}

		x1, y1, z1, ok1 := cam.project(v1, fb.width, fb.height)
		x2, y2, z2, ok2 := cam.project(v2, fb.width, fb.height)
		x3, y3, z3, ok3 := cam.project(v3, fb.width, fb.height)
		if !ok1 || !ok2 || !ok3 {
			continue
		}

		// Headlight shading: the light rides with the camera, so the
		// diffuse term is the absolute cosine against the view direction
		normal := r3.Vec{X: float64(t.Normal[0]), Y: float64(t.Normal[1]), Z: float64(t.Normal[2])}
		diffuse := math.Abs(r3.Dot(normal, forward))
		intensity := surfaceAmbient + (1-surfaceAmbient)*diffuse

		shaded := color.RGBA{
			R: uint8(math.Min(255, float64(a.Color.R)*intensity)),
			G: uint8(math.Min(255, float64(a.Color.G)*intensity)),
			B: uint8(math.Min(255, float64(a.Color.B)*intensity)),
			A: 255,
		}

		rasterizeTriangle(fb, x1, y1, z1, x2, y2, z2, x3, y3, z3, shaded)
	}
}

// rasterizeTriangle fills a projected triangle using barycentric
// coordinates with depth interpolation
func rasterizeTriangle(fb *frameBuffer, x1, y1, z1, x2, y2, z2, x3, y3, z3 float64, c color.RGBA) {
	minX := int(math.Floor(math.Min(x1, math.Min(x2, x3))))
	maxX := int(math.Ceil(math.Max(x1, math.Max(x2, x3))))
	minY := int(math.Floor(math.Min(y1, math.Min(y2, y3))))
	maxY := int(math.Ceil(math.Max(y1, math.Max(y2, y3))))

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= fb.width {
		maxX = fb.width - 1
	}
	if maxY >= fb.height {
		maxY = fb.height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	area := (x2-x1)*(y3-y1) - (x3-x1)*(y2-y1)
	if math.Abs(area) < 1e-12 {
		return
	}

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			cx := float64(px) + 0.5
			cy := float64(py) + 0.5

			w1 := ((x2-cx)*(y3-cy) - (x3-cx)*(y2-cy)) / area
			w2 := ((x3-cx)*(y1-cy) - (x1-cx)*(y3-cy)) / area
			w3 := 1 - w1 - w2

			if w1 < 0 || w2 < 0 || w3 < 0 {
				continue
			}

			z := w1*z1 + w2*z2 + w3*z3
			fb.setPixel(px, py, z, c)
		}
	}
}
