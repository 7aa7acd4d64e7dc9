package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// viewAngleDegrees is the fixed vertical field of view of the camera
const viewAngleDegrees = 30.0

// CameraState is the snapshot of viewpoint parameters saved before and
// restored after every visualization rebuild, so rebuilding actors does
// not reset the user's framing.
type CameraState struct {
	Position   r3.Vec
	FocalPoint r3.Vec
	ViewUp     r3.Vec
	Distance   float64
}

// Camera defines the viewpoint used by both the triangle rasterizer and
// the volume ray caster
type Camera struct {
	// Position is the eye point in world coordinates
	Position r3.Vec

	// FocalPoint is the point the camera looks at
	FocalPoint r3.Vec

	// ViewUp orients the camera roll
	ViewUp r3.Vec
}

// NewCamera creates a camera at the default startup viewpoint: on the +z
// axis at distance 300, looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position:   r3.Vec{X: 0, Y: 0, Z: 300},
		FocalPoint: r3.Vec{X: 0, Y: 0, Z: 0},
		ViewUp:     r3.Vec{X: 0, Y: 1, Z: 0},
	}
}

// Distance returns the distance from the camera position to the focal point
func (c *Camera) Distance() float64 {
	return r3.Norm(r3.Sub(c.FocalPoint, c.Position))
}

// SetDistance moves the camera along its current view direction so that it
// sits at the given distance from the focal point
func (c *Camera) SetDistance(d float64) {
	dir := c.direction()
	c.Position = r3.Sub(c.FocalPoint, r3.Scale(d, dir))
}

// direction returns the unit view direction, falling back to -z for a
// degenerate camera
func (c *Camera) direction() r3.Vec {
	d := r3.Sub(c.FocalPoint, c.Position)
	if r3.Norm(d) < 1e-12 {
		return r3.Vec{X: 0, Y: 0, Z: -1}
	}
	return r3.Unit(d)
}

// State snapshots the camera parameters
func (c *Camera) State() CameraState {
	return CameraState{
		Position:   c.Position,
		FocalPoint: c.FocalPoint,
		ViewUp:     c.ViewUp,
		Distance:   c.Distance(),
	}
}

// Restore puts the camera back to a previously snapshotted state
func (c *Camera) Restore(s CameraState) {
	c.Position = s.Position
	c.FocalPoint = s.FocalPoint
	c.ViewUp = s.ViewUp
	c.SetDistance(s.Distance)
}

// basis returns the orthonormal camera frame: right, up, forward
func (c *Camera) basis() (right, up, forward r3.Vec) {
	forward = c.direction()
	right = r3.Cross(forward, c.ViewUp)
	if r3.Norm(right) < 1e-12 {
		// ViewUp parallel to the view direction; pick any perpendicular
		right = r3.Cross(forward, r3.Vec{X: 1, Y: 0, Z: 0})
		if r3.Norm(right) < 1e-12 {
			right = r3.Cross(forward, r3.Vec{X: 0, Y: 1, Z: 0})
		}
	}
	right = r3.Unit(right)
	up = r3.Cross(right, forward)
	return right, up, forward
}

// ResetToBounds repositions the camera so the given bounds are fully framed,
// preserving the current view direction. Mirrors the reset-camera behavior
// that follows every actor rebuild.
func (c *Camera) ResetToBounds(b Bounds) {
	if b.Empty() {
		return
	}

	dir := c.direction()
	center := b.Center()
	radius := b.Radius()
	if radius < 1e-9 {
		radius = 1.0
	}

	halfAngle := viewAngleDegrees * math.Pi / 360.0
	distance := radius / math.Sin(halfAngle)

	c.FocalPoint = center
	c.Position = r3.Sub(center, r3.Scale(distance, dir))
}

// project maps a world point to pixel coordinates and camera depth.
// ok is false for points at or behind the eye plane.
func (c *Camera) project(p r3.Vec, width, height int) (x, y, depth float64, ok bool) {
	right, up, forward := c.basis()
	d := r3.Sub(p, c.Position)

	depth = r3.Dot(d, forward)
	if depth <= 1e-9 {
		return 0, 0, 0, false
	}

	tanHalf := math.Tan(viewAngleDegrees * math.Pi / 360.0)
	aspect := float64(width) / float64(height)

	sx := r3.Dot(d, right) / (depth * tanHalf * aspect)
	sy := r3.Dot(d, up) / (depth * tanHalf)

	x = (sx*0.5 + 0.5) * float64(width)
	y = (0.5 - sy*0.5) * float64(height)
	return x, y, depth, true
}

// ray returns the origin and unit direction of the view ray through the
// pixel center (px, py)
func (c *Camera) ray(px, py, width, height int) (origin, dir r3.Vec) {
	right, up, forward := c.basis()

	tanHalf := math.Tan(viewAngleDegrees * math.Pi / 360.0)
	aspect := float64(width) / float64(height)

	sx := (2.0*(float64(px)+0.5)/float64(width) - 1.0) * tanHalf * aspect
	sy := (1.0 - 2.0*(float64(py)+0.5)/float64(height)) * tanHalf

	dir = r3.Unit(r3.Add(forward, r3.Add(r3.Scale(sx, right), r3.Scale(sy, up))))
	return c.Position, dir
}
