package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds is an axis-aligned bounding box in world coordinates
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// emptyBounds returns an inverted box that unions correctly with any other
func emptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		XMin: inf, XMax: -inf,
		YMin: inf, YMax: -inf,
		ZMin: inf, ZMax: -inf,
	}
}

// Empty reports whether the box contains no volume
func (b Bounds) Empty() bool {
	return b.XMax < b.XMin || b.YMax < b.YMin || b.ZMax < b.ZMin
}

// Union returns the smallest box containing both boxes
func (b Bounds) Union(o Bounds) Bounds {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Bounds{
		XMin: math.Min(b.XMin, o.XMin), XMax: math.Max(b.XMax, o.XMax),
		YMin: math.Min(b.YMin, o.YMin), YMax: math.Max(b.YMax, o.YMax),
		ZMin: math.Min(b.ZMin, o.ZMin), ZMax: math.Max(b.ZMax, o.ZMax),
	}
}

// Center returns the box center
func (b Bounds) Center() r3.Vec {
	return r3.Vec{
		X: (b.XMin + b.XMax) / 2,
		Y: (b.YMin + b.YMax) / 2,
		Z: (b.ZMin + b.ZMax) / 2,
	}
}

// Radius returns the radius of the bounding sphere around the box center
func (b Bounds) Radius() float64 {
	if b.Empty() {
		return 0
	}
	dx := b.XMax - b.XMin
	dy := b.YMax - b.YMin
	dz := b.ZMax - b.ZMin
	return math.Sqrt(dx*dx+dy*dy+dz*dz) / 2
}

// corners returns the eight corner points of the box
func (b Bounds) corners() [8]r3.Vec {
	return [8]r3.Vec{
		{X: b.XMin, Y: b.YMin, Z: b.ZMin},
		{X: b.XMax, Y: b.YMin, Z: b.ZMin},
		{X: b.XMax, Y: b.YMax, Z: b.ZMin},
		{X: b.XMin, Y: b.YMax, Z: b.ZMin},
		{X: b.XMin, Y: b.YMin, Z: b.ZMax},
		{X: b.XMax, Y: b.YMin, Z: b.ZMax},
		{X: b.XMax, Y: b.YMax, Z: b.ZMax},
		{X: b.XMin, Y: b.YMax, Z: b.ZMax},
	}
}

// intersectRay clips the ray origin+t*dir against the box using the slab
// method. Returns the entry and exit parameters, or ok=false for a miss.
func (b Bounds) intersectRay(origin, dir r3.Vec) (tNear, tFar float64, ok bool) {
	tNear = math.Inf(-1)
	tFar = math.Inf(1)

	axes := [3][2]float64{
		{origin.X, dir.X},
		{origin.Y, dir.Y},
		{origin.Z, dir.Z},
	}
	mins := [3]float64{b.XMin, b.YMin, b.ZMin}
	maxs := [3]float64{b.XMax, b.YMax, b.ZMax}

	for i := 0; i < 3; i++ {
		o, d := axes[i][0], axes[i][1]
		if math.Abs(d) < 1e-12 {
			if o < mins[i] || o > maxs[i] {
				return 0, 0, false
			}
			continue
		}
		t1 := (mins[i] - o) / d
		t2 := (maxs[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return 0, 0, false
		}
	}

	if tFar < 0 {
		return 0, 0, false
	}
	if tNear < 0 {
		tNear = 0
	}
	return tNear, tFar, true
}
