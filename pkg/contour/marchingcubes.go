// Package contour implements iso-surface extraction from a 3D scalar volume
// using the marching cubes algorithm. Extracted triangles feed the surface
// renderer and the STL exporter.
package contour

import (
	"math"

	"dicomviewer3d/internal/models"
)

// Triangle represents a single surface triangle with a per-face normal
type Triangle struct {
	// Normal is the unit face normal
	Normal [3]float32

	// Vertex1, Vertex2, Vertex3 are the triangle corners in volume
	// coordinates (scaled by the configured voxel scale)
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
}

// MarchingCubes extracts the iso-surface at a fixed threshold from a
// scalar volume
type MarchingCubes struct {
	// data is the volume data in row-major order (x fastest)
	data []float64

	// width, height, depth are the volume dimensions
	width  int
	height int
	depth  int

	// isoLevel is the scalar threshold defining the surface
	isoLevel float64

	// xScale, yScale, zScale map voxel indices to physical coordinates
	xScale, yScale, zScale float32
}

// NewMarchingCubes creates an extractor for the given volume data and
// iso-level, with a unit voxel scale.
func NewMarchingCubes(data []float64, width, height, depth int, isoLevel float64) *MarchingCubes {
	return &MarchingCubes{
		data:     data,
		width:    width,
		height:   height,
		depth:    depth,
		isoLevel: isoLevel,
		xScale:   1.0,
		yScale:   1.0,
		zScale:   1.0,
	}
}

// SetScale sets the physical size of a voxel along each axis. Used to apply
// the DICOM pixel spacing and slice gap to the extracted geometry.
func (mc *MarchingCubes) SetScale(x, y, z float32) {
	mc.xScale = x
	mc.yScale = y
	mc.zScale = z
}

// at returns the scalar value at the given voxel, clamping out-of-range
// indices to zero
func (mc *MarchingCubes) at(x, y, z int) float64 {
	if x < 0 || y < 0 || z < 0 || x >= mc.width || y >= mc.height || z >= mc.depth {
		return 0
	}
	return mc.data[z*mc.width*mc.height+y*mc.width+x]
}

// cornerOffsets are the voxel offsets of the eight cube corners
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// edgeCorners maps each of the twelve cube edges to its two corner indices
var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// GenerateTriangles runs marching cubes over the whole volume and returns
// the triangles of the iso-surface. An empty or degenerate volume returns
// no triangles.
func (mc *MarchingCubes) GenerateTriangles() []Triangle {
	var triangles []Triangle
	if mc.width < 2 || mc.height < 2 || mc.depth < 2 {
		return triangles
	}

	var corner [8][3]float64
	var value [8]float64
	var vertex [12][3]float64

	for z := 0; z < mc.depth-1; z++ {
		for y := 0; y < mc.height-1; y++ {
			for x := 0; x < mc.width-1; x++ {
				// Gather cube corners and classify against the iso-level
				cubeIndex := 0
				for i, off := range cornerOffsets {
					cx, cy, cz := x+off[0], y+off[1], z+off[2]
					corner[i] = [3]float64{float64(cx), float64(cy), float64(cz)}
					value[i] = mc.at(cx, cy, cz)
					if value[i] < mc.isoLevel {
						cubeIndex |= 1 << i
					}
				}

				edges := edgeTable[cubeIndex]
				if edges == 0 {
					continue
				}

				// Interpolate a surface vertex on each crossed edge
				for e := 0; e < 12; e++ {
					if edges&(1<<e) == 0 {
						continue
					}
					a, b := edgeCorners[e][0], edgeCorners[e][1]
					vertex[e] = interpolateVertex(mc.isoLevel, corner[a], corner[b], value[a], value[b])
				}

				// Emit the triangles for this cube configuration
				for t := 0; triTable[cubeIndex][t] != -1; t += 3 {
					tri := mc.makeTriangle(
						vertex[triTable[cubeIndex][t]],
						vertex[triTable[cubeIndex][t+1]],
						vertex[triTable[cubeIndex][t+2]],
					)
					if tri != nil {
						triangles = append(triangles, *tri)
					}
				}
			}
		}
	}

	return triangles
}

// interpolateVertex places a vertex on the edge between p1 and p2 where the
// scalar field crosses the iso-level
func interpolateVertex(iso float64, p1, p2 [3]float64, v1, v2 float64) [3]float64 {
	if math.Abs(v2-v1) < 1e-12 {
		return [3]float64{(p1[0] + p2[0]) / 2, (p1[1] + p2[1]) / 2, (p1[2] + p2[2]) / 2}
	}
	t := (iso - v1) / (v2 - v1)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return [3]float64{
		p1[0] + t*(p2[0]-p1[0]),
		p1[1] + t*(p2[1]-p1[1]),
		p1[2] + t*(p2[2]-p1[2]),
	}
}

// makeTriangle builds a scaled triangle with its face normal, or nil when
// the triangle is degenerate (zero area)
func (mc *MarchingCubes) makeTriangle(a, b, c [3]float64) *Triangle {
	ax := a[0] * float64(mc.xScale)
	ay := a[1] * float64(mc.yScale)
	az := a[2] * float64(mc.zScale)
	bx := b[0] * float64(mc.xScale)
	by := b[1] * float64(mc.yScale)
	bz := b[2] * float64(mc.zScale)
	cx := c[0] * float64(mc.xScale)
	cy := c[1] * float64(mc.yScale)
	cz := c[2] * float64(mc.zScale)

	// Face normal from the cross product of two edges. The corner inside
	// the surface carries the lower cube-index bit, which makes the
	// winding consistent and the normal point from low to high values.
	ux, uy, uz := bx-ax, by-ay, bz-az
	vx, vy, vz := cx-ax, cy-ay, cz-az
	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx

	mag := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if mag < 1e-12 {
		return nil
	}
	nx /= mag
	ny /= mag
	nz /= mag

	return &Triangle{
		Normal:  [3]float32{float32(nx), float32(ny), float32(nz)},
		Vertex1: [3]float32{float32(ax), float32(ay), float32(az)},
		Vertex2: [3]float32{float32(bx), float32(by), float32(bz)},
		Vertex3: [3]float32{float32(cx), float32(cy), float32(cz)},
	}
}

// ExtractLevels extracts iso-surfaces at count levels anchored at isoValue
// and spaced evenly down toward rangeMin. Levels that coincide (degenerate
// spacing) or fall outside the volume's scalar range are skipped rather
// than fed to the extractor, so any level count is safe.
func ExtractLevels(v *models.Volume, isoValue, rangeMin float64, count int) []Triangle {
	if count < 1 {
		count = 1
	}

	min, max := v.ScalarRange()

	step := 0.0
	if count > 1 {
		step = (isoValue - rangeMin) / float64(count)
	}

	var triangles []Triangle
	seen := make(map[float64]bool)
	for i := 0; i < count; i++ {
		level := isoValue - float64(i)*step
		if seen[level] {
			continue
		}
		seen[level] = true

		// A level at or outside the data range produces nothing useful
		if level <= min || level >= max {
			continue
		}

		mc := NewMarchingCubes(v.Data, v.Width, v.Height, v.Depth, level)
		mc.SetScale(float32(v.VoxelSize.X), float32(v.VoxelSize.Y), float32(v.VoxelSize.Z))
		triangles = append(triangles, mc.GenerateTriangles()...)
	}

	return triangles
}
