package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// axesColor is the line color of the reference axes wireframe
var axesColor = color.RGBA{R: 180, G: 180, B: 180, A: 255}

// labelColor is the color of the axis extent labels
var labelColor = color.RGBA{R: 230, G: 230, B: 230, A: 255}

// boxEdges lists the corner-index pairs of the twelve bounding box edges
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// drawCubeAxes overlays a wireframe box around the visible geometry with
// axis extent labels, giving the user a spatial reference that survives
// camera interaction.
func drawCubeAxes(fb *frameBuffer, cam *Camera, b Bounds) {
	if b.Empty() {
		return
	}

	corners := b.corners()
	var px, py [8]float64
	var visible [8]bool
	for i, c := range corners {
		x, y, _, ok := cam.project(c, fb.width, fb.height)
		px[i], py[i] = x, y
		visible[i] = ok
	}

	for _, e := range boxEdges {
		a, bIdx := e[0], e[1]
		if !visible[a] || !visible[bIdx] {
			continue
		}
		drawLine(fb.img, int(px[a]), int(py[a]), int(px[bIdx]), int(py[bIdx]), axesColor)
	}

	// Label the three axes at the corners of maximum extent. The label
	// format matches the numeric precision shown by the viewer.
	labels := []struct {
		corner int
		text   string
	}{
		{1, fmt.Sprintf("X %.4g", b.XMax)},
		{3, fmt.Sprintf("Y %.4g", b.YMax)},
		{4, fmt.Sprintf("Z %.4g", b.ZMax)},
	}
	for _, l := range labels {
		if !visible[l.corner] {
			continue
		}
		drawLabel(fb.img, int(px[l.corner]), int(py[l.corner]), l.text)
	}
}

// drawLine draws a clipped line with the Bresenham algorithm
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := int(math.Abs(float64(x1 - x0)))
	dy := -int(math.Abs(float64(y1 - y0)))

	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	bounds := img.Bounds()

	for {
		if image.Pt(x0, y0).In(bounds) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawLabel renders small text at the given pixel position
func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x+3, y-3),
	}
	d.DrawString(text)
}
