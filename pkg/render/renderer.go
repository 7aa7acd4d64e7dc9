// Package render implements a software renderer for the viewer: z-buffered
// triangle rasterization for extracted iso-surfaces and front-to-back
// ray-cast compositing for direct volume rendering, with a shared camera
// and a reference-axes overlay.
package render

import (
	"image"
	"image/color"
	"math"
)

// Actor is a renderable scene object
type Actor interface {
	// Bounds returns the world-space extent of the actor, used to frame
	// the camera
	Bounds() Bounds

	// draw renders the actor into the frame buffer
	draw(fb *frameBuffer, cam *Camera)
}

// frameBuffer pairs the output image with a depth buffer for rasterization
type frameBuffer struct {
	img    *image.RGBA
	depth  []float64
	width  int
	height int
}

func newFrameBuffer(width, height int, background color.RGBA) *frameBuffer {
	fb := &frameBuffer{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		depth:  make([]float64, width*height),
		width:  width,
		height: height,
	}
	for i := range fb.depth {
		fb.depth[i] = math.Inf(1)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fb.img.SetRGBA(x, y, background)
		}
	}
	return fb
}

// setPixel writes a pixel if it passes the depth test
func (fb *frameBuffer) setPixel(x, y int, z float64, c color.RGBA) {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return
	}
	idx := y*fb.width + x
	if z >= fb.depth[idx] {
		return
	}
	fb.depth[idx] = z
	fb.img.SetRGBA(x, y, c)
}

// Renderer owns the camera, the scene actors and the axes overlay. It is
// bound 1:1 to a display surface by the pipeline that creates it.
type Renderer struct {
	// Camera is the active viewpoint, preserved across rebuilds by the
	// pipeline
	Camera *Camera

	// Background is the clear color
	Background color.RGBA

	actors   []Actor
	showAxes bool
}

// NewRenderer creates a renderer with a default camera and black background
func NewRenderer() *Renderer {
	return &Renderer{
		Camera:     NewCamera(),
		Background: color.RGBA{A: 255},
	}
}

// AddActor appends an actor to the scene
func (r *Renderer) AddActor(a Actor) {
	r.actors = append(r.actors, a)
}

// RemoveAllActors clears the scene, including the axes overlay
func (r *Renderer) RemoveAllActors() {
	r.actors = nil
	r.showAxes = false
}

// ActorCount returns the number of actors currently in the scene
func (r *Renderer) ActorCount() int {
	return len(r.actors)
}

// ShowAxes enables the reference axes overlay around the visible geometry
func (r *Renderer) ShowAxes(show bool) {
	r.showAxes = show
}

// VisibleBounds returns the union of all actor bounds
func (r *Renderer) VisibleBounds() Bounds {
	b := emptyBounds()
	for _, a := range r.actors {
		b = b.Union(a.Bounds())
	}
	return b
}

// ResetCamera repositions the camera to frame all visible geometry,
// preserving the view direction
func (r *Renderer) ResetCamera() {
	r.Camera.ResetToBounds(r.VisibleBounds())
}

// Render draws the scene into a new image of the given size
func (r *Renderer) Render(width, height int) *image.RGBA {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	fb := newFrameBuffer(width, height, r.Background)
	for _, a := range r.actors {
		a.draw(fb, r.Camera)
	}
	if r.showAxes {
		drawCubeAxes(fb, r.Camera, r.VisibleBounds())
	}
	return fb.img
}
