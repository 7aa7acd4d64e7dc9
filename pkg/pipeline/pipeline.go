// Package pipeline connects the volume processing stages to the renderer:
// Gaussian smoothing, intensity-range computation, iso-surface extraction or
// ray-cast setup depending on the rendering mode, and camera preservation
// across rebuilds. A Pipeline is bound 1:1 to the display surface it draws
// into; discarding the pipeline discards the camera and all actors with it.
package pipeline

import (
	"errors"
	"fmt"
	"image"

	"gonum.org/v1/gonum/stat"

	"dicomviewer3d/internal/models"
	"dicomviewer3d/pkg/config"
	"dicomviewer3d/pkg/contour"
	"dicomviewer3d/pkg/filters"
	"dicomviewer3d/pkg/interpolation"
	"dicomviewer3d/pkg/render"
	"dicomviewer3d/pkg/stl"
	"dicomviewer3d/pkg/transfer"
	"dicomviewer3d/pkg/visualization"
)

// ErrNoVolume is returned by operations that require a loaded volume
var ErrNoVolume = errors.New("no volume loaded")

// ErrDegenerateRange is returned when the smoothed volume has a zero-width
// scalar range, so no meaningful iso-value interval exists. The volume is
// still rendered; callers should pin the iso-value slider.
var ErrDegenerateRange = errors.New("volume scalar range is degenerate")

// ErrNoSurface is returned when exporting a surface before one was extracted
var ErrNoSurface = errors.New("no extracted surface to export")

// DisplaySurface receives rendered frames. The Fyne shell implements it with
// a canvas image; tests implement it with an in-memory stub.
type DisplaySurface interface {
	// Size returns the pixel dimensions frames should be rendered at
	Size() (width, height int)

	// Present displays a rendered frame
	Present(img *image.RGBA)
}

// Stats holds summary statistics of the loaded volume, logged after import
type Stats struct {
	// Mean is the average voxel intensity
	Mean float64

	// StdDev is the intensity standard deviation
	StdDev float64

	// Min and Max are the raw scalar range endpoints
	Min float64
	Max float64
}

// Pipeline owns the loaded volume, its smoothed copy, the intensity range,
// the current iso value and the renderer. All mutation happens on the event
// thread in response to user actions.
type Pipeline struct {
	cfg      *config.Config
	surface  DisplaySurface
	renderer *render.Renderer
	smoother *filters.GaussianSmoother

	volume   *models.Volume
	smoothed *models.Volume

	intensityRange models.IntensityRange
	isoValue       float64
	mode           models.RenderMode

	// triangles of the most recent surface extraction, kept for STL export
	triangles []contour.Triangle

	// labelFunc, when set, receives the iso-value label text on changes
	labelFunc func(text string)
}

// New creates a pipeline bound to the given display surface
func New(cfg *config.Config, surface DisplaySurface) *Pipeline {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Pipeline{
		cfg:      cfg,
		surface:  surface,
		renderer: render.NewRenderer(),
		smoother: filters.NewGaussianSmoother(cfg.Smoothing.StandardDeviation),
		mode:     models.SurfaceMode,
	}
}

// SetLabelFunc registers the callback that receives iso-value label text
func (p *Pipeline) SetLabelFunc(f func(text string)) {
	p.labelFunc = f
}

// SetVolume replaces the loaded volume, resampling it toward isotropic
// voxels when configured. The smoothed copy and the intensity range are
// invalidated; callers must follow with ComputeIntensityRange before
// rendering.
func (p *Pipeline) SetVolume(v *models.Volume) {
	if p.cfg.Resampling.Isotropic {
		v = interpolation.MakeIsotropic(v)
	}
	p.volume = v
	p.smoothed = nil
	p.intensityRange = nil
	p.triangles = nil
}

// SetMode records the rendering mode used by the next rebuild
func (p *Pipeline) SetMode(mode models.RenderMode) {
	p.mode = mode
}

// Mode returns the current rendering mode
func (p *Pipeline) Mode() models.RenderMode {
	return p.mode
}

// smoothedVolume returns the Gaussian-smoothed copy of the loaded volume,
// computing it on first use. Both rendering modes and the intensity range
// operate on the smoothed data so the slider bounds match what is drawn.
func (p *Pipeline) smoothedVolume() *models.Volume {
	if p.smoothed == nil && p.volume != nil {
		p.smoothed = p.smoother.Apply(p.volume)
	}
	return p.smoothed
}

// ComputeIntensityRange smooths the volume and derives the inclusive integer
// intensity range from its scalar range. The iso value is reset to the middle
// element. A zero-width scalar range yields a single-element range and
// ErrDegenerateRange so callers can disable the slider.
func (p *Pipeline) ComputeIntensityRange() (models.IntensityRange, error) {
	if p.volume == nil {
		return nil, ErrNoVolume
	}

	sv := p.smoothedVolume()
	min, max := sv.ScalarRange()

	// Smoothing is a convex combination of the raw samples, so the smoothed
	// range lies within the raw range; clamp away floating-point dust that
	// would otherwise widen the integer range by one
	rawMin, rawMax := p.volume.ScalarRange()
	if min < rawMin {
		min = rawMin
	}
	if max > rawMax {
		max = rawMax
	}

	p.intensityRange = models.NewIntensityRange(min, max)
	p.isoValue = float64(p.intensityRange.Mid())

	if p.intensityRange.Degenerate() {
		return p.intensityRange, ErrDegenerateRange
	}
	return p.intensityRange, nil
}

// IntensityRange returns the range computed by the last load, or nil
func (p *Pipeline) IntensityRange() models.IntensityRange {
	return p.intensityRange
}

// IsoValue returns the current contour threshold
func (p *Pipeline) IsoValue() float64 {
	return p.isoValue
}

// ActorCount returns the number of actors in the scene
func (p *Pipeline) ActorCount() int {
	return p.renderer.ActorCount()
}

// VisualizationPresent reports whether any actor is currently displayed
func (p *Pipeline) VisualizationPresent() bool {
	return p.renderer.ActorCount() > 0
}

// Camera exposes the renderer's camera so callers can inspect the viewpoint
func (p *Pipeline) Camera() *render.Camera {
	return p.renderer.Camera
}

// buildSurface extracts iso-contour levels anchored at the current iso value
// and adds a shaded surface actor to the scene
func (p *Pipeline) buildSurface() error {
	sv := p.smoothedVolume()
	if sv == nil {
		return ErrNoVolume
	}

	rangeMin := 0.0
	if len(p.intensityRange) > 0 {
		rangeMin = float64(p.intensityRange.Min())
	}

	p.triangles = contour.ExtractLevels(sv, p.isoValue, rangeMin, p.cfg.Surface.ContourCount)
	if p.cfg.Output.Verbose {
		fmt.Printf("Extracted %d triangles at iso value %.1f\n", len(p.triangles), p.isoValue)
	}

	p.renderer.AddActor(render.NewSurfaceActor(p.triangles))
	p.renderer.ResetCamera()
	p.renderer.ShowAxes(true)
	return nil
}

// buildRayCast configures the transfer functions and adds a volume actor to
// the scene
func (p *Pipeline) buildRayCast() error {
	sv := p.smoothedVolume()
	if sv == nil {
		return ErrNoVolume
	}

	actor := render.NewVolumeActor(sv,
		transfer.DefaultGrayscaleColor(),
		transfer.DefaultSoftTissueOpacity())
	actor.SampleDistance = p.cfg.RayCast.SampleDistance
	actor.Jitter = p.cfg.RayCast.Jitter
	actor.Shade = p.cfg.RayCast.Shade

	p.renderer.AddActor(actor)
	p.renderer.ResetCamera()
	p.renderer.ShowAxes(true)
	return nil
}

// Rebuild tears the scene down and builds it again in the current mode. The
// camera is snapshotted before and restored after, so interactive viewpoints
// survive iso-value changes and mode switches. The first build after a load
// or clear keeps the framing chosen by the camera reset instead.
func (p *Pipeline) Rebuild() error {
	hadActors := p.renderer.ActorCount() > 0
	saved := p.renderer.Camera.State()

	p.renderer.RemoveAllActors()

	var err error
	switch p.mode {
	case models.RayCastMode:
		err = p.buildRayCast()
	default:
		err = p.buildSurface()
	}

	if hadActors {
		p.renderer.Camera.Restore(saved)
	}

	// Present even when the build failed: the scene is already torn down,
	// and the display should show that rather than a stale frame
	p.present()
	return err
}

// OnIsoValueChanged is the slider callback: it records the new threshold,
// updates the label and rebuilds the surface
func (p *Pipeline) OnIsoValueChanged(value float64) error {
	p.isoValue = value
	if p.labelFunc != nil {
		p.labelFunc(fmt.Sprintf("Iso Value: %d", int(value)))
	}
	return p.Rebuild()
}

// Present renders the current scene and pushes the frame to the display
// surface. A fresh pipeline presents an empty frame, which is how the shell
// blanks the canvas after a clear.
func (p *Pipeline) Present() {
	p.present()
}

// present renders the scene at the display surface size and pushes the frame
func (p *Pipeline) present() {
	if p.surface == nil {
		return
	}
	w, h := p.surface.Size()
	p.surface.Present(p.renderer.Render(w, h))
}

// Stats computes summary statistics of the raw loaded volume with gonum
func (p *Pipeline) Stats() (Stats, error) {
	if p.volume == nil {
		return Stats{}, ErrNoVolume
	}

	min, max := p.volume.ScalarRange()
	return Stats{
		Mean:   stat.Mean(p.volume.Data, nil),
		StdDev: stat.StdDev(p.volume.Data, nil),
		Min:    min,
		Max:    max,
	}, nil
}

// ExportSurface writes the most recently extracted iso-surface as binary STL
func (p *Pipeline) ExportSurface(path string) error {
	if len(p.triangles) == 0 {
		return ErrNoSurface
	}
	if err := stl.SaveToSTL(path, p.triangles); err != nil {
		return fmt.Errorf("failed to export surface: %w", err)
	}
	if p.cfg.Output.Verbose {
		fmt.Printf("Exported %d triangles to %s\n", len(p.triangles), path)
	}
	return nil
}

// ExportSlices writes every cross section of the loaded volume along the
// given axis as grayscale images under dir
func (p *Pipeline) ExportSlices(dir, axis string) error {
	if p.volume == nil {
		return ErrNoVolume
	}
	viewer := visualization.NewViewer(p.volume)
	if err := viewer.SaveSliceSequence(axis, dir); err != nil {
		return fmt.Errorf("failed to export slices: %w", err)
	}
	return nil
}

// Volume returns the raw loaded volume, or nil
func (p *Pipeline) Volume() *models.Volume {
	return p.volume
}
