// Package app implements the application shell: the state machine behind the
// viewer window. It owns the rendering mode, the pipeline lifecycle and the
// event-dispatch table, and talks to the GUI toolkit only through small
// interfaces so the whole shell is unit-testable without a display.
package app

import (
	"errors"
	"fmt"
	"log"

	"dicomviewer3d/internal/models"
	"dicomviewer3d/pkg/config"
	"dicomviewer3d/pkg/dicomseries"
	"dicomviewer3d/pkg/pipeline"
)

// Event names for the dispatch table. Handlers are registered once at
// startup and invoked synchronously on the event thread.
const (
	EventImport      = "import"
	EventClear       = "clear"
	EventSurfaceMode = "mode.surface"
	EventRayCastMode = "mode.raycast"
)

// FolderPicker prompts the user for a directory and hands the choice to the
// callback. An empty string means the selection was cancelled. Toolkit
// implementations may invoke the callback asynchronously on the event thread.
type FolderPicker interface {
	PickFolder(callback func(dir string))
}

// ErrorReporter shows a modal error message. Errors are terminal to the
// action that raised them, never to the process.
type ErrorReporter interface {
	ShowError(err error)
}

// SliderControl is the iso-value slider as the shell sees it
type SliderControl interface {
	// Configure sets the slider bounds and current value
	Configure(min, max, value float64)

	// SetEnabled enables or disables user interaction
	SetEnabled(enabled bool)

	// SetValue moves the slider without changing its bounds
	SetValue(value float64)
}

// LabelControl is the iso-value text label as the shell sees it
type LabelControl interface {
	SetText(text string)
}

// SeriesLoader validates and loads DICOM series directories
type SeriesLoader interface {
	HasSeriesFiles(dir string) bool
	LoadSeries(dir string) (*models.Volume, error)
}

// SurfaceReleaser is implemented by display surfaces that need explicit
// teardown at shutdown
type SurfaceReleaser interface {
	Release()
}

// dicomLoader is the production SeriesLoader backed by the series reader
type dicomLoader struct{}

func (dicomLoader) HasSeriesFiles(dir string) bool { return dicomseries.HasSeriesFiles(dir) }

func (dicomLoader) LoadSeries(dir string) (*models.Volume, error) {
	return dicomseries.LoadSeries(dir)
}

// DefaultLoader returns the SeriesLoader used by the application
func DefaultLoader() SeriesLoader {
	return dicomLoader{}
}

// Deps collects the toolkit-facing collaborators of the shell
type Deps struct {
	Picker  FolderPicker
	Errors  ErrorReporter
	Slider  SliderControl
	Label   LabelControl
	Loader  SeriesLoader
	Surface pipeline.DisplaySurface
}

// Shell owns the rendering mode and the pipeline, and routes user events to
// them. One shell exists per window.
type Shell struct {
	cfg  *config.Config
	deps Deps

	pipe *pipeline.Pipeline
	mode models.RenderMode

	// degenerate is true when the loaded volume has a zero-width scalar
	// range, which pins the slider regardless of mode
	degenerate bool

	handlers map[string]func()
}

// New creates a shell with a fresh pipeline bound to the display surface
// and registers the event-dispatch table
func New(cfg *config.Config, deps Deps) *Shell {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if deps.Loader == nil {
		deps.Loader = DefaultLoader()
	}

	s := &Shell{
		cfg:  cfg,
		deps: deps,
		mode: models.SurfaceMode,
	}
	s.pipe = s.newPipeline()

	s.handlers = map[string]func(){
		EventImport:      s.SelectAndLoadDirectory,
		EventClear:       s.Clear,
		EventSurfaceMode: func() { s.ToggleRenderingMode(models.SurfaceMode) },
		EventRayCastMode: func() { s.ToggleRenderingMode(models.RayCastMode) },
	}
	return s
}

// newPipeline constructs a pipeline on the shell's display surface with the
// label callback wired up
func (s *Shell) newPipeline() *pipeline.Pipeline {
	p := pipeline.New(s.cfg, s.deps.Surface)
	p.SetMode(s.mode)
	if s.deps.Label != nil {
		p.SetLabelFunc(s.deps.Label.SetText)
	}
	return p
}

// Dispatch invokes the handler registered for the named event. Unknown
// events are ignored after shutdown detaches the table.
func (s *Shell) Dispatch(event string) {
	if h, ok := s.handlers[event]; ok {
		h()
	}
}

// Mode returns the current rendering mode
func (s *Shell) Mode() models.RenderMode {
	return s.mode
}

// Pipeline exposes the active pipeline for accessors
func (s *Shell) Pipeline() *pipeline.Pipeline {
	return s.pipe
}

// HasSeriesFiles reports whether the directory holds a loadable series
func (s *Shell) HasSeriesFiles(dir string) bool {
	return s.deps.Loader.HasSeriesFiles(dir)
}

// SelectAndLoadDirectory prompts for a series directory and loads it once
// the user chooses
func (s *Shell) SelectAndLoadDirectory() {
	s.deps.Picker.PickFolder(s.LoadDirectory)
}

// LoadDirectory validates the directory and, when it holds a series,
// replaces the current visualization with the loaded volume rendered in the
// current mode. Validation or load failures raise a modal error and leave
// all state untouched.
func (s *Shell) LoadDirectory(dir string) {
	if !s.deps.Loader.HasSeriesFiles(dir) {
		s.reportError(dicomseries.ErrNoSeriesFiles)
		return
	}

	volume, err := s.deps.Loader.LoadSeries(dir)
	if err != nil {
		s.reportError(err)
		return
	}

	// Importing over an existing visualization starts from a fresh pipeline,
	// so the new volume gets its own camera framing instead of inheriting the
	// previous one
	if s.pipe.VisualizationPresent() {
		s.pipe = s.newPipeline()
	}

	s.pipe.SetVolume(volume)

	r, err := s.pipe.ComputeIntensityRange()
	s.degenerate = errors.Is(err, pipeline.ErrDegenerateRange)
	if err != nil && !s.degenerate {
		s.reportError(err)
		return
	}

	s.configureSlider(r)

	if stats, err := s.pipe.Stats(); err == nil {
		fmt.Printf("Volume intensity: mean %.2f, stddev %.2f, range [%.1f, %.1f]\n",
			stats.Mean, stats.StdDev, stats.Min, stats.Max)
	}

	if err := s.pipe.Rebuild(); err != nil {
		s.reportError(err)
	}
}

// configureSlider sets the slider bounds from the intensity range and moves
// it to the default iso value
func (s *Shell) configureSlider(r models.IntensityRange) {
	if s.deps.Slider == nil || len(r) == 0 {
		return
	}
	mid := float64(r.Mid())
	s.deps.Slider.Configure(float64(r.Min()), float64(r.Max()), mid)
	s.deps.Slider.SetEnabled(s.sliderUsable())
	if s.deps.Label != nil {
		s.deps.Label.SetText(fmt.Sprintf("Iso Value: %d", r.Mid()))
	}
}

// sliderUsable reports whether the slider should accept input: only in
// surface mode, with a volume loaded, and with a non-degenerate range
func (s *Shell) sliderUsable() bool {
	return s.mode == models.SurfaceMode &&
		s.pipe.Volume() != nil &&
		!s.degenerate
}

// ToggleRenderingMode records the new mode and rebuilds the existing volume
// under it. Re-selecting the active mode still rebuilds.
func (s *Shell) ToggleRenderingMode(mode models.RenderMode) {
	s.mode = mode
	s.pipe.SetMode(mode)

	if s.deps.Slider != nil {
		s.deps.Slider.SetEnabled(s.sliderUsable())
	}

	if s.pipe.Volume() == nil {
		return
	}
	if err := s.pipe.Rebuild(); err != nil {
		s.reportError(err)
	}
}

// OnIsoValueChanged is the slider callback: it forwards the new threshold to
// the pipeline, which updates the label and rebuilds
func (s *Shell) OnIsoValueChanged(value float64) {
	if s.pipe.Volume() == nil {
		return
	}
	if err := s.pipe.OnIsoValueChanged(value); err != nil {
		s.reportError(err)
	}
}

// Clear discards the pipeline, camera and actors included, and binds a
// fresh one to the same display surface. The slider returns to zero and the
// canvas is blanked.
func (s *Shell) Clear() {
	s.degenerate = false
	s.pipe = s.newPipeline()

	if s.deps.Slider != nil {
		s.deps.Slider.SetValue(0)
		s.deps.Slider.SetEnabled(false)
	}
	if s.deps.Label != nil {
		s.deps.Label.SetText("Iso Value: 0")
	}

	s.pipe.Present()
}

// OnShutdown detaches the event handlers and then releases the display
// surface, in that order, so no handler can fire against a dead surface
func (s *Shell) OnShutdown() {
	s.handlers = nil
	if r, ok := s.deps.Surface.(SurfaceReleaser); ok {
		r.Release()
	}
}

// reportError shows the error modally, falling back to the log when no
// reporter is attached
func (s *Shell) reportError(err error) {
	if s.deps.Errors != nil {
		s.deps.Errors.ShowError(err)
		return
	}
	log.Printf("Warning: %v", err)
}
