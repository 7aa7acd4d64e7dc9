package main

import (
	"flag"
	"fmt"
	"image"
	"log"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"dicomviewer3d/internal/app"
	"dicomviewer3d/pkg/config"
)

// renderCanvas adapts a Fyne canvas image to the pipeline display surface
type renderCanvas struct {
	image  *canvas.Image
	width  int
	height int
}

func (c *renderCanvas) Size() (int, int) {
	return c.width, c.height
}

func (c *renderCanvas) Present(frame *image.RGBA) {
	c.image.Image = frame
	c.image.Refresh()
}

func (c *renderCanvas) Release() {
	c.image.Image = nil
}

// folderPicker adapts the Fyne folder-open dialog to the shell interface
type folderPicker struct {
	window fyne.Window
}

func (p *folderPicker) PickFolder(callback func(dir string)) {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			callback("")
			return
		}
		callback(uri.Path())
	}, p.window)
}

// errorReporter shows errors as modal dialogs
type errorReporter struct {
	window fyne.Window
}

func (r *errorReporter) ShowError(err error) {
	dialog.ShowError(err, r.window)
}

// isoSlider adapts the Fyne slider to the shell interface
type isoSlider struct {
	*widget.Slider
}

func (s *isoSlider) Configure(min, max, value float64) {
	s.Min = min
	s.Max = max
	s.SetValue(value)
	s.Refresh()
}

func (s *isoSlider) SetEnabled(enabled bool) {
	if enabled {
		s.Enable()
	} else {
		s.Disable()
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fyneApp := fyneapp.New()
	window := fyneApp.NewWindow("DICOM Volume Viewer")
	window.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))
	window.SetFixedSize(true)

	view := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	view.FillMode = canvas.ImageFillContain
	view.SetMinSize(fyne.NewSize(400, 300))

	surface := &renderCanvas{
		image:  view,
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}

	slider := &isoSlider{Slider: widget.NewSlider(0, 255)}
	slider.Disable()
	label := widget.NewLabel("Iso Value: 0")

	shell := app.New(cfg, app.Deps{
		Picker:  &folderPicker{window: window},
		Errors:  &errorReporter{window: window},
		Slider:  slider,
		Label:   label,
		Surface: surface,
	})

	slider.OnChanged = shell.OnIsoValueChanged

	importButton := widget.NewButton("Import DICOM Series", func() {
		shell.Dispatch(app.EventImport)
	})
	clearButton := widget.NewButton("Clear", func() {
		shell.Dispatch(app.EventClear)
	})
	exportButton := widget.NewButton("Export STL", func() {
		saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := shell.Pipeline().ExportSurface(path); err != nil {
				dialog.ShowError(err, window)
				return
			}
			fmt.Printf("Surface exported to %s\n", path)
		}, window)
		saveDialog.SetFileName("surface.stl")
		saveDialog.Show()
	})

	modeGroup := widget.NewRadioGroup([]string{"Surface", "Ray Cast"}, func(selected string) {
		if selected == "Ray Cast" {
			shell.Dispatch(app.EventRayCastMode)
			return
		}
		shell.Dispatch(app.EventSurfaceMode)
	})
	modeGroup.Horizontal = true
	modeGroup.SetSelected("Surface")

	controls := container.NewVBox(
		container.NewHBox(importButton, clearButton, exportButton, modeGroup),
		container.NewBorder(nil, nil, label, nil, slider),
	)

	window.SetContent(container.NewBorder(controls, nil, nil, nil, view))
	window.SetOnClosed(shell.OnShutdown)

	window.ShowAndRun()
}
