// Package dicomseries loads a DICOM image series from a directory into a
// scalar volume. Files are matched by their .dcm extension, ordered by
// instance number, rescaled with the slope/intercept from the headers and
// stacked along z. Pixel spacing and slice thickness become the voxel size.
package dicomseries

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dicomviewer3d/internal/models"
)

// ErrNoSeriesFiles is returned when the directory is unset, unreadable or
// contains no files with a .dcm extension
var ErrNoSeriesFiles = errors.New("no DICOM series files in directory")

// HasSeriesFiles reports whether dir is set and contains at least one file
// with a case-insensitive .dcm extension. It never mutates anything, so the
// shell can use it to validate a selection before committing to a load.
func HasSeriesFiles(dir string) bool {
	if dir == "" {
		return false
	}
	files, err := listSeriesFiles(dir)
	return err == nil && len(files) > 0
}

// listSeriesFiles returns the .dcm file paths in dir, sorted by name
func listSeriesFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) == ".dcm" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	// Name order is the fallback when instance numbers are missing
	sort.Strings(files)
	return files, nil
}

// sliceData holds one decoded slice and the ordering and geometry metadata
// read from its headers
type sliceData struct {
	instance   int
	rows, cols int
	rowSpacing float64
	colSpacing float64
	thickness  float64
	pixels     []float64
}

// LoadSeries reads every .dcm file in dir and assembles the slices into a
// single scalar volume. Slices are sorted by instance number; rescale slope
// and intercept are applied so intensities are in modality units.
func LoadSeries(dir string) (*models.Volume, error) {
	files, err := listSeriesFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, ErrNoSeriesFiles
	}

	slices := make([]sliceData, 0, len(files))
	for i, path := range files {
		s, err := loadSlice(path, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to load slice %s: %w", path, err)
		}
		slices = append(slices, s)
	}

	// Instance number defines the anatomical order of the stack
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].instance < slices[j].instance
	})

	width := slices[0].cols
	height := slices[0].rows
	for _, s := range slices {
		if s.cols != width || s.rows != height {
			return nil, fmt.Errorf("inconsistent slice dimensions: %dx%d vs %dx%d",
				s.cols, s.rows, width, height)
		}
	}

	volume := models.NewVolume(width, height, len(slices))
	volume.VoxelSize.X = slices[0].colSpacing
	volume.VoxelSize.Y = slices[0].rowSpacing
	volume.VoxelSize.Z = slices[0].thickness

	for z, s := range slices {
		copy(volume.Data[z*width*height:(z+1)*width*height], s.pixels)
	}

	fmt.Printf("Loaded %d slices with dimensions %dx%d\n", len(slices), width, height)
	return volume, nil
}

// loadSlice parses one DICOM file and extracts the first pixel-data frame
// together with the metadata the stacking step needs. defaultInstance is
// used when the file carries no instance number.
func loadSlice(path string, defaultInstance int) (sliceData, error) {
	dataset, err := dicom.ParseFile(path, nil)
	if err != nil {
		return sliceData{}, err
	}

	s := sliceData{
		instance:   defaultInstance,
		rowSpacing: 1.0,
		colSpacing: 1.0,
		thickness:  1.0,
	}

	if n, ok := intValue(&dataset, tag.InstanceNumber); ok {
		s.instance = n
	}
	if spacing, ok := floatListValue(&dataset, tag.PixelSpacing); ok && len(spacing) >= 2 {
		// PixelSpacing is row spacing followed by column spacing
		s.rowSpacing = spacing[0]
		s.colSpacing = spacing[1]
	}
	if thickness, ok := floatValue(&dataset, tag.SliceThickness); ok && thickness > 0 {
		s.thickness = thickness
	}

	slope := 1.0
	intercept := 0.0
	if v, ok := floatValue(&dataset, tag.RescaleSlope); ok && v != 0 {
		slope = v
	}
	if v, ok := floatValue(&dataset, tag.RescaleIntercept); ok {
		intercept = v
	}

	pixelEl, err := dataset.FindElementByTag(tag.PixelData)
	if err != nil {
		return sliceData{}, fmt.Errorf("no pixel data: %w", err)
	}
	info := dicom.MustGetPixelDataInfo(pixelEl.Value)
	if len(info.Frames) == 0 {
		return sliceData{}, fmt.Errorf("pixel data has no frames")
	}

	frame, err := info.Frames[0].GetNativeFrame()
	if err != nil {
		return sliceData{}, fmt.Errorf("failed to decode frame: %w", err)
	}

	s.rows = frame.Rows
	s.cols = frame.Cols
	s.pixels = make([]float64, frame.Rows*frame.Cols)
	for i, sample := range frame.Data {
		if i >= len(s.pixels) {
			break
		}
		// First sample per pixel; the viewer renders grayscale volumes
		s.pixels[i] = slope*float64(sample[0]) + intercept
	}

	return s, nil
}

// intValue reads an integer header value, tolerating the string encoding
// used by IS elements
func intValue(ds *dicom.Dataset, t tag.Tag) (int, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return 0, false
	}
	switch v := el.Value.GetValue().(type) {
	case []int:
		if len(v) > 0 {
			return v[0], true
		}
	case []string:
		if len(v) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(v[0])); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// floatValue reads a decimal header value, tolerating the string encoding
// used by DS elements
func floatValue(ds *dicom.Dataset, t tag.Tag) (float64, bool) {
	vals, ok := floatListValue(ds, t)
	if !ok || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// floatListValue reads a multi-valued decimal header value
func floatListValue(ds *dicom.Dataset, t tag.Tag) ([]float64, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return nil, false
	}
	switch v := el.Value.GetValue().(type) {
	case []float64:
		return v, len(v) > 0
	case []string:
		out := make([]float64, 0, len(v))
		for _, s := range v {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, false
			}
			out = append(out, f)
		}
		return out, len(out) > 0
	}
	return nil, false
}
