// Package visualization exports 2-D cross sections of a loaded scalar
// volume as grayscale images, one slice per position along a chosen axis.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"dicomviewer3d/internal/models"
)

// Viewer extracts and saves cross sections of a scalar volume
type Viewer struct {
	volume *models.Volume

	// min and span normalize intensities into the 16-bit grayscale range
	min  float64
	span float64
}

// NewViewer creates a viewer over the given volume
func NewViewer(v *models.Volume) *Viewer {
	min, max := v.ScalarRange()
	span := max - min
	if span <= 0 {
		span = 1
	}
	return &Viewer{volume: v, min: min, span: span}
}

// gray converts a voxel intensity to a 16-bit grayscale value
func (v *Viewer) gray(value float64) color.Gray16 {
	n := (value - v.min) / v.span
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	return color.Gray16{Y: uint16(n * 65535)}
}

// ExtractSlice extracts a 2-D cross section along the given axis at the
// given position
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	vol := v.volume

	switch axis {
	case "x", "X":
		// YZ plane
		if position >= vol.Width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, vol.Width)
		}
		img := image.NewGray16(image.Rect(0, 0, vol.Depth, vol.Height))
		for y := 0; y < vol.Height; y++ {
			for z := 0; z < vol.Depth; z++ {
				img.SetGray16(z, y, v.gray(vol.At(position, y, z)))
			}
		}
		return img, nil

	case "y", "Y":
		// XZ plane
		if position >= vol.Height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, vol.Height)
		}
		img := image.NewGray16(image.Rect(0, 0, vol.Width, vol.Depth))
		for z := 0; z < vol.Depth; z++ {
			for x := 0; x < vol.Width; x++ {
				img.SetGray16(x, z, v.gray(vol.At(x, position, z)))
			}
		}
		return img, nil

	case "z", "Z":
		// XY plane
		if position >= vol.Depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, vol.Depth)
		}
		img := image.NewGray16(image.Rect(0, 0, vol.Width, vol.Height))
		for y := 0; y < vol.Height; y++ {
			for x := 0; x < vol.Width; x++ {
				img.SetGray16(x, y, v.gray(vol.At(x, y, position)))
			}
		}
		return img, nil

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}
}

// SaveSlice saves an extracted slice as a JPEG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the given axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.volume.Width
	case "y", "Y":
		maxPos = v.volume.Height
	case "z", "Z":
		maxPos = v.volume.Depth
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
