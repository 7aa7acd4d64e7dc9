// Package stl writes extracted iso-surfaces to binary STL files so the
// current contour surface can be saved from the viewer.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"dicomviewer3d/pkg/contour"
)

// headerText is placed at the start of the 80-byte binary STL header
const headerText = "dicomviewer3d iso-surface export"

// Write encodes the triangles as binary STL to the given file
func Write(file *os.File, triangles []contour.Triangle) error {
	w := bufio.NewWriter(file)

	// 80-byte header
	var header [80]byte
	copy(header[:], headerText)
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write STL header: %w", err)
	}

	// Triangle count
	if err := binary.Write(w, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	// 50 bytes per triangle: normal, three vertices, attribute count
	for i, t := range triangles {
		record := [12]float32{
			t.Normal[0], t.Normal[1], t.Normal[2],
			t.Vertex1[0], t.Vertex1[1], t.Vertex1[2],
			t.Vertex2[0], t.Vertex2[1], t.Vertex2[2],
			t.Vertex3[0], t.Vertex3[1], t.Vertex3[2],
		}
		if err := binary.Write(w, binary.LittleEndian, record); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("failed to write attribute bytes of triangle %d: %w", i, err)
		}
	}

	return w.Flush()
}

// SaveToSTL writes the triangles to a binary STL file at the given path
func SaveToSTL(filename string, triangles []contour.Triangle) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create STL file: %w", err)
	}
	defer file.Close()

	return Write(file, triangles)
}
