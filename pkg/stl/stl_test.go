package stl

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"dicomviewer3d/pkg/contour"
)

// TestSaveToSTL verifies that the STL file can be written
func TestSaveToSTL(t *testing.T) {
	triangles := []contour.Triangle{
		{
			Normal:  [3]float32{0, 0, 1},
			Vertex1: [3]float32{0, 0, 0},
			Vertex2: [3]float32{1, 0, 0},
			Vertex3: [3]float32{0, 1, 0},
		},
	}

	filename := filepath.Join(t.TempDir(), "test.stl")
	if err := SaveToSTL(filename, triangles); err != nil {
		t.Fatalf("Failed to save STL: %v", err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		t.Fatalf("Failed to stat output file: %v", err)
	}

	// STL header: 80 bytes, count: 4 bytes, triangle: 50 bytes
	wantSize := int64(80 + 4 + 50)
	if info.Size() != wantSize {
		t.Errorf("Expected STL file of %d bytes, got %d", wantSize, info.Size())
	}
}

// TestSTLTriangleCount verifies the little-endian count field after the header
func TestSTLTriangleCount(t *testing.T) {
	triangles := make([]contour.Triangle, 7)
	for i := range triangles {
		triangles[i] = contour.Triangle{
			Normal:  [3]float32{0, 0, 1},
			Vertex1: [3]float32{float32(i), 0, 0},
			Vertex2: [3]float32{float32(i) + 1, 0, 0},
			Vertex3: [3]float32{float32(i), 1, 0},
		}
	}

	filename := filepath.Join(t.TempDir(), "count.stl")
	if err := SaveToSTL(filename, triangles); err != nil {
		t.Fatalf("Failed to save STL: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if len(data) < 84 {
		t.Fatalf("File too small: %d bytes", len(data))
	}

	count := binary.LittleEndian.Uint32(data[80:84])
	if count != 7 {
		t.Errorf("Expected triangle count 7, got %d", count)
	}
	if want := 84 + 7*50; len(data) != want {
		t.Errorf("Expected file size %d, got %d", want, len(data))
	}
}

// TestSaveToSTLEmpty verifies that an empty surface writes a valid file
func TestSaveToSTLEmpty(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "empty.stl")
	if err := SaveToSTL(filename, nil); err != nil {
		t.Fatalf("Failed to save empty STL: %v", err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		t.Fatalf("Failed to stat output file: %v", err)
	}
	if info.Size() != 84 {
		t.Errorf("Expected 84-byte file for empty surface, got %d", info.Size())
	}
}
