package dicomseries

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file with placeholder content in dir
func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("placeholder"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

// TestHasSeriesFiles verifies directory validation across the extension and
// empty-directory cases
func TestHasSeriesFiles(t *testing.T) {
	dir := t.TempDir()

	if HasSeriesFiles(dir) {
		t.Error("Expected false for an empty directory")
	}

	writeFile(t, dir, "notes.txt")
	writeFile(t, dir, "image.jpg")
	if HasSeriesFiles(dir) {
		t.Error("Expected false for a directory without .dcm files")
	}

	writeFile(t, dir, "slice001.dcm")
	if !HasSeriesFiles(dir) {
		t.Error("Expected true once a .dcm file exists")
	}
}

// TestHasSeriesFilesCaseInsensitive verifies the extension match ignores case
func TestHasSeriesFilesCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "SLICE001.DCM")
	if !HasSeriesFiles(dir) {
		t.Error("Expected true for an upper-case .DCM file")
	}
}

// TestHasSeriesFilesUnsetOrMissing verifies the error paths never panic and
// report false
func TestHasSeriesFilesUnsetOrMissing(t *testing.T) {
	if HasSeriesFiles("") {
		t.Error("Expected false for an unset directory")
	}
	if HasSeriesFiles(filepath.Join(t.TempDir(), "does-not-exist")) {
		t.Error("Expected false for a missing directory")
	}
}

// TestHasSeriesFilesIgnoresSubdirectories verifies only regular files count
func TestHasSeriesFilesIgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "nested.dcm"), 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	if HasSeriesFiles(dir) {
		t.Error("Expected false when the only .dcm entry is a directory")
	}
}

// TestLoadSeriesEmptyDirectory verifies the sentinel error for a directory
// with no series files
func TestLoadSeriesEmptyDirectory(t *testing.T) {
	if _, err := LoadSeries(t.TempDir()); !errors.Is(err, ErrNoSeriesFiles) {
		t.Errorf("Expected ErrNoSeriesFiles, got %v", err)
	}
}

// TestLoadSeriesMissingDirectory verifies unreadable directories surface an
// error instead of panicking
func TestLoadSeriesMissingDirectory(t *testing.T) {
	if _, err := LoadSeries(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}

// TestLoadSeriesCorruptFile verifies a non-DICOM .dcm file fails the load
// with a wrapped parse error
func TestLoadSeriesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "corrupt.dcm")

	if _, err := LoadSeries(dir); err == nil {
		t.Error("Expected a parse error for corrupt data")
	}
}
