package transfer

import (
	"math"
	"testing"
)

// TestOpacityInterpolation verifies linear interpolation between control points
func TestOpacityInterpolation(t *testing.T) {
	f := NewOpacityFunction()
	f.AddPoint(0, 0.0)
	f.AddPoint(100, 1.0)

	if got := f.Value(50); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected 0.5 at midpoint, got %f", got)
	}
	if got := f.Value(25); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("Expected 0.25 at quarter, got %f", got)
	}
}

// TestOpacityClamping verifies that values outside the control points clamp
func TestOpacityClamping(t *testing.T) {
	f := NewOpacityFunction()
	f.AddPoint(10, 0.2)
	f.AddPoint(20, 0.8)

	if got := f.Value(-100); got != 0.2 {
		t.Errorf("Expected clamp to 0.2 below range, got %f", got)
	}
	if got := f.Value(1000); got != 0.8 {
		t.Errorf("Expected clamp to 0.8 above range, got %f", got)
	}
}

// TestOpacityUnsortedInsertion verifies that points may be added in any order
func TestOpacityUnsortedInsertion(t *testing.T) {
	f := NewOpacityFunction()
	f.AddPoint(100, 1.0)
	f.AddPoint(0, 0.0)
	f.AddPoint(50, 0.5)

	if got := f.Value(75); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Expected 0.75 at 75, got %f", got)
	}
}

// TestOpacityReplacePoint verifies that re-adding a scalar replaces the point
func TestOpacityReplacePoint(t *testing.T) {
	f := NewOpacityFunction()
	f.AddPoint(0, 0.0)
	f.AddPoint(10, 0.5)
	f.AddPoint(10, 0.9)

	if got := f.Value(10); got != 0.9 {
		t.Errorf("Expected replaced opacity 0.9, got %f", got)
	}
}

// TestDefaultSoftTissueOpacity verifies the four control points used for
// soft-tissue/bone separation in ray-cast mode
func TestDefaultSoftTissueOpacity(t *testing.T) {
	f := DefaultSoftTissueOpacity()

	cases := []struct {
		scalar float64
		want   float64
	}{
		{0, 0.0},
		{80, 0.1},
		{120, 0.8},
		{255, 1.0},
	}
	for _, c := range cases {
		if got := f.Value(c.scalar); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Expected opacity %f at %f, got %f", c.want, c.scalar, got)
		}
	}

	// Between 80 and 120 the opacity rises steeply
	mid := f.Value(100)
	if mid <= 0.1 || mid >= 0.8 {
		t.Errorf("Expected opacity at 100 strictly between 0.1 and 0.8, got %f", mid)
	}
}

// TestColorInterpolation verifies channel-wise interpolation
func TestColorInterpolation(t *testing.T) {
	f := NewColorFunction()
	f.AddRGBPoint(0, 0, 0, 0)
	f.AddRGBPoint(100, 1, 0.5, 0)

	r, g, b := f.Value(50)
	if math.Abs(r-0.5) > 1e-9 || math.Abs(g-0.25) > 1e-9 || b != 0 {
		t.Errorf("Expected (0.5, 0.25, 0), got (%f, %f, %f)", r, g, b)
	}
}

// TestDefaultGrayscaleColor verifies black at 0 rising to white at 200
func TestDefaultGrayscaleColor(t *testing.T) {
	f := DefaultGrayscaleColor()

	r, g, b := f.Value(0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("Expected black at 0, got (%f, %f, %f)", r, g, b)
	}

	r, g, b = f.Value(200)
	if r != 1 || g != 1 || b != 1 {
		t.Errorf("Expected white at 200, got (%f, %f, %f)", r, g, b)
	}

	// Above 200 stays white
	r, g, b = f.Value(255)
	if r != 1 || g != 1 || b != 1 {
		t.Errorf("Expected white above 200, got (%f, %f, %f)", r, g, b)
	}

	// Midpoint is mid-gray
	r, g, b = f.Value(100)
	if math.Abs(r-0.5) > 1e-9 || r != g || g != b {
		t.Errorf("Expected mid-gray at 100, got (%f, %f, %f)", r, g, b)
	}
}

// TestEmptyFunctions verifies the zero values of empty transfer functions
func TestEmptyFunctions(t *testing.T) {
	of := NewOpacityFunction()
	if got := of.Value(42); got != 0 {
		t.Errorf("Expected 0 from empty opacity function, got %f", got)
	}

	cf := NewColorFunction()
	r, g, b := cf.Value(42)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("Expected black from empty color function, got (%f, %f, %f)", r, g, b)
	}
}
