package models

import (
	"testing"
)

func TestImageCropAndWindow(t *testing.T) {
	img := NewImage(5, 6, 2)
	for i := range img.Pix {
		img.Pix[i] = float64(i)
	}

	crop, err := img.Crop(1, 2, 2, 3)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if crop.Rows != 2 || crop.Cols != 3 || crop.Channels != 2 {
		t.Fatalf("Expected 2x3x2 crop, got %dx%dx%d", crop.Rows, crop.Cols, crop.Channels)
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			for z := 0; z < 2; z++ {
				if crop.At(r, c, z) != img.At(r+1, c+2, z) {
					t.Errorf("Crop (%d,%d,%d): expected %f, got %f", r, c, z, img.At(r+1, c+2, z), crop.At(r, c, z))
				}
			}
		}
	}

	// The crop is a copy
	crop.Set(0, 0, 0, -1)
	if img.At(1, 2, 0) == -1 {
		t.Error("Expected crop not to alias the source")
	}

	win, err := img.Window(2, 2, 1)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if win.Rows != 3 || win.Cols != 3 || win.At(1, 1, 1) != img.At(2, 2, 1) {
		t.Error("Expected window centred on (2,2)")
	}

	if _, err := img.Window(0, 2, 1); err == nil {
		t.Error("Expected error for window crossing the top border")
	}
	if _, err := img.Crop(4, 4, 2, 3); err == nil {
		t.Error("Expected error for crop exceeding the image")
	}
	if _, err := img.Crop(0, 0, 0, 3); err == nil {
		t.Error("Expected error for empty crop")
	}
}

func TestImagePixelAliases(t *testing.T) {
	img := NewImage(2, 2, 3)
	img.Pixel(1, 0)[2] = 7
	if img.At(1, 0, 2) != 7 {
		t.Errorf("Expected 7, got %f", img.At(1, 0, 2))
	}

	clone := img.Clone()
	clone.Set(1, 0, 2, 0)
	if img.At(1, 0, 2) != 7 {
		t.Error("Expected clone to be independent")
	}
}

func TestMaskBounds(t *testing.T) {
	m := NewMask(6, 8)
	if _, ok := m.Bounds(); ok {
		t.Error("Expected empty mask to have no bounds")
	}

	m.Set(2, 5, true)
	m.Set(4, 1, true)
	b, ok := m.Bounds()
	if !ok {
		t.Fatal("Expected bounds")
	}
	expected := Bounds{MinRow: 2, MaxRow: 4, MinCol: 1, MaxCol: 5}
	if b != expected {
		t.Errorf("Expected %+v, got %+v", expected, b)
	}
	if b.Height() != 3 || b.Width() != 5 {
		t.Errorf("Expected 3x5, got %dx%d", b.Height(), b.Width())
	}
	if m.Count() != 2 || !m.Any() {
		t.Errorf("Expected 2 cells, got %d", m.Count())
	}
	if idx := m.Indices(); len(idx) != 2 || idx[0] != 2*8+5 || idx[1] != 4*8+1 {
		t.Errorf("Expected row-major indices [21 33], got %v", idx)
	}
}

func TestMaskWindow(t *testing.T) {
	m := NewMask(5, 5)
	m.Set(1, 1, true)
	m.Set(3, 3, true)

	win, err := m.Window(2, 2, 1)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if !win.Get(0, 0) || !win.Get(2, 2) || win.Count() != 2 {
		t.Error("Expected corners of the window to be set")
	}

	if _, err := m.Window(4, 2, 1); err == nil {
		t.Error("Expected error for window crossing the bottom border")
	}
}

func TestMaskClearWindow(t *testing.T) {
	m := NewMask(4, 4)
	for i := range m.Cells {
		m.Cells[i] = true
	}

	if n := m.ClearWindow(0, 0, 1); n != 4 {
		t.Errorf("Expected 4 cells cleared at the corner, got %d", n)
	}
	if n := m.ClearWindow(0, 0, 1); n != 0 {
		t.Errorf("Expected nothing left to clear, got %d", n)
	}
	// (1,1) is already clear
	if n := m.ClearWindow(2, 2, 1); n != 8 {
		t.Errorf("Expected 8 cells cleared, got %d", n)
	}
	if m.Count() != 4 {
		t.Errorf("Expected 4 cells left, got %d", m.Count())
	}
}
