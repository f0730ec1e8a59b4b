package holefill

import (
	"errors"
	"testing"

	"holefill/internal/models"
)

// rectMask marks the inclusive rectangle [r0,r1] x [c0,c1]
func rectMask(rows, cols, r0, c0, r1, c1 int) *models.Mask {
	m := models.NewMask(rows, cols)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			m.Set(r, c, true)
		}
	}
	return m
}

func TestPrepareBuildsWorkingState(t *testing.T) {
	source := createTestImage(12, 14, 3, func(r, c, z int) float64 { return float64(r + c + z + 1) })
	fill := rectMask(12, 14, 4, 5, 6, 7)
	texture := rectMask(12, 14, 0, 8, 11, 13)

	setup, err := Prepare(source, fill, texture, 2)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	if setup.Texture.Rows != 12 || setup.Texture.Cols != 6 {
		t.Errorf("Expected 12x6 texture, got %dx%d", setup.Texture.Rows, setup.Texture.Cols)
	}
	if got, want := setup.Texture.At(3, 0, 1), source.At(3, 8, 1); got != want {
		t.Errorf("Texture not cropped at the bounding box: expected %f, got %f", want, got)
	}
	if setup.Occupancy.Count() != 9 {
		t.Errorf("Expected 9 occupied cells, got %d", setup.Occupancy.Count())
	}
	if setup.Occupancy == fill {
		t.Error("Occupancy must be a copy of the fill region")
	}

	for r := 0; r < source.Rows; r++ {
		for c := 0; c < source.Cols; c++ {
			for z := 0; z < 3; z++ {
				want := source.At(r, c, z)
				if fill.Get(r, c) {
					want = 0
				}
				if got := setup.Hole.At(r, c, z); got != want {
					t.Errorf("Hole (%d,%d,%d): expected %f, got %f", r, c, z, want, got)
				}
			}
		}
	}
	if source.At(5, 6, 0) == 0 {
		t.Error("Prepare modified the source image")
	}
}

func TestPrepareSetupErrors(t *testing.T) {
	source := models.NewImage(20, 20, 1)
	texture := rectMask(20, 20, 0, 0, 19, 6)

	tests := []struct {
		name    string
		fill    *models.Mask
		texture *models.Mask
		half    int
		check   string
	}{
		{"negative half-width", rectMask(20, 20, 8, 8, 9, 9), texture, -1, CheckPatchSize},
		{"fill shape", rectMask(19, 20, 8, 8, 9, 9), texture, 1, CheckShape},
		{"missing texture", rectMask(20, 20, 8, 8, 9, 9), nil, 1, CheckShape},
		{"empty fill", models.NewMask(20, 20), texture, 1, CheckEmptyFill},
		{"empty texture", rectMask(20, 20, 8, 8, 9, 9), models.NewMask(20, 20), 1, CheckEmptyTexture},
		{"hole near top", rectMask(20, 20, 1, 8, 3, 9), texture, 2, CheckBorder},
		{"hole near left", rectMask(20, 20, 8, 0, 9, 3), texture, 1, CheckBorder},
		{"hole near bottom", rectMask(20, 20, 8, 8, 18, 9), texture, 2, CheckBorder},
		{"hole near right", rectMask(20, 20, 8, 8, 9, 17), texture, 3, CheckBorder},
		{"texture too narrow", rectMask(20, 20, 8, 8, 9, 9), rectMask(20, 20, 0, 0, 19, 2), 1, CheckTextureSize},
		{"texture equals patch", rectMask(20, 20, 8, 8, 9, 9), rectMask(20, 20, 0, 0, 4, 4), 2, CheckTextureSize},
	}

	for _, tt := range tests {
		_, err := Prepare(source, tt.fill, tt.texture, tt.half)
		var setupErr *SetupError
		if !errors.As(err, &setupErr) {
			t.Errorf("%s: expected SetupError, got %v", tt.name, err)
			continue
		}
		if setupErr.Check != tt.check {
			t.Errorf("%s: expected check %s, got %s (%v)", tt.name, tt.check, setupErr.Check, err)
		}
	}
}

func TestPrepareAcceptsHoleAtBorderDistance(t *testing.T) {
	source := models.NewImage(10, 10, 1)
	fill := rectMask(10, 10, 2, 2, 7, 7)
	texture := rectMask(10, 10, 0, 0, 9, 9)

	if _, err := Prepare(source, fill, texture, 2); err != nil {
		t.Errorf("Hole exactly half-width from the border must be accepted: %v", err)
	}
}
