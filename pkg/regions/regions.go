// Package regions loads, saves and builds the fill and texture region masks.
// Masks are stored as grayscale PNG files where any non-zero pixel selects
// the cell.
package regions

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"holefill/internal/models"
)

const (
	// DefaultFillFile is the file name of the fill region artifact
	DefaultFillFile = "fill_region.png"

	// DefaultTextureFile is the file name of the texture region artifact
	DefaultTextureFile = "texture_region.png"
)

// ErrMissingRegions is returned when either region artifact is absent
var ErrMissingRegions = errors.New("region masks not found, specify the fill and texture regions with `holefill regions` first")

// Load reads a mask from an image file. Pixels with non-zero luminance are true.
func Load(path string) (*models.Mask, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mask %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage converts an image to a mask, selecting pixels with non-zero luminance
func FromImage(img image.Image) *models.Mask {
	bounds := img.Bounds()
	m := models.NewMask(bounds.Dy(), bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			m.Set(y-bounds.Min.Y, x-bounds.Min.X, gray.Y > 0)
		}
	}
	return m
}

// ToImage renders a mask as a black and white image
func ToImage(m *models.Mask) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for i, v := range m.Cells {
		if v {
			img.Pix[(i/m.Cols)*img.Stride+i%m.Cols] = 255
		}
	}
	return img
}

// Save writes a mask as a PNG file, creating the parent directory if needed
func Save(path string, m *models.Mask) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create mask directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mask %s: %w", path, err)
	}
	if err := png.Encode(file, ToImage(m)); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode mask %s: %w", path, err)
	}
	return file.Close()
}

// LoadPair loads the fill and texture masks. Both files must exist; if
// either is missing ErrMissingRegions is returned and nothing is loaded.
func LoadPair(fillPath, texturePath string) (fill, texture *models.Mask, err error) {
	for _, path := range []string{fillPath, texturePath} {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil, fmt.Errorf("%w (missing %s)", ErrMissingRegions, path)
			}
			return nil, nil, err
		}
	}

	if fill, err = Load(fillPath); err != nil {
		return nil, nil, err
	}
	if texture, err = Load(texturePath); err != nil {
		return nil, nil, err
	}
	return fill, texture, nil
}
