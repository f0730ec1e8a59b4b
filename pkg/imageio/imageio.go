// Package imageio converts between image files and the float rasters used by
// the fill engine, and renders the region preview.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"holefill/internal/models"
)

// Load reads an image file and converts it to a raster with the given number
// of channels (1 for luminance, 3 for RGB). Values are in [0, 255]. Every
// format imported by this package (gif, jpeg, png, bmp, tiff) is decodable.
func Load(path string, channels int) (*models.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return FromImage(img, channels)
}

// FromImage converts an image.Image into a raster with 1 or 3 channels
func FromImage(img image.Image, channels int) (*models.Image, error) {
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("unsupported channel count %d (must be 1 or 3)", channels)
	}

	bounds := img.Bounds()
	out := models.NewImage(bounds.Dy(), bounds.Dx(), channels)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := out.Pixel(y-bounds.Min.Y, x-bounds.Min.X)
			// Alpha is dropped without darkening translucent pixels
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if channels == 1 {
				c.A = 255
				gray := color.GrayModel.Convert(c).(color.Gray)
				px[0] = float64(gray.Y)
				continue
			}
			px[0] = float64(c.R)
			px[1] = float64(c.G)
			px[2] = float64(c.B)
		}
	}
	return out, nil
}

// ToImage converts a raster back to an 8-bit image, rounding and clamping
// each value to [0, 255]
func ToImage(m *models.Image) image.Image {
	rect := image.Rect(0, 0, m.Cols, m.Rows)
	if m.Channels == 1 {
		img := image.NewGray(rect)
		for r := 0; r < m.Rows; r++ {
			for c := 0; c < m.Cols; c++ {
				img.SetGray(c, r, color.Gray{Y: toByte(m.At(r, c, 0))})
			}
		}
		return img
	}

	img := image.NewRGBA(rect)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			px := m.Pixel(r, c)
			rgba := color.RGBA{A: 255}
			rgba.R = toByte(px[0])
			if len(px) >= 3 {
				rgba.G = toByte(px[1])
				rgba.B = toByte(px[2])
			} else {
				rgba.G, rgba.B = rgba.R, rgba.R
			}
			img.SetRGBA(c, r, rgba)
		}
	}
	return img
}

func toByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// Save writes the raster to path in the format given by its extension
// (.jpg/.jpeg, .png, .gif, .bmp, .tif/.tiff). The image is encoded into a
// temporary file next to path and renamed into place, so a failed write
// never leaves a partial output file behind.
func Save(path string, m *models.Image) error {
	return SaveImage(path, ToImage(m))
}

// SaveImage encodes img to path, choosing the format from the extension
func SaveImage(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := encode(tmp, img, filepath.Ext(path)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func encode(file *os.File, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	case ".png":
		return png.Encode(file, img)
	case ".gif":
		return gif.Encode(file, img, nil)
	case ".bmp":
		return bmp.Encode(file, img)
	case ".tif", ".tiff":
		return tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}
