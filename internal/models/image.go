package models

import (
	"fmt"
)

// Image is a multi-channel raster stored as a 1D array in row-major order.
// The value of channel z at (row, col) lives at Pix[(row*Cols+col)*Channels+z].
type Image struct {
	// Pix holds the channel values, one float64 per channel per pixel
	Pix []float64

	// Rows and Cols are the spatial dimensions of the image
	Rows int
	Cols int

	// Channels is the number of values per pixel (1 for gray, 3 for RGB)
	Channels int
}

// NewImage allocates a zeroed image with the given dimensions
func NewImage(rows, cols, channels int) *Image {
	return &Image{
		Pix:      make([]float64, rows*cols*channels),
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
	}
}

// Offset returns the index of channel 0 of pixel (row, col) in Pix
func (m *Image) Offset(row, col int) int {
	return (row*m.Cols + col) * m.Channels
}

// In reports whether (row, col) lies inside the image
func (m *Image) In(row, col int) bool {
	return row >= 0 && row < m.Rows && col >= 0 && col < m.Cols
}

// At returns channel z of pixel (row, col)
func (m *Image) At(row, col, z int) float64 {
	return m.Pix[m.Offset(row, col)+z]
}

// Set stores v in channel z of pixel (row, col)
func (m *Image) Set(row, col, z int, v float64) {
	m.Pix[m.Offset(row, col)+z] = v
}

// Pixel returns the channel values of (row, col). The slice aliases Pix.
func (m *Image) Pixel(row, col int) []float64 {
	off := m.Offset(row, col)
	return m.Pix[off : off+m.Channels]
}

// Clone returns a deep copy of the image
func (m *Image) Clone() *Image {
	out := &Image{
		Pix:      make([]float64, len(m.Pix)),
		Rows:     m.Rows,
		Cols:     m.Cols,
		Channels: m.Channels,
	}
	copy(out.Pix, m.Pix)
	return out
}

// Crop copies the rectangle [row0, row0+rows) x [col0, col0+cols) into a new image.
func (m *Image) Crop(row0, col0, rows, cols int) (*Image, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("crop size must be positive, got %dx%d", rows, cols)
	}
	if !m.In(row0, col0) || !m.In(row0+rows-1, col0+cols-1) {
		return nil, fmt.Errorf("crop %dx%d at (%d,%d) exceeds image %dx%d",
			rows, cols, row0, col0, m.Rows, m.Cols)
	}

	out := NewImage(rows, cols, m.Channels)
	rowLen := cols * m.Channels
	for r := 0; r < rows; r++ {
		src := m.Offset(row0+r, col0)
		copy(out.Pix[r*rowLen:(r+1)*rowLen], m.Pix[src:src+rowLen])
	}
	return out, nil
}

// Window extracts the square patch of side 2*half+1 centred on (row, col).
func (m *Image) Window(row, col, half int) (*Image, error) {
	size := 2*half + 1
	return m.Crop(row-half, col-half, size, size)
}
