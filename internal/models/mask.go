package models

import (
	"fmt"
)

// Mask is a boolean grid stored row-major with a row stride of Cols.
// For occupancy masks true means the cell still needs to be filled.
type Mask struct {
	Cells []bool
	Rows  int
	Cols  int
}

// Bounds is an inclusive bounding box of the true cells of a mask
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Height returns the number of rows covered by the box
func (b Bounds) Height() int { return b.MaxRow - b.MinRow + 1 }

// Width returns the number of columns covered by the box
func (b Bounds) Width() int { return b.MaxCol - b.MinCol + 1 }

// NewMask allocates an all-false mask
func NewMask(rows, cols int) *Mask {
	return &Mask{
		Cells: make([]bool, rows*cols),
		Rows:  rows,
		Cols:  cols,
	}
}

// In reports whether (row, col) lies inside the mask
func (m *Mask) In(row, col int) bool {
	return row >= 0 && row < m.Rows && col >= 0 && col < m.Cols
}

// Get returns the cell at (row, col)
func (m *Mask) Get(row, col int) bool {
	return m.Cells[row*m.Cols+col]
}

// Set stores v at (row, col)
func (m *Mask) Set(row, col int, v bool) {
	m.Cells[row*m.Cols+col] = v
}

// Count returns the number of true cells
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Cells {
		if v {
			n++
		}
	}
	return n
}

// Any reports whether at least one cell is true
func (m *Mask) Any() bool {
	for _, v := range m.Cells {
		if v {
			return true
		}
	}
	return false
}

// Indices returns the flat indices of all true cells in row-major order
func (m *Mask) Indices() []int {
	var idx []int
	for i, v := range m.Cells {
		if v {
			idx = append(idx, i)
		}
	}
	return idx
}

// Clone returns a deep copy of the mask
func (m *Mask) Clone() *Mask {
	out := &Mask{
		Cells: make([]bool, len(m.Cells)),
		Rows:  m.Rows,
		Cols:  m.Cols,
	}
	copy(out.Cells, m.Cells)
	return out
}

// Bounds returns the bounding box of the true cells. ok is false for an empty mask.
func (m *Mask) Bounds() (b Bounds, ok bool) {
	b = Bounds{MinRow: m.Rows, MinCol: m.Cols, MaxRow: -1, MaxCol: -1}
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if !m.Cells[r*m.Cols+c] {
				continue
			}
			b.MinRow = min(b.MinRow, r)
			b.MaxRow = max(b.MaxRow, r)
			b.MinCol = min(b.MinCol, c)
			b.MaxCol = max(b.MaxCol, c)
		}
	}
	return b, b.MaxRow >= 0
}

// Window copies the square sub-mask of side 2*half+1 centred on (row, col).
func (m *Mask) Window(row, col, half int) (*Mask, error) {
	size := 2*half + 1
	if !m.In(row-half, col-half) || !m.In(row+half, col+half) {
		return nil, fmt.Errorf("window of half-width %d at (%d,%d) exceeds mask %dx%d",
			half, row, col, m.Rows, m.Cols)
	}

	out := NewMask(size, size)
	for r := 0; r < size; r++ {
		src := (row-half+r)*m.Cols + col - half
		copy(out.Cells[r*size:(r+1)*size], m.Cells[src:src+size])
	}
	return out, nil
}

// ClearWindow sets every cell of the square of side 2*half+1 centred on
// (row, col) to false, clipping at the mask border. It returns the number of
// cells that flipped from true to false.
func (m *Mask) ClearWindow(row, col, half int) int {
	r0, r1 := max(row-half, 0), min(row+half, m.Rows-1)
	c0, c1 := max(col-half, 0), min(col+half, m.Cols-1)

	cleared := 0
	for r := r0; r <= r1; r++ {
		line := m.Cells[r*m.Cols : (r+1)*m.Cols]
		for c := c0; c <= c1; c++ {
			if line[c] {
				line[c] = false
				cleared++
			}
		}
	}
	return cleared
}
