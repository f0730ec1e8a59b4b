// Package similarity computes masked sum-of-squared-differences error surfaces
// between a partially known patch and every candidate position of a texture.
package similarity

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"holefill/internal/models"
)

var (
	// ErrShapeMismatch is returned when a patch, its mask and the texture disagree on shape.
	ErrShapeMismatch = errors.New("patch shape mismatch")

	// ErrTextureTooSmall is returned when the texture is not strictly larger than the patch.
	ErrTextureTooSmall = errors.New("texture smaller than patch")
)

// Scorer produces an error surface of shape (R-2*half) x (Cc-2*half) for a
// patch of side 2*half+1 against an R x Cc texture. Mask cells that are true
// mark unknown patch pixels and are excluded from the score.
type Scorer interface {
	Score(patch *models.Image, mask *models.Mask, texture *models.Image) (*mat.Dense, error)
}

// PixelScorer compares every known patch pixel against the single texture
// pixel at the candidate position (r, c):
//
//	E[r][c] = sum over known (x,y), sum over z of (T[r][c][z] - P[x][y][z])^2
//
// The known patch values are gathered once per call and the differences are
// accumulated in the same order as the direct loop, so both give identical
// surfaces for any float64 input.
type PixelScorer struct {
	// Workers is the number of goroutines sharing the rows of the surface.
	// Zero or negative uses runtime.NumCPU().
	Workers int

	// Naive switches to the direct quadruple loop. It is slow and only
	// meant as a reference.
	Naive bool
}

// NewPixelScorer creates a scorer that splits rows across the given number of workers
func NewPixelScorer(workers int) *PixelScorer {
	return &PixelScorer{Workers: workers}
}

// Score implements Scorer
func (s *PixelScorer) Score(patch *models.Image, mask *models.Mask, texture *models.Image) (*mat.Dense, error) {
	half, err := checkShapes(patch, mask, texture)
	if err != nil {
		return nil, err
	}

	rows := texture.Rows - 2*half
	cols := texture.Cols - 2*half
	out := make([]float64, rows*cols)

	if s.Naive {
		naiveSSD(out, rows, cols, patch, mask, texture)
		return mat.NewDense(rows, cols, out), nil
	}

	known := knownValues(patch, mask)
	ch := texture.Channels

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, rows)
	rowsPerWorker := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, rows)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for r := start; r < end; r++ {
				for c := 0; c < cols; c++ {
					px := texture.Pix[texture.Offset(r, c) : texture.Offset(r, c)+ch]
					var sum float64
					for i := 0; i < len(known); i += ch {
						for z, t := range px {
							d := t - known[i+z]
							sum += d * d
						}
					}
					out[r*cols+c] = sum
				}
			}
		}(start, end)
	}
	wg.Wait()

	return mat.NewDense(rows, cols, out), nil
}

// naiveSSD is the literal definition, kept as the reference implementation
func naiveSSD(out []float64, rows, cols int, patch *models.Image, mask *models.Mask, texture *models.Image) {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum float64
			for x := 0; x < patch.Rows; x++ {
				for y := 0; y < patch.Cols; y++ {
					if mask.Get(x, y) {
						continue
					}
					for z := 0; z < patch.Channels; z++ {
						d := texture.At(r, c, z) - patch.At(x, y, z)
						sum += d * d
					}
				}
			}
			out[r*cols+c] = sum
		}
	}
}

// knownValues returns the channel values of the known patch pixels in
// row-major order, flattened
func knownValues(patch *models.Image, mask *models.Mask) []float64 {
	values := make([]float64, 0, len(patch.Pix))
	for i, unknown := range mask.Cells {
		if !unknown {
			values = append(values, patch.Pix[i*patch.Channels:(i+1)*patch.Channels]...)
		}
	}
	return values
}

// checkShapes validates the scorer inputs and returns the patch half-width
func checkShapes(patch *models.Image, mask *models.Mask, texture *models.Image) (int, error) {
	if patch == nil || mask == nil || texture == nil {
		return 0, fmt.Errorf("%w: nil input", ErrShapeMismatch)
	}
	if patch.Rows != patch.Cols || patch.Rows%2 == 0 {
		return 0, fmt.Errorf("%w: patch must be square with odd side, got %dx%d",
			ErrShapeMismatch, patch.Rows, patch.Cols)
	}
	if mask.Rows != patch.Rows || mask.Cols != patch.Cols {
		return 0, fmt.Errorf("%w: patch is %dx%d but mask is %dx%d",
			ErrShapeMismatch, patch.Rows, patch.Cols, mask.Rows, mask.Cols)
	}
	if texture.Channels != patch.Channels {
		return 0, fmt.Errorf("%w: patch has %d channels, texture has %d",
			ErrShapeMismatch, patch.Channels, texture.Channels)
	}

	size := patch.Rows
	if texture.Rows <= size || texture.Cols <= size {
		return 0, fmt.Errorf("%w: texture %dx%d, patch %dx%d",
			ErrTextureTooSmall, texture.Rows, texture.Cols, size, size)
	}
	return (size - 1) / 2, nil
}
