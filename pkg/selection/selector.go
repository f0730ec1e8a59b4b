// Package selection picks a match location from an error surface with a
// randomized preference for low-error candidates.
package selection

import (
	"errors"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrEmptySurface is returned when there is no candidate to choose from
var ErrEmptySurface = errors.New("empty error surface")

// Selector draws a rank from a half-normal distribution and returns the
// location holding the error value at that rank of the sorted surface.
// Rank 0 (the best match) is the most likely outcome but not the only one,
// which keeps the same source patch from being copied over and over.
type Selector struct {
	// Spread is the standard deviation of the zero-mean Gaussian whose
	// absolute value gives the rank. Zero always selects the best match.
	Spread float64

	// HalfWidth is added to both coordinates to map a surface position to
	// the centre of the corresponding source patch.
	HalfWidth int

	normal distuv.Normal
}

// NewSelector creates a selector drawing from src. A nil source falls back to
// the global generator of golang.org/x/exp/rand.
func NewSelector(spread float64, halfWidth int, src rand.Source) *Selector {
	return &Selector{
		Spread:    spread,
		HalfWidth: halfWidth,
		normal:    distuv.Normal{Mu: 0, Sigma: spread, Src: src},
	}
}

// Rank draws the sorted-order rank for a surface with count candidates
func (s *Selector) Rank(count int) int {
	if s.Spread <= 0 || count <= 1 {
		return 0
	}
	rank := int(math.Round(math.Abs(s.normal.Rand())))
	return min(rank, count-1)
}

// Select returns the source-image centre (row, col) of the chosen patch.
// Among positions sharing the chosen error value the first in row-major
// order wins.
func (s *Selector) Select(surface *mat.Dense) (row, col int, err error) {
	if surface == nil || surface.IsEmpty() {
		return 0, 0, ErrEmptySurface
	}
	rows, cols := surface.Dims()

	values := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		values = append(values, surface.RawRowView(r)...)
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	target := sorted[s.Rank(len(sorted))]
	for i, v := range values {
		if v == target {
			return i/cols + s.HalfWidth, i%cols + s.HalfWidth, nil
		}
	}

	// Only reachable when the surface holds NaN values
	return 0, 0, errors.New("selected error value not found in surface")
}
