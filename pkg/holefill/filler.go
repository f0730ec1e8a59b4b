// Package holefill synthesizes the missing pixels of an image region by
// repeatedly copying the best-matching texture patches onto the border of
// the hole until nothing is left to fill.
package holefill

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"holefill/internal/models"
	"holefill/pkg/selection"
	"holefill/pkg/similarity"
)

var (
	// ErrStepLimit is returned when the fill needs more patch copies than allowed
	ErrStepLimit = errors.New("fill step limit exceeded")

	// ErrNoProgress is returned when an outer pass leaves the hole unchanged
	ErrNoProgress = errors.New("fill pass made no progress")
)

// Params holds the hole-filling parameters.
type Params struct {
	// PatchHalfWidth is patchL: patches are square with side 2*PatchHalfWidth+1.
	PatchHalfWidth int

	// RandomPatchSD is the spread of the half-normal rank draw used to pick
	// among the best texture patches. Zero always takes the best match.
	RandomPatchSD float64

	// MaxSteps caps the number of patch copies. Zero uses the initial number
	// of hole pixels, which every terminating run stays within.
	MaxSteps int

	// Scorer computes the error surface. Nil uses a PixelScorer on all cores.
	Scorer similarity.Scorer

	// Source drives both the frontier pick and the patch selection. Nil seeds
	// a source from the clock.
	Source rand.Source
}

// ProgressCallback receives the number of hole pixels still to fill at the
// start of every outer pass.
type ProgressCallback func(remaining, initial, pass int)

// Result describes a completed fill
type Result struct {
	// Image is the filled image
	Image *models.Image

	// Passes is the number of outer frontier passes
	Passes int

	// Steps is the number of patches copied
	Steps int

	// Remaining holds the hole size at the start of each pass
	Remaining []int

	// MeanMatchError and MaxMatchError summarize the error values of the
	// selected matches
	MeanMatchError float64
	MaxMatchError  float64

	Duration time.Duration
}

// Filler runs the frontier-driven fill loop
type Filler struct {
	params           *Params
	scorer           similarity.Scorer
	rng              *rand.Rand
	src              rand.Source
	progressCallback ProgressCallback
}

// NewFiller creates a filler with the provided parameters
func NewFiller(params *Params) *Filler {
	src := params.Source
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	scorer := params.Scorer
	if scorer == nil {
		scorer = similarity.NewPixelScorer(0)
	}
	return &Filler{
		params: params,
		scorer: scorer,
		rng:    rand.New(src),
		src:    src,
	}
}

// SetProgressCallback registers a callback invoked once per outer pass
func (f *Filler) SetProgressCallback(callback ProgressCallback) {
	f.progressCallback = callback
}

// Process validates the regions and fills the hole of source.
func (f *Filler) Process(source *models.Image, fill, texture *models.Mask) (*Result, error) {
	setup, err := Prepare(source, fill, texture, f.params.PatchHalfWidth)
	if err != nil {
		return nil, err
	}
	return f.Fill(setup)
}

// Fill runs the fill loop on a prepared setup. setup.Hole and
// setup.Occupancy are mutated in place; on success the occupancy is empty
// and the hole image is returned as the result image.
//
// Each outer pass computes the frontier of the remaining hole and then, until
// the frontier is exhausted, picks a frontier pixel at random, scores its
// partially known patch against the texture, copies the selected patch into
// the unknown cells, and claims the whole patch footprint from both the
// frontier and the hole.
func (f *Filler) Fill(setup *Setup) (*Result, error) {
	start := time.Now()
	half := setup.HalfWidth
	hole := setup.Hole
	occupancy := setup.Occupancy
	selector := selection.NewSelector(f.params.RandomPatchSD, half, f.src)

	initial := occupancy.Count()
	maxSteps := f.params.MaxSteps
	if maxSteps <= 0 {
		maxSteps = initial
	}

	result := &Result{Image: hole}
	var matchErrors []float64

	remaining := initial
	for remaining > 0 {
		result.Passes++
		result.Remaining = append(result.Remaining, remaining)
		if f.progressCallback != nil {
			f.progressCallback(remaining, initial, result.Passes)
		}

		frontier := FindEdge(occupancy)
		candidates := frontier.Indices()

		for len(candidates) > 0 {
			if result.Steps >= maxSteps {
				return nil, fmt.Errorf("%w: %d steps with %d pixels left", ErrStepLimit, result.Steps, occupancy.Count())
			}

			idx := candidates[f.rng.Intn(len(candidates))]
			row, col := idx/occupancy.Cols, idx%occupancy.Cols

			matchErr, err := f.fillAt(hole, occupancy, setup.Texture, selector, row, col, half)
			if err != nil {
				return nil, fmt.Errorf("failed to fill patch at (%d,%d): %w", row, col, err)
			}
			matchErrors = append(matchErrors, matchErr)
			result.Steps++

			occupancy.ClearWindow(row, col, half)
			frontier.ClearWindow(row, col, half)
			candidates = pending(candidates, frontier)
		}

		next := occupancy.Count()
		if next >= remaining {
			return nil, fmt.Errorf("%w: %d pixels left", ErrNoProgress, next)
		}
		remaining = next
	}

	if len(matchErrors) > 0 {
		result.MeanMatchError = stat.Mean(matchErrors, nil)
		result.MaxMatchError = floats.Max(matchErrors)
	}
	result.Duration = time.Since(start)
	return result, nil
}

// fillAt scores, selects and copies one patch centred on (row, col) and
// returns the error value of the chosen match
func (f *Filler) fillAt(hole *models.Image, occupancy *models.Mask, texture *models.Image,
	selector *selection.Selector, row, col, half int) (float64, error) {
	patch, err := hole.Window(row, col, half)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOutOfBounds, err)
	}
	mask, err := occupancy.Window(row, col, half)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOutOfBounds, err)
	}

	surface, err := f.scorer.Score(patch, mask, texture)
	if err != nil {
		return 0, err
	}
	matchRow, matchCol, err := selector.Select(surface)
	if err != nil {
		return 0, err
	}
	if err := CopyPatch(hole, mask, texture, row, col, matchRow, matchCol, half); err != nil {
		return 0, err
	}
	return surface.At(matchRow-half, matchCol-half), nil
}

// pending keeps the candidates still marked in the frontier, preserving order
func pending(candidates []int, frontier *models.Mask) []int {
	kept := candidates[:0]
	for _, idx := range candidates {
		if frontier.Cells[idx] {
			kept = append(kept, idx)
		}
	}
	return kept
}
