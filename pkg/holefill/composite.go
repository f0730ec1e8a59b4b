package holefill

import (
	"errors"
	"fmt"

	"holefill/internal/models"
)

var (
	// ErrOutOfBounds is returned when a patch window leaves its image
	ErrOutOfBounds = errors.New("patch window out of bounds")

	// ErrShapeMismatch is returned when a mask does not match the patch size
	// or the two images disagree on channel count
	ErrShapeMismatch = errors.New("patch shape mismatch")
)

// CopyPatch copies the pixels of the source patch centred on
// (matchRow, matchCol) into dst around (targetRow, targetCol), but only where
// mask is true. Cells where mask is false already hold valid data and are
// left untouched. Nothing is written when either window leaves its image.
func CopyPatch(dst *models.Image, mask *models.Mask, src *models.Image,
	targetRow, targetCol, matchRow, matchCol, half int) error {
	size := 2*half + 1
	if mask.Rows != size || mask.Cols != size {
		return fmt.Errorf("%w: mask is %dx%d, patch side is %d", ErrShapeMismatch, mask.Rows, mask.Cols, size)
	}
	if dst.Channels != src.Channels {
		return fmt.Errorf("%w: target has %d channels, source has %d", ErrShapeMismatch, dst.Channels, src.Channels)
	}
	if !dst.In(targetRow-half, targetCol-half) || !dst.In(targetRow+half, targetCol+half) {
		return fmt.Errorf("%w: target centre (%d,%d) in %dx%d image", ErrOutOfBounds, targetRow, targetCol, dst.Rows, dst.Cols)
	}
	if !src.In(matchRow-half, matchCol-half) || !src.In(matchRow+half, matchCol+half) {
		return fmt.Errorf("%w: source centre (%d,%d) in %dx%d image", ErrOutOfBounds, matchRow, matchCol, src.Rows, src.Cols)
	}

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if !mask.Get(i, j) {
				continue
			}
			copy(dst.Pixel(targetRow-half+i, targetCol-half+j), src.Pixel(matchRow-half+i, matchCol-half+j))
		}
	}
	return nil
}
