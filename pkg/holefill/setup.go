package holefill

import (
	"fmt"

	"holefill/internal/models"
)

// Names of the checks performed by Prepare
const (
	CheckPatchSize    = "patch-size"
	CheckShape        = "region-shape"
	CheckEmptyFill    = "empty-fill-region"
	CheckEmptyTexture = "empty-texture-region"
	CheckBorder       = "hole-border-distance"
	CheckTextureSize  = "texture-size"
)

// SetupError reports a request that cannot be satisfied with the current
// parameters. It is returned before any filling work starts.
type SetupError struct {
	Check  string
	Detail string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup check %s failed: %s", e.Check, e.Detail)
}

// Setup holds the validated inputs of a fill run
type Setup struct {
	// Hole is the working image: the source with every fill cell zeroed
	Hole *models.Image

	// Occupancy marks the cells that still need to be filled
	Occupancy *models.Mask

	// Texture is the bounding box of the texture region cut from the source
	Texture       *models.Image
	TextureBounds models.Bounds

	// FillBounds is the bounding box of the initial hole
	FillBounds models.Bounds

	HalfWidth int
}

// Prepare validates the fill and texture regions against the source image
// and builds the working state of a fill run.
//
// The hole must stay at least half pixels away from every image border and
// the texture bounding box must be strictly larger than one patch of side
// 2*half+1 in both dimensions.
func Prepare(source *models.Image, fill, texture *models.Mask, half int) (*Setup, error) {
	if half < 0 {
		return nil, &SetupError{CheckPatchSize, fmt.Sprintf("patch half-width must be non-negative, got %d", half)}
	}
	regions := []struct {
		name string
		mask *models.Mask
	}{{"fill", fill}, {"texture", texture}}
	for _, region := range regions {
		m := region.mask
		if m == nil || m.Rows != source.Rows || m.Cols != source.Cols {
			return nil, &SetupError{CheckShape, fmt.Sprintf("%s region does not match the %dx%d image", region.name, source.Rows, source.Cols)}
		}
	}

	fillBounds, ok := fill.Bounds()
	if !ok {
		return nil, &SetupError{CheckEmptyFill, "fill region selects no pixels"}
	}
	texBounds, ok := texture.Bounds()
	if !ok {
		return nil, &SetupError{CheckEmptyTexture, "texture region selects no pixels"}
	}

	if fillBounds.MinRow < half || fillBounds.MaxRow >= source.Rows-half ||
		fillBounds.MinCol < half || fillBounds.MaxCol >= source.Cols-half {
		return nil, &SetupError{CheckBorder, fmt.Sprintf(
			"hole rows %d-%d, cols %d-%d is too close to the edge of the %dx%d image for patch half-width %d",
			fillBounds.MinRow, fillBounds.MaxRow, fillBounds.MinCol, fillBounds.MaxCol, source.Rows, source.Cols, half)}
	}

	size := 2*half + 1
	if texBounds.Height() <= size || texBounds.Width() <= size {
		return nil, &SetupError{CheckTextureSize, fmt.Sprintf(
			"texture image %dx%d is not larger than patch size %d", texBounds.Height(), texBounds.Width(), size)}
	}

	texIm, err := source.Crop(texBounds.MinRow, texBounds.MinCol, texBounds.Height(), texBounds.Width())
	if err != nil {
		return nil, fmt.Errorf("failed to crop texture: %w", err)
	}

	hole := source.Clone()
	for _, i := range fill.Indices() {
		px := hole.Pix[i*hole.Channels : (i+1)*hole.Channels]
		for z := range px {
			px[z] = 0
		}
	}

	return &Setup{
		Hole:          hole,
		Occupancy:     fill.Clone(),
		Texture:       texIm,
		TextureBounds: texBounds,
		FillBounds:    fillBounds,
		HalfWidth:     half,
	}, nil
}
