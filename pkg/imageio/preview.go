package imageio

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"

	"holefill/internal/models"
)

// DrawBox outlines the inclusive rectangle b with one-pixel white lines
func DrawBox(img draw.Image, b models.Bounds) {
	white := color.White
	for c := b.MinCol; c <= b.MaxCol; c++ {
		img.Set(c, b.MinRow, white)
		img.Set(c, b.MaxRow, white)
	}
	for r := b.MinRow; r <= b.MaxRow; r++ {
		img.Set(b.MinCol, r, white)
		img.Set(b.MaxCol, r, white)
	}
}

// Preview renders the working image with the texture region outlined, so the
// choice of fill and texture regions can be checked before filling. Images
// larger than maxSide in either dimension are scaled down to fit; maxSide <= 0
// keeps the original size.
func Preview(hole *models.Image, texture models.Bounds, maxSide int) image.Image {
	src := ToImage(hole)
	canvas := image.NewRGBA(src.Bounds())
	draw.Draw(canvas, canvas.Bounds(), src, image.Point{}, draw.Src)
	DrawBox(canvas, texture)

	if maxSide <= 0 || (hole.Cols <= maxSide && hole.Rows <= maxSide) {
		return canvas
	}
	return resize.Thumbnail(uint(maxSide), uint(maxSide), canvas, resize.Bilinear)
}
