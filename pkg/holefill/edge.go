package holefill

import (
	"holefill/internal/models"
)

// FindEdge returns the frontier of an occupancy mask: the occupied cells with
// at least one unoccupied 4-neighbour. Neighbours outside the grid count as
// filled, so occupied cells on the grid border are always frontier cells.
func FindEdge(occupancy *models.Mask) *models.Mask {
	edge := models.NewMask(occupancy.Rows, occupancy.Cols)
	filled := func(r, c int) bool {
		return !occupancy.In(r, c) || !occupancy.Get(r, c)
	}

	for r := 0; r < occupancy.Rows; r++ {
		for c := 0; c < occupancy.Cols; c++ {
			if !occupancy.Get(r, c) {
				continue
			}
			if filled(r-1, c) || filled(r+1, c) || filled(r, c-1) || filled(r, c+1) {
				edge.Set(r, c, true)
			}
		}
	}
	return edge
}
