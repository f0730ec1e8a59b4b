package holefill

import (
	"testing"

	"holefill/internal/models"
)

// maskFromRows builds a mask from strings where '#' marks a true cell
func maskFromRows(rows ...string) *models.Mask {
	m := models.NewMask(len(rows), len(rows[0]))
	for r, line := range rows {
		for c, ch := range line {
			m.Set(r, c, ch == '#')
		}
	}
	return m
}

func assertMaskEqual(t *testing.T, got, want *models.Mask) {
	t.Helper()
	if got.Rows != want.Rows || got.Cols != want.Cols {
		t.Fatalf("Expected %dx%d mask, got %dx%d", want.Rows, want.Cols, got.Rows, got.Cols)
	}
	for r := 0; r < want.Rows; r++ {
		for c := 0; c < want.Cols; c++ {
			if got.Get(r, c) != want.Get(r, c) {
				t.Errorf("Cell (%d,%d): expected %v, got %v", r, c, want.Get(r, c), got.Get(r, c))
			}
		}
	}
}

// TestFindEdgeThinHole verifies that a hole two cells wide is entirely frontier
func TestFindEdgeThinHole(t *testing.T) {
	hole := maskFromRows(
		".......",
		".#####.",
		".#####.",
		".......",
	)
	assertMaskEqual(t, FindEdge(hole), hole)
}

// TestFindEdgeRing verifies that a 5x5 hole has a one-cell boundary ring
func TestFindEdgeRing(t *testing.T) {
	hole := maskFromRows(
		".......",
		".#####.",
		".#####.",
		".#####.",
		".#####.",
		".#####.",
		".......",
	)
	want := maskFromRows(
		".......",
		".#####.",
		".#...#.",
		".#...#.",
		".#...#.",
		".#####.",
		".......",
	)
	assertMaskEqual(t, FindEdge(hole), want)
}

// TestFindEdgeGridBorder verifies that cells outside the grid count as filled
func TestFindEdgeGridBorder(t *testing.T) {
	hole := maskFromRows(
		"#####",
		"#####",
		"#####",
		"#####",
		"#####",
	)
	want := maskFromRows(
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"#####",
	)
	assertMaskEqual(t, FindEdge(hole), want)
}

// TestFindEdgeIgnoresDiagonals checks that only 4-neighbours are considered
func TestFindEdgeIgnoresDiagonals(t *testing.T) {
	hole := maskFromRows(
		".....",
		".###.",
		".###.",
		".###.",
		".....",
	)
	edge := FindEdge(hole)
	if edge.Get(2, 2) {
		t.Error("Centre cell has only occupied 4-neighbours and must not be frontier")
	}
	if !edge.Get(1, 1) {
		t.Error("Corner cell must be frontier")
	}

	// Input is not modified
	if hole.Count() != 9 {
		t.Errorf("FindEdge modified its input, count %d", hole.Count())
	}
}

func TestFindEdgeEmpty(t *testing.T) {
	edge := FindEdge(models.NewMask(4, 6))
	if edge.Any() {
		t.Error("Expected no frontier for an empty hole")
	}
}
