package regions

import (
	"fmt"
	"strconv"
	"strings"

	"holefill/internal/models"
)

// Point is a vertex in image coordinates: X is the column, Y the row
type Point struct {
	X float64
	Y float64
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// Polygon rasterises a closed polygon into a rows x cols mask. A pixel is
// selected when its centre (col+0.5, row+0.5) lies inside the polygon, so a
// vertex at (x, y) sits on the top-left corner of pixel (y, x).
func Polygon(rows, cols int, vertices []Point) (*models.Mask, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(vertices))
	}

	m := models.NewMask(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if PointInPolygon(Point{X: float64(c) + 0.5, Y: float64(r) + 0.5}, vertices) {
				m.Set(r, c, true)
			}
		}
	}
	return m, nil
}

// Rect selects the inclusive pixel rectangle b, clipped to the mask
func Rect(rows, cols int, b models.Bounds) (*models.Mask, error) {
	if b.MaxRow < b.MinRow || b.MaxCol < b.MinCol {
		return nil, fmt.Errorf("empty rectangle rows %d-%d, cols %d-%d", b.MinRow, b.MaxRow, b.MinCol, b.MaxCol)
	}

	m := models.NewMask(rows, cols)
	for r := max(b.MinRow, 0); r <= min(b.MaxRow, rows-1); r++ {
		for c := max(b.MinCol, 0); c <= min(b.MaxCol, cols-1); c++ {
			m.Set(r, c, true)
		}
	}
	return m, nil
}

// ParsePoints parses a flat "x1,y1,x2,y2,..." list of coordinates
func ParsePoints(s string) ([]Point, error) {
	fields := strings.Split(s, ",")
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("odd number of coordinates in %q", s)
	}

	points := make([]Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse coordinate %q: %w", fields[i], err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse coordinate %q: %w", fields[i+1], err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// FromPoints builds a mask from parsed coordinates. Two points describe an
// inclusive pixel rectangle between opposite corners; three or more describe
// a polygon.
func FromPoints(rows, cols int, points []Point) (*models.Mask, error) {
	switch {
	case len(points) == 2:
		a, b := points[0], points[1]
		return Rect(rows, cols, models.Bounds{
			MinRow: int(min(a.Y, b.Y)), MaxRow: int(max(a.Y, b.Y)),
			MinCol: int(min(a.X, b.X)), MaxCol: int(max(a.X, b.X)),
		})
	case len(points) >= 3:
		return Polygon(rows, cols, points)
	default:
		return nil, fmt.Errorf("need 2 corner points or at least 3 polygon vertices, got %d", len(points))
	}
}
