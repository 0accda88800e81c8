// Package geometry maps grid points to screen positions and back.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/entity"
)

var ErrInvalidSpacing = errors.New("spacing must be positive")

// Point is a position in the presentation layer's coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance is a grid point together with its distance to a queried coordinate.
type Distance struct {
	Point    entity.GridPoint
	Distance float64
}

// Grid holds the fixed placement of a dot grid. It has no per-game state.
type Grid struct {
	size    entity.GridSize
	spacing float64
	origin  Point
}

func New(size entity.GridSize, spacing float64, origin Point) (*Grid, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}

	if spacing <= 0 || math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpacing, spacing)
	}

	return &Grid{size: size, spacing: spacing, origin: origin}, nil
}

// Centered places the grid in the middle of a screen of the given size.
func Centered(size entity.GridSize, spacing float64, screenWidth, screenHeight int) (*Grid, error) {
	return New(size, spacing, centeredOrigin(size, spacing, screenWidth, screenHeight))
}

// centeredOrigin - integer division as the offsets are whole pixels.
func centeredOrigin(size entity.GridSize, spacing float64, screenWidth, screenHeight int) Point {
	boxWidth := int(float64(size.Columns-1) * spacing)
	boxHeight := int(float64(size.Rows-1) * spacing)

	return Point{
		X: float64((screenWidth - boxWidth) / 2),
		Y: float64((screenHeight - boxHeight) / 2),
	}
}

// FromLayout builds the grid a stored game was created with.
func FromLayout(layout entity.Layout) (*Grid, error) {
	return New(layout.Size, layout.Spacing, Point{X: layout.OriginX, Y: layout.OriginY})
}

func (that *Grid) Size() entity.GridSize {
	return that.size
}

func (that *Grid) Spacing() float64 {
	return that.spacing
}

func (that *Grid) Origin() Point {
	return that.origin
}

// ToPosition returns where a dot is drawn. Row 0 is at the bottom.
func (that *Grid) ToPosition(p entity.GridPoint) Point {
	return Point{
		X: that.origin.X + float64(p.Column)*that.spacing,
		Y: that.origin.Y + float64(that.size.Rows-1-p.Row)*that.spacing,
	}
}

// NearestPoints returns the n grid points closest to coord, nearest first.
// Equal distances keep column-major order.
func (that *Grid) NearestPoints(coord Point, n int) []Distance {
	total := that.size.Points()
	if n <= 0 {
		return []Distance{}
	}
	if n > total {
		n = total
	}

	distances := make([]Distance, 0, total)
	for c := 0; c < that.size.Columns; c++ {
		for r := 0; r < that.size.Rows; r++ {
			point := entity.GridPoint{Column: c, Row: r}
			position := that.ToPosition(point)
			distances = append(distances, Distance{
				Point:    point,
				Distance: math.Hypot(coord.X-position.X, coord.Y-position.Y),
			})
		}
	}

	sort.SliceStable(distances, func(i, j int) bool {
		return distances[i].Distance < distances[j].Distance
	})

	return distances[:n]
}
