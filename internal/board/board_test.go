package board

import (
	"math"
	"testing"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/apperror"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/entity"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T, opts ...Option) *Board {
	t.Helper()

	grid, err := geometry.New(entity.GridSize{Columns: 4, Rows: 4}, 150, geometry.Point{})
	require.NoError(t, err)

	return New(grid, opts...)
}

func point(c, r int) entity.GridPoint {
	return entity.GridPoint{Column: c, Row: r}
}

// touchNear returns a coordinate one third of the way from a to b.
func touchNear(b *Board, from, to entity.GridPoint) (float64, float64) {
	pa := b.Grid().ToPosition(from)
	pb := b.Grid().ToPosition(to)

	return pa.X + (pb.X-pa.X)/3, pa.Y + (pb.Y-pa.Y)/3
}

func place(t *testing.T, b *Board, from, to entity.GridPoint) Placement {
	t.Helper()

	x, y := touchNear(b, from, to)
	placement, err := b.PlaceEdgeFromTouch(x, y)
	require.NoError(t, err)

	return placement
}

func cellZeroBounds() [4][2]entity.GridPoint {
	return [4][2]entity.GridPoint{
		{point(0, 0), point(0, 1)},
		{point(1, 0), point(1, 1)},
		{point(0, 0), point(1, 0)},
		{point(0, 1), point(1, 1)},
	}
}

func TestBoard_PlaceEdgeFromTouch_OnDot(t *testing.T) {
	// Given: a 4x4 board with spacing 150 at origin (0,0), dot (1,2) at (150,150)
	// and dot (1,3) at (150,0); every neighbour of a dot is 150 away.
	tests := []struct {
		name     string
		x, y     float64
		expected entity.Edge
	}{
		{
			name:     "Touch on dot (1,2) pairs it with the first tied neighbour, (0,2)",
			x:        150,
			y:        150,
			expected: entity.Edge{From: point(0, 2), To: point(1, 2), Side: entity.SideOne},
		},
		{
			name:     "Touch on dot (1,3) pairs it with the first tied neighbour, (0,3)",
			x:        150,
			y:        0,
			expected: entity.Edge{From: point(0, 3), To: point(1, 3), Side: entity.SideOne},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard(t, WithProximityGate(false))

			// When: the touch lands exactly on the dot
			placement, err := b.PlaceEdgeFromTouch(tt.x, tt.y)

			// Then: column-major order breaks the tie and a horizontal line is drawn
			require.NoError(t, err)
			assert.Equal(t, tt.expected, placement.Edge)
			assert.False(t, placement.Edge.IsVertical())
		})
	}
}

func TestBoard_PlaceEdgeFromTouch(t *testing.T) {
	t.Run("Touch between two dots of a column draws a vertical line", func(t *testing.T) {
		// Given: a fresh 4x4 board
		b := newBoard(t)

		// When: side one touches just below dot (1,2)
		placement, err := b.PlaceEdgeFromTouch(150, 200)
		require.NoError(t, err)

		// Then: the line (1,1)-(1,2) is drawn for side one and side two moves next
		expected := entity.Edge{From: point(1, 1), To: point(1, 2), Side: entity.SideOne}
		assert.Equal(t, expected, placement.Edge)
		assert.Empty(t, placement.Homes)
		assert.Equal(t, entity.SideTwo, placement.Next)
		assert.Equal(t, []entity.Edge{expected}, b.Edges())
	})

	t.Run("Touch between two dots of a row draws a horizontal line", func(t *testing.T) {
		b := newBoard(t)

		placement, err := b.PlaceEdgeFromTouch(260, 300)
		require.NoError(t, err)

		assert.Equal(t, entity.Edge{From: point(1, 1), To: point(2, 1), Side: entity.SideOne}, placement.Edge)
	})

	t.Run("Sides alternate on accepted lines", func(t *testing.T) {
		b := newBoard(t)

		first := place(t, b, point(0, 0), point(0, 1))
		second := place(t, b, point(2, 2), point(3, 2))

		assert.Equal(t, entity.SideOne, first.Edge.Side)
		assert.Equal(t, entity.SideTwo, second.Edge.Side)
		assert.Equal(t, entity.SideOne, b.Turn())
	})

	t.Run("Touch far from every dot is rejected", func(t *testing.T) {
		b := newBoard(t)

		// When: touching the centre of cell (0,0), 106px from each corner
		_, err := b.PlaceEdgeFromTouch(75, 375)

		// Then: ErrTooFarFromGrid is returned, nothing is drawn and the turn stays
		require.ErrorIs(t, err, apperror.ErrTooFarFromGrid)
		assert.Empty(t, b.Edges())
		assert.Equal(t, entity.SideOne, b.Turn())
	})

	t.Run("Disabled proximity gate accepts distant touches", func(t *testing.T) {
		b := newBoard(t, WithProximityGate(false))

		// When: touching the centre of cell (0,0), where all four corners tie
		placement, err := b.PlaceEdgeFromTouch(75, 375)

		// Then: the first two corners in column order form the line
		require.NoError(t, err)
		assert.Equal(t, entity.Edge{From: point(0, 0), To: point(0, 1), Side: entity.SideOne}, placement.Edge)
	})

	t.Run("Repeated touch is a no-op", func(t *testing.T) {
		b := newBoard(t)
		place(t, b, point(1, 1), point(1, 2))

		// When: side two touches the same line from the other end
		x, y := touchNear(b, point(1, 2), point(1, 1))
		_, err := b.PlaceEdgeFromTouch(x, y)

		// Then: ErrEdgeExists is returned and side two still has the turn
		require.ErrorIs(t, err, apperror.ErrEdgeExists)
		assert.Len(t, b.Edges(), 1)
		assert.Equal(t, entity.SideTwo, b.Turn())
	})

	t.Run("Invalid coordinate is rejected", func(t *testing.T) {
		b := newBoard(t)

		_, err := b.PlaceEdgeFromTouch(math.NaN(), 10)

		require.ErrorIs(t, err, apperror.ErrInvalidPosition)
		assert.Equal(t, entity.SideOne, b.Turn())
	})

	t.Run("Touch near the top right corner stays inside the grid", func(t *testing.T) {
		b := newBoard(t)

		// When: both lines meeting at dot (3,3) are drawn
		top := place(t, b, point(3, 3), point(2, 3))
		right := place(t, b, point(3, 3), point(3, 2))

		// Then: no out of range cell is claimed
		assert.Equal(t, entity.Edge{From: point(2, 3), To: point(3, 3), Side: entity.SideOne}, top.Edge)
		assert.Equal(t, entity.Edge{From: point(3, 2), To: point(3, 3), Side: entity.SideTwo}, right.Edge)
		assert.Empty(t, b.Homes())
	})
}

func TestBoard_CellCompletion(t *testing.T) {
	t.Run("Fourth line claims the cell for the side that drew it", func(t *testing.T) {
		b := newBoard(t)
		bounds := cellZeroBounds()

		// When: the four sides of cell (0,0) are drawn, alternating sides
		var placements []Placement
		for _, bound := range bounds {
			placements = append(placements, place(t, b, bound[0], bound[1]))
		}

		// Then: only the last placement claims the cell, for side two
		for _, placement := range placements[:3] {
			assert.Empty(t, placement.Homes)
		}
		home := entity.Home{Cell: entity.Cell{Column: 0, Row: 0}, Side: entity.SideTwo}
		assert.Equal(t, []entity.Home{home}, placements[3].Homes)
		assert.Equal(t, []entity.Home{home}, b.Homes())
		assert.Equal(t, entity.SideTwo, b.Owner(home.Cell))
	})

	t.Run("Any order claims the cell exactly once", func(t *testing.T) {
		bounds := cellZeroBounds()

		for _, order := range permutations([]int{0, 1, 2, 3}) {
			b := newBoard(t)

			claims := 0
			var lastSide entity.Side
			for _, i := range order {
				placement := place(t, b, bounds[i][0], bounds[i][1])
				claims += len(placement.Homes)
				lastSide = placement.Edge.Side
			}

			require.Equal(t, 1, claims, "order %v", order)
			assert.Equal(t, lastSide, b.Owner(entity.Cell{Column: 0, Row: 0}), "order %v", order)
		}
	})

	t.Run("Shared line can close two cells", func(t *testing.T) {
		b := newBoard(t)

		// Given: cells (0,0) and (1,0) drawn except the line between them
		for _, e := range [][2]entity.GridPoint{
			{point(0, 0), point(0, 1)},
			{point(0, 0), point(1, 0)},
			{point(0, 1), point(1, 1)},
			{point(1, 0), point(2, 0)},
			{point(1, 1), point(2, 1)},
			{point(2, 0), point(2, 1)},
		} {
			place(t, b, e[0], e[1])
		}

		// When: side one draws (1,0)-(1,1)
		placement := place(t, b, point(1, 0), point(1, 1))

		// Then: both cells belong to side one
		assert.Equal(t, []entity.Home{
			{Cell: entity.Cell{Column: 1, Row: 0}, Side: entity.SideOne},
			{Cell: entity.Cell{Column: 0, Row: 0}, Side: entity.SideOne},
		}, placement.Homes)
	})

	t.Run("Check ignores who drew the bounds and never reclaims", func(t *testing.T) {
		b := newBoard(t)
		for _, bound := range cellZeroBounds() {
			place(t, b, bound[0], bound[1])
		}
		cell := entity.Cell{Column: 0, Row: 0}

		// When: checking an owned cell again for side one
		_, ok := b.CheckCellCompletion(cell, entity.SideOne)

		// Then: ownership stays with side two
		assert.False(t, ok)
		assert.Equal(t, entity.SideTwo, b.Owner(cell))
		assert.Len(t, b.Homes(), 1)
	})

	t.Run("Incomplete and out of range cells are not claimed", func(t *testing.T) {
		b := newBoard(t)
		place(t, b, point(0, 0), point(0, 1))

		_, ok := b.CheckCellCompletion(entity.Cell{Column: 0, Row: 0}, entity.SideOne)
		assert.False(t, ok)

		_, ok = b.CheckCellCompletion(entity.Cell{Column: 3, Row: 0}, entity.SideOne)
		assert.False(t, ok)
	})
}

func TestBoard_Queries(t *testing.T) {
	b := newBoard(t)
	place(t, b, point(0, 0), point(0, 1))
	place(t, b, point(1, 1), point(2, 1))

	// When: listing lines twice without a touch in between
	first := b.Edges()
	second := b.Edges()

	// Then: both lists are identical and detached from the board
	assert.Equal(t, first, second)
	first[0].Side = entity.SideTwo
	assert.Equal(t, entity.SideOne, b.Edges()[0].Side)
}

func TestBoard_Restore(t *testing.T) {
	t.Run("Round trips a snapshot", func(t *testing.T) {
		b := newBoard(t)
		for _, bound := range cellZeroBounds() {
			place(t, b, bound[0], bound[1])
		}
		snapshot := b.Snapshot()

		// When: restoring into a fresh board
		restored := newBoard(t)
		err := restored.Restore(&entity.Game{Edges: snapshot.Edges, Homes: snapshot.Homes, Turn: snapshot.Turn})

		// Then: it holds the same state and keeps rejecting duplicates
		require.NoError(t, err)
		assert.Equal(t, snapshot, restored.Snapshot())
		x, y := touchNear(restored, point(0, 0), point(0, 1))
		_, err = restored.PlaceEdgeFromTouch(x, y)
		assert.ErrorIs(t, err, apperror.ErrEdgeExists)
	})

	t.Run("Rejects a diagonal line", func(t *testing.T) {
		b := newBoard(t)

		err := b.Restore(&entity.Game{
			Edges: []entity.Edge{{From: point(0, 0), To: point(1, 1), Side: entity.SideOne}},
			Turn:  entity.SideOne,
		})

		require.ErrorIs(t, err, ErrCorruptedState)
		assert.Empty(t, b.Edges())
	})

	t.Run("Rejects an unknown turn", func(t *testing.T) {
		b := newBoard(t)

		err := b.Restore(&entity.Game{Turn: entity.NoSide})

		require.ErrorIs(t, err, ErrCorruptedState)
	})
}

func TestOrient(t *testing.T) {
	t.Run("Diagonal dots are not a line", func(t *testing.T) {
		_, err := orient(point(1, 1), point(2, 2), entity.SideOne)

		require.ErrorIs(t, err, apperror.ErrNotAdjacent)
	})

	t.Run("Dots two apart are not a line", func(t *testing.T) {
		_, err := orient(point(0, 0), point(0, 2), entity.SideOne)

		require.ErrorIs(t, err, apperror.ErrNotAdjacent)
	})

	t.Run("Vertical pair is ordered by row", func(t *testing.T) {
		edge, err := orient(point(1, 2), point(1, 1), entity.SideTwo)

		require.NoError(t, err)
		assert.Equal(t, entity.Edge{From: point(1, 1), To: point(1, 2), Side: entity.SideTwo}, edge)
	})
}

func permutations(values []int) [][]int {
	if len(values) <= 1 {
		return [][]int{append([]int(nil), values...)}
	}

	var result [][]int
	for i := range values {
		rest := make([]int, 0, len(values)-1)
		rest = append(rest, values[:i]...)
		rest = append(rest, values[i+1:]...)

		for _, tail := range permutations(rest) {
			result = append(result, append([]int{values[i]}, tail...))
		}
	}

	return result
}
