package entity

import "fmt"

// Edge is a line between two grid-adjacent dots.
// From is always the lower column (horizontal) or the lower row (vertical).
type Edge struct {
	From GridPoint `json:"from"`
	To   GridPoint `json:"to"`
	Side Side      `json:"side,omitempty"`
}

// EdgeKey identifies an edge regardless of endpoint order and side.
type EdgeKey struct {
	A GridPoint
	B GridPoint
}

// NewEdge orders the endpoints the way every stored edge is ordered.
func NewEdge(a, b GridPoint, side Side) Edge {
	if b.Column < a.Column || (b.Column == a.Column && b.Row < a.Row) {
		a, b = b, a
	}

	return Edge{From: a, To: b, Side: side}
}

func (that Edge) Key() EdgeKey {
	e := NewEdge(that.From, that.To, NoSide)
	return EdgeKey{A: e.From, B: e.To}
}

// IsAdjacent reports whether the endpoints are exactly one step apart on one axis.
func (that Edge) IsAdjacent() bool {
	dc := abs(that.From.Column - that.To.Column)
	dr := abs(that.From.Row - that.To.Row)

	return dc+dr == 1
}

func (that Edge) IsVertical() bool {
	return that.From.Column == that.To.Column
}

func (that Edge) String() string {
	return fmt.Sprintf("(%s)-(%s)", that.From, that.To)
}

// Cells returns the cells this edge borders that lie inside the grid.
func (that Edge) Cells(size GridSize) []Cell {
	e := NewEdge(that.From, that.To, that.Side)

	var candidates [2]Cell
	if e.IsVertical() {
		// left bound of (c, r), right bound of (c-1, r)
		candidates = [2]Cell{
			{Column: e.From.Column, Row: e.From.Row},
			{Column: e.From.Column - 1, Row: e.From.Row},
		}
	} else {
		// bottom bound of (c, r), top bound of (c, r-1)
		candidates = [2]Cell{
			{Column: e.From.Column, Row: e.From.Row},
			{Column: e.From.Column, Row: e.From.Row - 1},
		}
	}

	cells := make([]Cell, 0, len(candidates))
	for _, cell := range candidates {
		if cell.In(size) {
			cells = append(cells, cell)
		}
	}

	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
