package entity

import "fmt"

// Cell is the unit square whose lower-left dot is (Column, Row).
type Cell struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// In reports whether the cell lies in [0, columns-2]x[0, rows-2].
func (that Cell) In(size GridSize) bool {
	return that.Column >= 0 && that.Column < size.Columns-1 &&
		that.Row >= 0 && that.Row < size.Rows-1
}

// Bounds returns the left, right, top and bottom edges of the cell.
func (that Cell) Bounds() [4]Edge {
	c, r := that.Column, that.Row

	return [4]Edge{
		NewEdge(GridPoint{c, r}, GridPoint{c, r + 1}, NoSide),
		NewEdge(GridPoint{c + 1, r}, GridPoint{c + 1, r + 1}, NoSide),
		NewEdge(GridPoint{c, r + 1}, GridPoint{c + 1, r + 1}, NoSide),
		NewEdge(GridPoint{c, r}, GridPoint{c + 1, r}, NoSide),
	}
}

func (that Cell) String() string {
	return fmt.Sprintf("%d,%d", that.Column, that.Row)
}

// Home is a cell owned by a side.
type Home struct {
	Cell Cell `json:"cell"`
	Side Side `json:"side"`
}
