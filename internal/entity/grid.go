package entity

import (
	"errors"
	"fmt"
)

const minGridDimension = 2

var ErrInvalidGridSize = errors.New("invalid grid size")

// GridSize is the number of dot columns and rows of a board.
type GridSize struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

func (that GridSize) Validate() error {
	if that.Columns < minGridDimension || that.Rows < minGridDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGridSize, that.Columns, that.Rows)
	}

	return nil
}

// Points - number of dots on the grid.
func (that GridSize) Points() int {
	return that.Columns * that.Rows
}

// GridPoint addresses a dot by column and row. Row 0 is the bottom row.
type GridPoint struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

func (that GridPoint) In(size GridSize) bool {
	return that.Column >= 0 && that.Column < size.Columns &&
		that.Row >= 0 && that.Row < size.Rows
}

func (that GridPoint) String() string {
	return fmt.Sprintf("%d,%d", that.Column, that.Row)
}

// Side is one of the two players.
type Side int

const (
	NoSide  Side = 0
	SideOne Side = 1
	SideTwo Side = 2
)

func (that Side) Other() Side {
	if that == SideOne {
		return SideTwo
	}
	return SideOne
}

func (that Side) Valid() bool {
	return that == SideOne || that == SideTwo
}
