// Package board keeps the lines and owned cells of a dots-and-boxes game.
package board

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/apperror"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/entity"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/geometry"
)

var ErrCorruptedState = errors.New("stored board state is corrupted")

// Placement is the outcome of an accepted touch.
type Placement struct {
	Edge  entity.Edge   `json:"edge"`
	Homes []entity.Home `json:"homes"`
	Next  entity.Side   `json:"next"`
}

// Snapshot is an immutable copy of what the presentation layer draws.
type Snapshot struct {
	Edges []entity.Edge `json:"edges"`
	Homes []entity.Home `json:"homes"`
	Turn  entity.Side   `json:"turn"`
}

type Option func(*Board)

// WithProximityGate enables or disables rejecting touches further than half
// the spacing from the nearest dot.
func WithProximityGate(enabled bool) Option {
	return func(b *Board) {
		b.proximityGate = enabled
	}
}

func WithFirstSide(side entity.Side) Option {
	return func(b *Board) {
		if side.Valid() {
			b.turn = side
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Board is not safe for concurrent use; callers serialize touches.
type Board struct {
	grid   *geometry.Grid
	logger *slog.Logger

	proximityGate bool
	turn          entity.Side

	edges   []entity.Edge
	edgeSet map[entity.EdgeKey]struct{}
	homes   []entity.Home
	owned   map[entity.Cell]entity.Side
}

func New(grid *geometry.Grid, opts ...Option) *Board {
	b := &Board{
		grid:          grid,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		proximityGate: true,
		turn:          entity.SideOne,
		edges:         []entity.Edge{},
		edgeSet:       make(map[entity.EdgeKey]struct{}),
		homes:         []entity.Home{},
		owned:         make(map[entity.Cell]entity.Side),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.logger = b.logger.With("component", "board")

	return b
}

// PlaceEdgeFromTouch resolves a pointer coordinate to the line between the two
// nearest dots, records it for the side to move and claims any cells it closes.
// A rejected touch leaves the board and the turn untouched.
func (that *Board) PlaceEdgeFromTouch(x, y float64) (Placement, error) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return Placement{}, fmt.Errorf("%w: (%v, %v)", apperror.ErrInvalidPosition, x, y)
	}

	nearest := that.grid.NearestPoints(geometry.Point{X: x, Y: y}, 2)

	edge, err := orient(nearest[0].Point, nearest[1].Point, that.turn)
	if err != nil {
		return Placement{}, err
	}

	if that.proximityGate && nearest[0].Distance > that.grid.Spacing()/2 {
		return Placement{}, fmt.Errorf("%w: %.1f from %s", apperror.ErrTooFarFromGrid, nearest[0].Distance, nearest[0].Point)
	}

	if that.HasEdge(edge) {
		return Placement{}, fmt.Errorf("%w: %s", apperror.ErrEdgeExists, edge)
	}

	that.addEdge(edge)

	placement := Placement{Edge: edge, Homes: []entity.Home{}}
	for _, cell := range edge.Cells(that.grid.Size()) {
		if home, ok := that.CheckCellCompletion(cell, that.turn); ok {
			placement.Homes = append(placement.Homes, home)
		}
	}

	that.turn = that.turn.Other()
	placement.Next = that.turn

	that.logger.Debug("edge placed", "edge", edge.String(), "side", edge.Side, "homes", len(placement.Homes))

	return placement, nil
}

// CheckCellCompletion claims cell for side when all four of its bounds are
// drawn, whoever drew them. An owned cell is never claimed again.
func (that *Board) CheckCellCompletion(cell entity.Cell, side entity.Side) (entity.Home, bool) {
	if !cell.In(that.grid.Size()) {
		return entity.Home{}, false
	}

	if _, ok := that.owned[cell]; ok {
		return entity.Home{}, false
	}

	names := [4]string{"left", "right", "top", "bottom"}
	for i, bound := range cell.Bounds() {
		if !that.HasEdge(bound) {
			return entity.Home{}, false
		}
		that.logger.Debug("bound connected", "cell", cell.String(), "bound", names[i])
	}

	home := entity.Home{Cell: cell, Side: side}
	that.owned[cell] = side
	that.homes = append(that.homes, home)

	return home, true
}

func (that *Board) HasEdge(edge entity.Edge) bool {
	_, ok := that.edgeSet[edge.Key()]
	return ok
}

// Owner returns the side owning cell, or NoSide.
func (that *Board) Owner(cell entity.Cell) entity.Side {
	return that.owned[cell]
}

// Edges returns the drawn lines in placement order.
func (that *Board) Edges() []entity.Edge {
	edges := make([]entity.Edge, len(that.edges))
	copy(edges, that.edges)

	return edges
}

// Homes returns the owned cells in the order they were claimed.
func (that *Board) Homes() []entity.Home {
	homes := make([]entity.Home, len(that.homes))
	copy(homes, that.homes)

	return homes
}

func (that *Board) Turn() entity.Side {
	return that.turn
}

func (that *Board) Grid() *geometry.Grid {
	return that.grid
}

func (that *Board) Snapshot() Snapshot {
	return Snapshot{
		Edges: that.Edges(),
		Homes: that.Homes(),
		Turn:  that.turn,
	}
}

// Restore replaces the board contents with a stored game.
func (that *Board) Restore(game *entity.Game) error {
	size := that.grid.Size()

	edges := make([]entity.Edge, 0, len(game.Edges))
	edgeSet := make(map[entity.EdgeKey]struct{}, len(game.Edges))
	for _, stored := range game.Edges {
		edge := entity.NewEdge(stored.From, stored.To, stored.Side)
		if !edge.IsAdjacent() || !edge.From.In(size) || !edge.To.In(size) || !edge.Side.Valid() {
			return fmt.Errorf("%w: edge %s", ErrCorruptedState, edge)
		}

		if _, ok := edgeSet[edge.Key()]; ok {
			continue
		}

		edgeSet[edge.Key()] = struct{}{}
		edges = append(edges, edge)
	}

	homes := make([]entity.Home, 0, len(game.Homes))
	owned := make(map[entity.Cell]entity.Side, len(game.Homes))
	for _, home := range game.Homes {
		if !home.Cell.In(size) || !home.Side.Valid() {
			return fmt.Errorf("%w: home %s", ErrCorruptedState, home.Cell)
		}

		if _, ok := owned[home.Cell]; ok {
			return fmt.Errorf("%w: home %s owned twice", ErrCorruptedState, home.Cell)
		}

		owned[home.Cell] = home.Side
		homes = append(homes, home)
	}

	turn := game.Turn
	if !turn.Valid() {
		return fmt.Errorf("%w: turn %d", ErrCorruptedState, turn)
	}

	that.edges, that.edgeSet = edges, edgeSet
	that.homes, that.owned = homes, owned
	that.turn = turn

	return nil
}

func (that *Board) addEdge(edge entity.Edge) {
	that.edgeSet[edge.Key()] = struct{}{}
	that.edges = append(that.edges, edge)
}

// orient turns the two nearest dots into an edge: same column is vertical,
// same row is horizontal, anything else is not a line.
func orient(a, b entity.GridPoint, side entity.Side) (entity.Edge, error) {
	if a.Column != b.Column && a.Row != b.Row {
		return entity.Edge{}, fmt.Errorf("%w: %s and %s", apperror.ErrNotAdjacent, a, b)
	}

	edge := entity.NewEdge(a, b, side)
	if !edge.IsAdjacent() {
		return entity.Edge{}, fmt.Errorf("%w: %s and %s", apperror.ErrNotAdjacent, a, b)
	}

	return edge, nil
}
