package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/apperror"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Layout is the board configuration fixed for the lifetime of a game.
type Layout struct {
	Size          GridSize `json:"size"`
	Spacing       float64  `json:"spacing"`
	OriginX       float64  `json:"origin_x"`
	OriginY       float64  `json:"origin_y"`
	DotRadius     float64  `json:"dot_radius"`
	ProximityGate bool     `json:"proximity_gate"`
}

// Touch is the last pointer coordinate delivered to a game.
type Touch struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Game is a board session as stored and sent over the wire.
type Game struct {
	ID        string    `json:"id"`
	Layout    Layout    `json:"layout"`
	Edges     []Edge    `json:"edges"`
	Homes     []Home    `json:"homes"`
	Turn      Side      `json:"turn"`
	Status    string    `json:"status"`
	LastTouch *Touch    `json:"last_touch,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewGame(id string, layout Layout, now time.Time) *Game {
	return &Game{
		ID:        id,
		Layout:    layout,
		Edges:     []Edge{},
		Homes:     []Home{},
		Turn:      SideOne,
		Status:    StatusOngoing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// HomeCount returns how many cells each side owns.
func (that *Game) HomeCount() map[Side]int {
	count := map[Side]int{SideOne: 0, SideTwo: 0}
	for _, home := range that.Homes {
		count[home.Side]++
	}

	return count
}
