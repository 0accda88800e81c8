package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/board"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/entity"
)

const (
	actionState = "game:state"
	actionTouch = "game:touch"
	actionError = "error"
)

type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Game      *entity.Game     `json:"game,omitempty"`
	Touch     *entity.Touch    `json:"touch,omitempty"`
	Placement *board.Placement `json:"placement,omitempty"`
	Error     string           `json:"error,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}
