package proto

import (
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/game"
)

// Client message types.
const (
	TypeMove        = "move"
	TypeReset       = "reset"
	TypeResetScores = "reset_scores"
)

// Server message types.
const (
	TypeState  = "state"
	TypeEvent  = "event"
	TypeResult = "result"
	TypeError  = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type  string `json:"type" validate:"required,oneof=move reset reset_scores"`
	Index *int   `json:"index,omitempty" validate:"required_if=Type move"`
}

// ServerToClientMessage represents a message from the server to the client. Exactly one
// of the optional fields is set, matching Type.
type ServerToClientMessage struct {
	Type   string           `json:"type" validate:"required"`
	State  any              `json:"state,omitempty"`
	Event  *events.Event    `json:"event,omitempty"`
	Result *game.MoveResult `json:"result,omitempty"`
	Reason string           `json:"reason,omitempty"`
}
