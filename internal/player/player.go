package player

import "ctchen222/tictactoe/internal/game"

// Player is one seat of a session, identified by ID and tagged with a mark.
type Player struct {
	ID    string    `json:"id"`
	Mark  game.Mark `json:"mark"`
	IsBot bool      `json:"is_bot"`
}

// NewPlayer creates a human player.
func NewPlayer(id string, mark game.Mark) *Player {
	return &Player{
		ID:   id,
		Mark: mark,
	}
}
