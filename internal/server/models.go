package server

import (
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/session"
)

type CreateSessionRequest struct {
	Mode       string `json:"mode" binding:"omitempty,oneof=human computer"`
	Difficulty string `json:"difficulty" binding:"omitempty,difficulty"`
	HumanMark  string `json:"human_mark" binding:"omitempty,mark"`
	FirstMark  string `json:"first_mark" binding:"omitempty,mark"`
}

type CreateSessionResponse struct {
	Session  session.State `json:"session"`
	Token    string        `json:"token"`
	PlayerID string        `json:"player_id"`
}

// MoveRequest carries the cell index. Range is checked by the game, not the binding.
type MoveRequest struct {
	Index *int `json:"index" binding:"required"`
}

type MoveResponse struct {
	Result  game.MoveResult `json:"result"`
	Session session.State   `json:"session"`
}

type DifficultyRequest struct {
	Difficulty string `json:"difficulty" binding:"required,difficulty"`
}

type PlayersRequest struct {
	FirstMark string `json:"first_mark" binding:"required,mark"`
	HumanMark string `json:"human_mark" binding:"omitempty,mark"`
}
