package events

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"encoding/json"
	"fmt"
	"time"
)

// sessionChannelBase is the Redis channel a session's events are mirrored to.
const sessionChannelBase = "channel:session:%s"

// Event types
const (
	SessionStarted    = "session_started"
	MoveApplied       = "move_applied"
	RoundOver         = "round_over"
	RoundReset        = "round_reset"
	ScoresReset       = "scores_reset"
	DifficultyChanged = "difficulty_changed"
	SessionClosed     = "session_closed"
)

// Event is a session notification. Payload holds one of the payload types below.
type Event struct {
	Type      string          `json:"event"`
	SessionID string          `json:"session_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	At        time.Time       `json:"at"`
}

//go:generate mockgen -source=events.go -destination=mocks/publisher_mock.go -package=mocks Publisher

// Publisher delivers session events somewhere: subscribers, Redis, a mock.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// SessionChannel is the Redis channel carrying the events of one session.
func SessionChannel(sessionID string) string {
	return fmt.Sprintf(sessionChannelBase, sessionID)
}

// New builds an event with payload marshalled to JSON.
func New(sessionID, eventType string, payload any) (Event, error) {
	event := Event{Type: eventType, SessionID: sessionID, At: time.Now().UTC()}
	if payload == nil {
		return event, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	event.Payload = data
	return event, nil
}

// SessionStartedPayload is the payload for the "session_started" event.
type SessionStartedPayload struct {
	Mode       string    `json:"mode"`
	Difficulty string    `json:"difficulty,omitempty"`
	FirstMark  game.Mark `json:"first_mark"`
}

// MoveAppliedPayload is the payload for the "move_applied" event.
type MoveAppliedPayload struct {
	PlayerID string          `json:"player_id"`
	Mark     game.Mark       `json:"mark"`
	Index    int             `json:"index"`
	Result   game.MoveResult `json:"result"`
	Board    game.Grid       `json:"board"`
	Next     game.Mark       `json:"next,omitempty"`
}

// RoundOverPayload is the payload for the "round_over" event.
type RoundOverPayload struct {
	Winner game.Mark   `json:"winner,omitempty"`
	Draw   bool        `json:"draw"`
	Scores game.Scores `json:"scores"`
}

// RoundResetPayload is the payload for the "round_reset" event.
type RoundResetPayload struct {
	FirstMark game.Mark `json:"first_mark"`
}

// ScoresResetPayload is the payload for the "scores_reset" event.
type ScoresResetPayload struct {
	Scores game.Scores `json:"scores"`
}

// DifficultyChangedPayload is the payload for the "difficulty_changed" event.
type DifficultyChangedPayload struct {
	Difficulty string `json:"difficulty"`
}
