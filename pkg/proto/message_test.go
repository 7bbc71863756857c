package proto

import (
	"ctchen222/tictactoe/internal/validator"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientToServerMessage_Validation(t *testing.T) {
	idx := func(i int) *int { return &i }

	tests := []struct {
		name    string
		msg     ClientToServerMessage
		wantErr bool
	}{
		{name: "move with index", msg: ClientToServerMessage{Type: TypeMove, Index: idx(4)}},
		{name: "move with zero index", msg: ClientToServerMessage{Type: TypeMove, Index: idx(0)}},
		{name: "out of range index reaches the game", msg: ClientToServerMessage{Type: TypeMove, Index: idx(42)}},
		{name: "move without index", msg: ClientToServerMessage{Type: TypeMove}, wantErr: true},
		{name: "reset", msg: ClientToServerMessage{Type: TypeReset}},
		{name: "reset scores", msg: ClientToServerMessage{Type: TypeResetScores}},
		{name: "unknown type", msg: ClientToServerMessage{Type: "rematch"}, wantErr: true},
		{name: "empty", msg: ClientToServerMessage{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.GetValidator().Struct(tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
