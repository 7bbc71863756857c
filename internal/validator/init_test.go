package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seating struct {
	First      string `validate:"required,mark"`
	Difficulty string `validate:"omitempty,difficulty"`
}

func TestCustomTags(t *testing.T) {
	tests := []struct {
		name    string
		in      seating
		wantErr bool
	}{
		{name: "X", in: seating{First: "X"}},
		{name: "O with hard", in: seating{First: "O", Difficulty: "hard"}},
		{name: "difficulty is case-insensitive", in: seating{First: "O", Difficulty: "Medium"}},
		{name: "lower case mark", in: seating{First: "x"}, wantErr: true},
		{name: "unknown difficulty", in: seating{First: "X", Difficulty: "nightmare"}, wantErr: true},
		{name: "missing mark", in: seating{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GetValidator().Struct(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDescribe(t *testing.T) {
	err := GetValidator().Struct(seating{Difficulty: "nightmare"})
	require.Error(t, err)

	msg := Describe(err)
	assert.Contains(t, msg, "First must satisfy required")
	assert.Contains(t, msg, "Difficulty must satisfy difficulty")

	assert.Equal(t, "plain", Describe(errors.New("plain")))
}
