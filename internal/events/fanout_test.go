package events

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ev, err := New("s1", RoundOver, RoundOverPayload{Winner: game.PlayerX, Scores: game.Scores{X: 1}})
	require.NoError(t, err)

	assert.Equal(t, RoundOver, ev.Type)
	assert.Equal(t, "s1", ev.SessionID)
	assert.False(t, ev.At.IsZero())

	var payload RoundOverPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, game.PlayerX, payload.Winner)
	assert.Equal(t, 1, payload.Scores.X)
}

func TestNew_NilPayload(t *testing.T) {
	ev, err := New("s1", SessionClosed, nil)
	require.NoError(t, err)
	assert.Nil(t, ev.Payload)
}

func TestFanout_DeliversToSessionSubscribers(t *testing.T) {
	f := NewFanout(4)
	chA, unsubA := f.Subscribe("a")
	defer unsubA()
	chB, unsubB := f.Subscribe("b")
	defer unsubB()

	ev, _ := New("a", RoundReset, RoundResetPayload{FirstMark: game.PlayerX})
	require.NoError(t, f.Publish(context.Background(), ev))

	select {
	case got := <-chA:
		assert.Equal(t, RoundReset, got.Type)
	default:
		t.Fatal("subscriber of session a got nothing")
	}
	select {
	case got := <-chB:
		t.Fatalf("subscriber of session b got %s", got.Type)
	default:
	}
}

func TestFanout_DropsSlowSubscriber(t *testing.T) {
	f := NewFanout(1)
	ch, unsub := f.Subscribe("a")
	defer unsub()

	ev, _ := New("a", MoveApplied, nil)
	require.NoError(t, f.Publish(context.Background(), ev))
	require.NoError(t, f.Publish(context.Background(), ev))

	assert.Equal(t, 0, f.Subscribers("a"))
	<-ch
	_, open := <-ch
	assert.False(t, open, "dropped subscriber channel must be closed")
}

func TestFanout_UnsubscribeTwice(t *testing.T) {
	f := NewFanout(1)
	_, unsub := f.Subscribe("a")
	require.Equal(t, 1, f.Subscribers("a"))

	unsub()
	unsub()

	assert.Equal(t, 0, f.Subscribers("a"))
}

func TestFanout_SessionClosedClosesChannels(t *testing.T) {
	f := NewFanout(4)
	ch, unsub := f.Subscribe("a")
	defer unsub()

	ev, _ := New("a", SessionClosed, nil)
	require.NoError(t, f.Publish(context.Background(), ev))

	got, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, SessionClosed, got.Type)
	_, ok = <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, f.Subscribers("a"))
}

type failingPublisher struct{ err error }

func (p failingPublisher) Publish(context.Context, Event) error { return p.err }

func TestMultiPublisher(t *testing.T) {
	f := NewFanout(1)
	ch, unsub := f.Subscribe("a")
	defer unsub()
	boom := errors.New("boom")

	m := MultiPublisher{failingPublisher{err: boom}, f, NopPublisher{}}
	ev, _ := New("a", ScoresReset, ScoresResetPayload{})
	err := m.Publish(context.Background(), ev)

	assert.ErrorIs(t, err, boom)
	select {
	case got := <-ch:
		assert.Equal(t, ScoresReset, got.Type, "a failing publisher must not starve the others")
	default:
		t.Fatal("fanout did not receive the event")
	}
}
