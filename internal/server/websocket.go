package server

import (
	"context"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/validator"
	"ctchen222/tictactoe/pkg/proto"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// wsClient is one socket attached to a session. writePump is the only writer.
type wsClient struct {
	conn    *websocket.Conn
	session *session.Session
	send    chan *proto.ServerToClientMessage
	done    chan struct{}
}

// handleWebSocket upgrades the connection, pushes the session state, then streams
// session events and serves client messages until either side goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("session.id", c.Param("id")),
	))
	defer span.End()

	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	stream, unsubscribe, err := s.hub.Subscribe(sess.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		unsubscribe()
		slog.WarnContext(ctx, "Failed to upgrade connection", "session.id", sess.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	client := &wsClient{
		conn:    conn,
		session: sess,
		send:    make(chan *proto.ServerToClientMessage, sendBuffer),
		done:    make(chan struct{}),
	}
	client.send <- &proto.ServerToClientMessage{Type: proto.TypeState, State: sess.State()}

	go client.writePump(ctx, stream, unsubscribe)
	client.readPump(ctx)
}

// readPump decodes client messages and applies them to the session.
func (c *wsClient) readPump(ctx context.Context) {
	defer close(c.send)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "Player connection error", "session.id", c.session.ID, "error", err)
			}
			return
		}

		reply := c.handleMessage(ctx, raw)
		select {
		case c.send <- reply:
		case <-c.done:
			return
		}
	}
}

func (c *wsClient) handleMessage(ctx context.Context, raw []byte) *proto.ServerToClientMessage {
	ctx, span := tracer.Start(ctx, "server.handleMessage", trace.WithAttributes(
		attribute.String("session.id", c.session.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "session.id", c.session.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return errorMessage("malformed message")
	}
	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "session.id", c.session.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return errorMessage(validator.Describe(err))
	}
	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeMove:
		res, err := c.session.Submit(ctx, *message.Index)
		if err != nil {
			return errorMessage(err.Error())
		}
		return &proto.ServerToClientMessage{Type: proto.TypeResult, Result: &res}
	case proto.TypeReset:
		if err := c.session.ResetRound(ctx); err != nil {
			return errorMessage(err.Error())
		}
	case proto.TypeResetScores:
		if err := c.session.ResetScores(ctx); err != nil {
			return errorMessage(err.Error())
		}
	}
	return &proto.ServerToClientMessage{Type: proto.TypeState, State: c.session.State()}
}

// writePump writes replies, session events and pings to the connection.
func (c *wsClient) writePump(ctx context.Context, stream <-chan events.Event, unsubscribe func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		unsubscribe()
		_ = c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.writeClose()
				return
			}
			if err := c.write(msg); err != nil {
				slog.WarnContext(ctx, "error writing message to player", "session.id", c.session.ID, "error", err)
				return
			}
		case event, ok := <-stream:
			if !ok {
				c.writeClose()
				return
			}
			if err := c.write(&proto.ServerToClientMessage{Type: proto.TypeEvent, Event: &event}); err != nil {
				slog.WarnContext(ctx, "error writing event to player", "session.id", c.session.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.WarnContext(ctx, "Failed to send ping to player, assuming disconnect", "session.id", c.session.ID, "error", err)
				return
			}
		}
	}
}

func (c *wsClient) write(msg *proto.ServerToClientMessage) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (c *wsClient) writeClose() {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func errorMessage(reason string) *proto.ServerToClientMessage {
	return &proto.ServerToClientMessage{Type: proto.TypeError, Reason: reason}
}
