package server

import (
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/hub"
	"ctchen222/tictactoe/internal/server/response"
	"ctchen222/tictactoe/internal/session"
	customvalidator "ctchen222/tictactoe/internal/validator"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (s *Server) health(c *gin.Context) {
	response.SuccessResponse(c, gin.H{"status": "ok", "sessions": s.hub.Len()})
}

func (s *Server) createSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, customvalidator.Describe(err))
		return
	}

	opts := session.Options{
		Mode:      session.Mode(req.Mode),
		HumanMark: game.Mark(req.HumanMark),
		FirstMark: game.Mark(req.FirstMark),
	}
	if req.Difficulty != "" {
		d, err := bot.ParseDifficulty(req.Difficulty)
		if err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		opts.Difficulty = d
	}

	ctx := c.Request.Context()
	sess, err := s.hub.Create(ctx, opts)
	if err != nil {
		s.fail(c, err)
		return
	}

	state := sess.State()
	playerID := tokenHolder(state)
	token, err := s.tokens.Issue(sess.ID, playerID)
	if err != nil {
		_ = s.hub.Remove(ctx, sess.ID)
		s.fail(c, err)
		return
	}

	response.CreatedResponse(c, CreateSessionResponse{Session: state, Token: token, PlayerID: playerID})
}

// tokenHolder is the player the creation token is issued to: the human against the
// computer, or the X seat when two humans share the board.
func tokenHolder(state session.State) string {
	for _, p := range state.Players {
		if !p.IsBot && (state.Mode == session.ModeComputer || p.Mark == game.PlayerX) {
			return p.ID
		}
	}
	return ""
}

func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	response.SuccessResponse(c, sess.State())
}

func (s *Server) submitMove(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, customvalidator.Describe(err))
		return
	}

	res, err := sess.Submit(c.Request.Context(), *req.Index)
	if err != nil {
		s.fail(c, err)
		return
	}
	response.SuccessResponse(c, MoveResponse{Result: res, Session: sess.State()})
}

func (s *Server) resetRound(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	if err := sess.ResetRound(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	response.SuccessResponse(c, sess.State())
}

func (s *Server) resetScores(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	if err := sess.ResetScores(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	response.SuccessResponse(c, sess.State())
}

func (s *Server) setDifficulty(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req DifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, customvalidator.Describe(err))
		return
	}
	d, err := bot.ParseDifficulty(req.Difficulty)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := sess.SetDifficulty(c.Request.Context(), d); err != nil {
		s.fail(c, err)
		return
	}
	response.SuccessResponse(c, sess.State())
}

func (s *Server) configurePlayers(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req PlayersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, customvalidator.Describe(err))
		return
	}

	seating := session.Seating{FirstMark: game.Mark(req.FirstMark), HumanMark: game.Mark(req.HumanMark)}
	if err := sess.Configure(c.Request.Context(), seating); err != nil {
		s.fail(c, err)
		return
	}
	response.SuccessResponse(c, sess.State())
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.hub.Remove(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"message": "Session closed"})
}

// lookup returns the session resolved by requireSessionToken, or finds it by path id.
func (s *Server) lookup(c *gin.Context) (*session.Session, bool) {
	if v, ok := c.Get(sessionKey); ok {
		return v.(*session.Session), true
	}
	sess, err := s.hub.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return sess, true
}

// fail maps err to a status code and writes the error envelope.
func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "session.id", c.Param("id"), "error", err)
		span := trace.SpanFromContext(c.Request.Context())
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request failed")
	}
	response.ErrorResponse(c, code, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, hub.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrRoundInProgress):
		return http.StatusConflict
	case errors.Is(err, session.ErrClosed):
		return http.StatusGone
	case errors.Is(err, session.ErrNoComputer),
		errors.Is(err, session.ErrUnknownMode),
		errors.Is(err, bot.ErrUnknownDifficulty),
		errors.Is(err, game.ErrInvalidMark):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
