package server

import (
	"ctchen222/tictactoe/internal/auth"
	"ctchen222/tictactoe/internal/hub"
	"ctchen222/tictactoe/internal/server/response"
	customvalidator "ctchen222/tictactoe/internal/validator"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

const (
	claimsKey  = "session.claims"
	sessionKey = "session"
)

var registerBindingOnce sync.Once

type Server struct {
	hub      *hub.Hub
	tokens   *auth.TokenIssuer
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

func NewServer(h *hub.Hub, tokens *auth.TokenIssuer) *Server {
	registerBindingOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := customvalidator.RegisterCustom(v); err != nil {
				slog.Error("failed to register binding validations", "error", err)
			}
		}
	})

	s := &Server{
		hub:    h,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.health)

	api := r.Group("/api/sessions")
	api.POST("", s.createSession)
	api.GET("/:id", s.getSession)

	authed := api.Group("/:id", s.requireSessionToken())
	authed.POST("/moves", s.submitMove)
	authed.POST("/reset", s.resetRound)
	authed.DELETE("/scores", s.resetScores)
	authed.PUT("/difficulty", s.setDifficulty)
	authed.PUT("/players", s.configurePlayers)
	authed.DELETE("", s.deleteSession)
	authed.GET("/ws", s.handleWebSocket)

	return r
}

// requireSessionToken accepts a bearer token, or a token query parameter for browsers
// opening a WebSocket, and checks it was issued to a player seated in the session in the
// path.
func (s *Server) requireSessionToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "missing session token")
			return
		}

		claims, err := s.tokens.Verify(tokenString)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rejected session token", "session.id", c.Param("id"), "error", err)
			response.AbortWithError(c, http.StatusUnauthorized, "invalid session token")
			return
		}
		if claims.SessionID != c.Param("id") {
			response.AbortWithError(c, http.StatusForbidden, "token was issued for another session")
			return
		}

		sess, err := s.hub.Get(claims.SessionID)
		if err != nil {
			s.fail(c, err)
			c.Abort()
			return
		}
		if _, ok := sess.PlayerByID(claims.Subject); !ok {
			slog.WarnContext(c.Request.Context(), "token holder is not seated", "session.id", sess.ID, "player.id", claims.Subject)
			response.AbortWithError(c, http.StatusForbidden, "token holder is not a player of this session")
			return
		}
		c.Set(claimsKey, claims)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// requestLogger starts a span per request and logs its outcome.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath(), trace.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		slog.DebugContext(ctx, "request handled",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status_code", status,
		)
	}
}
