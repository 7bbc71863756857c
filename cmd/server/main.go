package main

import (
	"context"
	"ctchen222/tictactoe/internal/auth"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/db"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/hub"
	"ctchen222/tictactoe/internal/logger"
	"ctchen222/tictactoe/internal/server"
	"ctchen222/tictactoe/internal/telemetry"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
)

var configPath = flag.String("config", os.Getenv("CONFIG_PATH"), "path to the yaml config file")

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Otel)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()
	logger.Init(cfg.SlogLevel(), cfg.Otel.Enabled)

	metrics, err := telemetry.NewMetrics(otel.Meter("tictactoe"))
	if err != nil {
		log.Fatalf("failed to create metrics: %v", err)
	}

	difficulty, err := bot.ParseDifficulty(cfg.Session.DefaultDifficulty)
	if err != nil {
		log.Fatalf("invalid default difficulty: %v", err)
	}

	// Initialize Redis
	var publisher events.Publisher
	if cfg.Redis.Enabled {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("failed to initialize redis: %v", err)
		}
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb)
		slog.Info("Mirroring session events to redis", "redis.addr", cfg.Redis.GetRedisAddr())
	}

	// Create hub
	h := hub.NewHub(hub.Config{
		ThinkDelay:        cfg.Session.ThinkDelay,
		IdleTTL:           cfg.Session.IdleTTL,
		SweepInterval:     cfg.Session.SweepInterval,
		DefaultDifficulty: difficulty,
	}, publisher, metrics)
	hubCtx, stopHub := context.WithCancel(ctx)
	hubDone := make(chan struct{})
	go func() {
		h.Run(hubCtx)
		close(hubDone)
	}()

	if cfg.SlogLevel() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.NewServer(h, auth.NewTokenIssuer(cfg.JWTSecretKey, cfg.TokenTTL))

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("http server started", "http.addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	stopHub()
	<-hubDone

	slog.Info("Server exiting")
}
