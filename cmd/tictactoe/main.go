package main

import (
	"context"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/console"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/logger"
	"ctchen222/tictactoe/internal/session"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

var (
	modeFlag       = flag.String("mode", "computer", "opponent: human or computer")
	difficultyFlag = flag.String("difficulty", "easy", "computer level: easy, medium or hard")
	markFlag       = flag.String("mark", "X", "mark you play against the computer: X or O")
	firstFlag      = flag.String("first", "X", "mark that moves first: X, O or random")
	thinkFlag      = flag.Duration("think", 300*time.Millisecond, "pause before the computer moves")
	logLevelFlag   = flag.String("log-level", "warn", "log level written to stderr")
)

func main() {
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevelFlag)); err != nil {
		level = slog.LevelWarn
	}
	slog.SetDefault(logger.New(os.Stderr, level, false))

	difficulty, err := bot.ParseDifficulty(*difficultyFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	first := game.Mark(strings.ToUpper(*firstFlag))
	if strings.EqualFold(*firstFlag, "random") {
		first = game.RandomMark()
	}

	opts := session.Options{
		Mode:       session.Mode(strings.ToLower(*modeFlag)),
		Difficulty: difficulty,
		HumanMark:  game.Mark(strings.ToUpper(*markFlag)),
		FirstMark:  first,
		ThinkDelay: *thinkFlag,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := console.New(os.Stdin, os.Stdout, opts).Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
