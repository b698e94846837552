package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/ai/selector"
	"github.com/domino14/tictac/automatic"
	"github.com/domino14/tictac/config"
)

// autoplay [flags] [x-difficulty [o-difficulty]]
//
// With no positional arguments both sides play at the configured difficulty.
func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	opts := automatic.Options{XDifficulty: cfg.Difficulty, ODifficulty: cfg.Difficulty}
	if len(cfg.Args) > 2 {
		log.Fatal().Strs("args", cfg.Args).Msg("expected at most two difficulties")
	}
	for i, arg := range cfg.Args {
		d, err := selector.ParseDifficulty(arg)
		if err != nil {
			log.Fatal().Err(err).Msg("bad difficulty")
		}
		if i == 0 {
			opts.XDifficulty, opts.ODifficulty = d, d
		} else {
			opts.ODifficulty = d
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("got quit signal, finishing games in progress...")
		cancel()
	}()

	summary, err := automatic.StartCompVComp(ctx, cfg, opts)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("autoplay failed")
	}
	if summary != nil {
		fmt.Print(summary.String())
	}
}
