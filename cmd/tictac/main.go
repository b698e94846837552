package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/config"
	"github.com/domino14/tictac/shell"
)

var (
	GitVersion string
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	// The global level gates everything, so `set debug` can change it later.
	logger := zerolog.New(output).With().Timestamp().Logger()
	shell.SetLogLevel(cfg.Debug)
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")

	fmt.Printf("tictac %s - %dx%d, %v mode. Type help for commands.\n",
		GitVersion, cfg.BoardSize, cfg.BoardSize, cfg.Difficulty)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Debug().Msg("got quit signal...")
		cancel()
		close(idleConnsClosed)
	}()

	sc, err := shell.NewShellController(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not start the shell")
	}
	go sc.Loop(ctx, sig)

	<-idleConnsClosed
	log.Debug().Msg("shell gracefully shutting down")
}
