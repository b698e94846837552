package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/config"
	"github.com/domino14/tictac/game"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"new 4 easy",
			&shellcmd{"new", []string{"4", "easy"}, CmdOptions{}},
			nil},
		{"new -first ai",
			&shellcmd{"new", nil, CmdOptions{"first": {"ai"}}},
			nil},
		{"set heuristic-accept '1/2' ",
			&shellcmd{"set", []string{"heuristic-accept", "1/2"}, CmdOptions{}},
			nil},
		{"new 3 -first",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func newTestController() *ShellController {
	return newController(config.DefaultConfig(), &bytes.Buffer{}, nil)
}

func TestNoGameYet(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	ctx := context.Background()
	for _, line := range []string{"show", "play 1", "ai", "undo", "history"} {
		_, err := sc.handle(ctx, line)
		is.True(errors.Is(err, errNoGame))
	}
	_, err := sc.handle(ctx, "exit")
	is.True(errors.Is(err, errExit))
	_, err = sc.handle(ctx, "frobnicate")
	is.True(err != nil)
}

func TestHumanLoses(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	ctx := context.Background()

	resp, err := sc.handle(ctx, "new")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "New 3x3 game, hard mode. You play X.\n"))

	resp, err = sc.handle(ctx, "play 1")
	is.NoErr(err)
	// Against a corner opening only the centre holds.
	is.True(strings.HasPrefix(resp.message, "AI (O) evaluated move: 5\n"))

	resp, err = sc.handle(ctx, "2")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "AI (O) evaluated move: 3\n"))

	// Ignoring the threat on 7 loses.
	resp, err = sc.handle(ctx, "play 4")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "AI (O) evaluated move: 7"))
	is.True(strings.Contains(resp.message, "AI won"))
	is.Equal(sc.game.Playing(), game.GameOver)

	_, err = sc.handle(ctx, "play 9")
	is.True(errors.Is(err, game.ErrGameOver))

	resp, err = sc.handle(ctx, "history")
	is.NoErr(err)
	is.Equal(len(strings.Split(resp.message, "\n")), 6)

	// Take back the losing pair and play the block instead.
	_, err = sc.handle(ctx, "undo")
	is.NoErr(err)
	_, err = sc.handle(ctx, "undo")
	is.NoErr(err)
	resp, err = sc.handle(ctx, "play 7")
	is.NoErr(err)
	is.True(!strings.Contains(resp.message, "won"))
	is.Equal(sc.game.Board().At(board.Coord{Row: 2, Col: 0}), board.X)
}

func TestBadMoves(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	ctx := context.Background()
	_, err := sc.handle(ctx, "new")
	is.NoErr(err)
	_, err = sc.handle(ctx, "play 5")
	is.NoErr(err)

	_, err = sc.handle(ctx, "play 5")
	is.True(errors.Is(err, board.ErrCellOccupied))
	_, err = sc.handle(ctx, "play 10")
	is.True(errors.Is(err, board.ErrInvalidCoord))
	_, err = sc.handle(ctx, "play five")
	is.True(errors.Is(err, board.ErrInvalidCoord))
	_, err = sc.handle(ctx, "play")
	is.True(err != nil)
	is.Equal(sc.game.Ply(), 2)
}

func TestAIMovesFirst(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	ctx := context.Background()
	resp, err := sc.handle(ctx, "new -first ai")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "You play O."))
	is.True(strings.Contains(resp.message, "AI (X) evaluated move: 1\n"))
	is.Equal(sc.game.PlayerOnTurn(), board.O)

	_, err = sc.handle(ctx, "play 1")
	is.True(errors.Is(err, board.ErrCellOccupied))

	resp, err = sc.handle(ctx, "show")
	is.NoErr(err)
	is.True(strings.HasSuffix(resp.message, "O to move (you)"))

	_, err = sc.handle(ctx, "new -first nobody")
	is.True(err != nil)
}

func TestNewGameOptions(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	ctx := context.Background()
	resp, err := sc.handle(ctx, "new 4 easy")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "New 4x4 game, easy mode."))
	is.Equal(sc.game.Board().Dim(), 4)

	_, err = sc.handle(ctx, "new 1")
	is.True(errors.Is(err, board.ErrInvalidDimension))
	_, err = sc.handle(ctx, "new silly")
	is.True(err != nil)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	ctx := context.Background()

	resp, err := sc.handle(ctx, "set")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "heuristic-accept   2/3"))

	resp, err = sc.handle(ctx, "set difficulty easy")
	is.NoErr(err)
	is.Equal(resp.message, "set difficulty to easy")
	resp, err = sc.handle(ctx, "set difficulty")
	is.NoErr(err)
	is.Equal(resp.message, "difficulty = easy")

	_, err = sc.handle(ctx, "set board-size 99")
	is.True(errors.Is(err, config.ErrInvalidConfig))
	_, err = sc.handle(ctx, "set bot-channel bots.tictac")
	is.True(err != nil)

	resp, err = sc.handle(ctx, "new")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "easy mode"))
}

func TestSetDebugChangesLogLevel(t *testing.T) {
	is := is.New(t)
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	sc := newTestController()
	ctx := context.Background()

	_, err := sc.handle(ctx, "set debug true")
	is.NoErr(err)
	is.Equal(zerolog.GlobalLevel(), zerolog.DebugLevel)
	resp, err := sc.handle(ctx, "set debug")
	is.NoErr(err)
	is.Equal(resp.message, "debug = true")

	_, err = sc.handle(ctx, "set debug false")
	is.NoErr(err)
	is.Equal(zerolog.GlobalLevel(), zerolog.WarnLevel)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	ctx := context.Background()
	resp, err := sc.handle(ctx, "help")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Commands:"))
	resp, err = sc.handle(ctx, "help play")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "play <cell>"))
	resp, err = sc.handle(ctx, "help nope")
	is.NoErr(err)
	is.Equal(resp.message, "There is no help text for the topic nope")
}

func TestAutocomplete(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	c := NewShellCompleter(sc)

	matches, n := c.Do([]rune("un"), 2)
	is.Equal(n, 2)
	is.Equal(matches, [][]rune{[]rune("do")})

	matches, _ = c.Do([]rune("new -first "), 11)
	is.Equal(len(matches), 2)

	_, err := sc.handle(context.Background(), "new")
	is.NoErr(err)
	_, err = sc.handle(context.Background(), "play 5")
	is.NoErr(err)
	matches, _ = c.Do([]rune("play "), 5)
	// Nine cells, two taken.
	is.Equal(len(matches), 7)
}
