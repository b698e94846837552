package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/evaluator"
)

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(3, HumanVsBot(true))
	is.NoErr(err)
	is.Equal(g.Playing(), Playing)
	is.Equal(g.PlayerOnTurn(), board.X)
	is.Equal(g.NickOnTurn(), "you")
	is.Equal(g.Ply(), 0)
	is.Equal(len(g.Uid()), 16)

	p, err := g.PlayerFor(board.O)
	is.NoErr(err)
	is.True(p.Bot)
	is.Equal(p.Mark, board.O)

	_, err = NewGame(1, BotVsBot())
	is.True(errors.Is(err, board.ErrInvalidDimension))
}

func TestBotMovesFirst(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(3, HumanVsBot(false))
	is.NoErr(err)
	is.Equal(g.NickOnTurn(), "AI")
}

func TestPlayToWin(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(3, BotVsBot())
	is.NoErr(err)
	moves := []board.Coord{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}}
	for _, m := range moves {
		is.NoErr(g.PlayMove(m, "human"))
	}
	is.Equal(g.Playing(), Playing)
	is.NoErr(g.PlayMove(board.Coord{Row: 0, Col: 2}, "evaluated"))
	is.Equal(g.Playing(), GameOver)
	is.Equal(g.Outcome().Outcome, evaluator.Won)
	is.Equal(g.Outcome().Winner, board.X)
	is.Equal(g.Ply(), 5)

	err = g.PlayMove(board.Coord{Row: 2, Col: 2}, "human")
	is.True(errors.Is(err, ErrGameOver))

	is.Equal(len(g.MovesBy(board.X)), 3)
	is.Equal(g.CountByMethod(), map[string]int{"human": 4, "evaluated": 1})
	is.Equal(g.History()[4].String(), "5. X (0, 2) (evaluated)")
}

func TestPlayOccupied(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(3, BotVsBot())
	is.NoErr(err)
	is.NoErr(g.PlayMove(board.Coord{Row: 1, Col: 1}, "human"))
	err = g.PlayMove(board.Coord{Row: 1, Col: 1}, "human")
	is.True(errors.Is(err, board.ErrCellOccupied))
	// A rejected move does not change whose turn it is.
	is.Equal(g.PlayerOnTurn(), board.O)
	is.Equal(g.Ply(), 1)
}

func TestDrawAndUndo(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(3, BotVsBot())
	is.NoErr(err)
	// Ends as XOX/XOO/OXX.
	order := []board.Coord{
		{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2},
		{Row: 1, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 2},
		{Row: 2, Col: 1}, {Row: 2, Col: 0}, {Row: 2, Col: 2},
	}
	for _, c := range order {
		is.NoErr(g.PlayMove(c, "human"))
	}
	is.Equal(g.Board().String(), "XOX/XOO/OXX")
	is.Equal(g.Outcome().Outcome, evaluator.Drawn)
	is.Equal(g.Playing(), GameOver)

	is.NoErr(g.UnplayLastMove())
	is.Equal(g.Playing(), Playing)
	is.Equal(g.PlayerOnTurn(), board.X)
	is.Equal(g.Outcome().Outcome, evaluator.Ongoing)
	is.Equal(g.Board().At(board.Coord{Row: 2, Col: 2}), board.Empty)

	for g.Ply() > 0 {
		is.NoErr(g.UnplayLastMove())
	}
	is.True(errors.Is(g.UnplayLastMove(), ErrNothingToUndo))
	is.Equal(g.HistoryString(), "")
}
