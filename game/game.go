// Package game keeps the state of one match, from the first move to the
// result. How moves are chosen is up to the caller.
package game

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/evaluator"
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrNothingToUndo = errors.New("no moves to undo")
)

type PlayState int

const (
	Playing PlayState = iota
	GameOver
)

func (p PlayState) String() string {
	if p == GameOver {
		return "game over"
	}
	return "playing"
}

// Game is the match state. X always moves first.
type Game struct {
	uid     string
	board   *board.Board
	onturn  board.Mark
	playing PlayState
	result  evaluator.Result
	players [2]Player
	history []Turn
}

func newUID() string {
	return hex.EncodeToString(frand.Bytes(8))
}

// NewGame starts a game on an empty dim x dim board. players[0] plays X and
// players[1] plays O.
func NewGame(dim int, players [2]Player) (*Game, error) {
	b, err := board.NewBoard(dim)
	if err != nil {
		return nil, err
	}
	players[0].Mark = board.X
	players[1].Mark = board.O
	g := &Game{
		uid:     newUID(),
		board:   b,
		onturn:  board.X,
		players: players,
	}
	log.Debug().Str("uid", g.uid).Int("dim", dim).
		Str("x", players[0].Nickname).Str("o", players[1].Nickname).Msg("new-game")
	return g, nil
}

// PlayMove puts the mark of the player on turn on c, records the turn and
// checks whether the game is over.
func (g *Game) PlayMove(c board.Coord, method string) error {
	if g.playing == GameOver {
		return ErrGameOver
	}
	if err := g.board.Play(c, g.onturn); err != nil {
		return err
	}
	g.history = append(g.history, Turn{
		Ply:    len(g.history),
		Mark:   g.onturn,
		Move:   c,
		Method: method,
	})
	g.result = evaluator.Classify(g.board)
	if g.result.Terminal() {
		g.playing = GameOver
		log.Debug().Str("uid", g.uid).Str("outcome", g.result.Outcome.String()).
			Str("winner", g.result.Winner.String()).Msg("game-ended")
	}
	g.onturn = g.onturn.Opponent()
	return nil
}

// UnplayLastMove takes back the most recent turn.
func (g *Game) UnplayLastMove() error {
	if len(g.history) == 0 {
		return ErrNothingToUndo
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.board.Clear(last.Move)
	g.onturn = last.Mark
	g.result = evaluator.Classify(g.board)
	g.playing = Playing
	return nil
}

func (g *Game) Uid() string {
	return g.uid
}

// Board is the live board. Callers that hand it to a searcher get it back
// unchanged; callers that want to scribble on it should Copy it first.
func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) Playing() PlayState {
	return g.playing
}

func (g *Game) Outcome() evaluator.Result {
	return g.result
}

// Ply is the number of marks placed so far.
func (g *Game) Ply() int {
	return len(g.history)
}

func (g *Game) PlayerOnTurn() board.Mark {
	return g.onturn
}

// PlayerFor returns the player holding mark m.
func (g *Game) PlayerFor(m board.Mark) (Player, error) {
	switch m {
	case board.X:
		return g.players[0], nil
	case board.O:
		return g.players[1], nil
	}
	return Player{}, fmt.Errorf("%w: no player holds %v", board.ErrInvalidMark, m)
}

func (g *Game) NickOnTurn() string {
	p, _ := g.PlayerFor(g.onturn)
	return p.Nickname
}

func (g *Game) History() []Turn {
	return g.history
}
