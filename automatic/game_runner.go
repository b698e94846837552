// Package automatic plays computer-vs-computer games, for measuring how the
// easy and hard players fare against each other.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/ai/selector"
	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/config"
	"github.com/domino14/tictac/evaluator"
	"github.com/domino14/tictac/game"
)

// LogHeader names the columns of the move log.
const LogHeader = "playerID,gameID,ply,mark,row,col,method,value,outcome\n"

// GameRunner is the master struct here for the automatic game logic.
type GameRunner struct {
	game         *game.Game
	config       *config.Config
	logchan      chan string
	selectors    [2]*selector.Selector
	difficulties [2]selector.Difficulty
}

// GameRecord is what a finished game leaves behind.
type GameRecord struct {
	UID       string
	Outcome   evaluator.Outcome
	Winner    board.Mark
	Plies     int
	Estimated int
	Searched  int
}

// NewGameRunner just instantiates and initializes a game runner. Both
// players use the same rng; a nil rng means the selector default.
func NewGameRunner(logchan chan string, cfg *config.Config, xDiff, oDiff selector.Difficulty,
	rng selector.Randomizer) *GameRunner {

	r := &GameRunner{logchan: logchan, config: cfg}
	r.difficulties = [2]selector.Difficulty{xDiff, oDiff}
	for i := range r.selectors {
		r.selectors[i] = selector.NewSelector(cfg.SelectorParams(), rng)
	}
	return r
}

// StartGame sets up a fresh board.
func (r *GameRunner) StartGame() error {
	g, err := game.NewGame(r.config.BoardSize, game.BotVsBot())
	if err != nil {
		return err
	}
	r.game = g
	return nil
}

func playerIdx(m board.Mark) int {
	if m == board.O {
		return 1
	}
	return 0
}

// PlayBestTurn asks the player on turn for a move and plays it.
func (r *GameRunner) PlayBestTurn(ctx context.Context) (selector.Decision, error) {
	onturn := r.game.PlayerOnTurn()
	idx := playerIdx(onturn)
	mc := selector.MatchContext{
		Ply:        r.game.Ply(),
		Difficulty: r.difficulties[idx],
		ToMove:     onturn,
	}
	nick := r.game.NickOnTurn()
	d, err := r.selectors[idx].ChooseMove(ctx, r.game.Board(), mc)
	if err != nil {
		return d, err
	}
	if err := r.game.PlayMove(d.Move, d.Method.String()); err != nil {
		return d, err
	}
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v,%v\n",
			nick,
			r.game.Uid(),
			mc.Ply+1,
			onturn,
			d.Move.Row,
			d.Move.Col,
			d.Method,
			d.Value,
			r.game.Outcome().Outcome)
	}
	return d, nil
}

// PlayFullGame plays a new game to the end.
func (r *GameRunner) PlayFullGame(ctx context.Context) (GameRecord, error) {
	if err := r.StartGame(); err != nil {
		return GameRecord{}, err
	}
	rec := GameRecord{UID: r.game.Uid()}
	for r.game.Playing() == game.Playing {
		d, err := r.PlayBestTurn(ctx)
		if err != nil {
			return rec, err
		}
		if d.Searched {
			rec.Searched++
		} else {
			rec.Estimated++
		}
	}
	res := r.game.Outcome()
	rec.Outcome = res.Outcome
	rec.Winner = res.Winner
	rec.Plies = r.game.Ply()
	log.Debug().Str("uid", rec.UID).Str("outcome", rec.Outcome.String()).
		Str("winner", rec.Winner.String()).Int("plies", rec.Plies).Msg("autoplay-game-over")
	return rec, nil
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}
