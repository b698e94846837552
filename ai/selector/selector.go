// Package selector decides, turn by turn, whether the computer player
// searches the game tree or settles for a cheap estimate.
package selector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/tictac/ai/alphabeta"
	"github.com/domino14/tictac/ai/heuristic"
	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/evaluator"
)

var (
	ErrNoMoveAvailable = errors.New("no move available")
	ErrInvalidOdds     = errors.New("invalid odds")
	ErrUnknownLevel    = errors.New("unknown difficulty")
)

type Difficulty int

const (
	Hard Difficulty = iota
	Easy
)

func (d Difficulty) String() string {
	if d == Easy {
		return "easy"
	}
	return "hard"
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "e":
		return Easy, nil
	case "hard", "h", "":
		return Hard, nil
	}
	return Hard, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Method is how a move was arrived at.
type Method int

const (
	Estimated Method = iota
	Searched
)

func (m Method) String() string {
	if m == Searched {
		return "evaluated"
	}
	return "estimated"
}

// MatchContext is what the selector needs to know about the game beyond the
// board itself. Ply is the number of marks already placed.
type MatchContext struct {
	Ply        int
	Difficulty Difficulty
	ToMove     board.Mark
}

// Decision is the chosen move. Value is the search value from X's point of
// view when Searched is true, and the line differential otherwise.
type Decision struct {
	Move     board.Coord
	Method   Method
	Value    int
	Searched bool
}

// Odds is a Num-in-Den chance.
type Odds struct {
	Num int
	Den int
}

func (o Odds) String() string {
	return fmt.Sprintf("%d/%d", o.Num, o.Den)
}

func (o Odds) Validate() error {
	if o.Den <= 0 || o.Num < 0 || o.Num > o.Den {
		return fmt.Errorf("%w: %d/%d", ErrInvalidOdds, o.Num, o.Den)
	}
	return nil
}

// Draw reports whether a draw against r comes up.
func (o Odds) Draw(r Randomizer) bool {
	if o.Num <= 0 {
		return false
	}
	if o.Num >= o.Den {
		return true
	}
	return r.Intn(o.Den) < o.Num
}

// ParseOdds reads odds written as "num/den".
func ParseOdds(s string) (Odds, error) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		return Odds{}, fmt.Errorf("%w: %q is not num/den", ErrInvalidOdds, s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return Odds{}, fmt.Errorf("%w: %w", ErrInvalidOdds, err)
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil {
		return Odds{}, fmt.Errorf("%w: %w", ErrInvalidOdds, err)
	}
	o := Odds{Num: n, Den: d}
	return o, o.Validate()
}

// Randomizer is the source of every random choice the selector makes.
type Randomizer interface {
	Intn(n int) int
}

type frandRandomizer struct{}

func (frandRandomizer) Intn(n int) int {
	return frand.Intn(n)
}

// DefaultRandomizer uses a fast CSPRNG.
var DefaultRandomizer Randomizer = frandRandomizer{}

type Params struct {
	// SearchPlyMargin: search only once fewer than this many plies are
	// left before the board fills up.
	SearchPlyMargin int
	// HeuristicAccept is the chance an advisor suggestion is taken.
	HeuristicAccept Odds
	// EasyRandomMove is the chance an easy estimate is a random cell.
	EasyRandomMove Odds
	// EasyEstimate is the chance an easy player estimates even late in
	// the game.
	EasyEstimate Odds
	CacheSolves  bool
	// NodeCheckInterval is passed on to the solver; zero keeps its default.
	NodeCheckInterval int
}

func DefaultParams() Params {
	return Params{
		SearchPlyMargin: 10,
		HeuristicAccept: Odds{Num: 2, Den: 3},
		EasyRandomMove:  Odds{Num: 1, Den: 2},
		EasyEstimate:    Odds{Num: 1, Den: 2},
	}
}

func (p Params) Validate() error {
	if p.SearchPlyMargin < 0 {
		return fmt.Errorf("search ply margin must not be negative: %d", p.SearchPlyMargin)
	}
	for _, o := range []Odds{p.HeuristicAccept, p.EasyRandomMove, p.EasyEstimate} {
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Selector picks moves for one game. It is not safe for concurrent use.
type Selector struct {
	params  Params
	rng     Randomizer
	advisor *heuristic.Advisor
	solver  *alphabeta.Solver
}

// NewSelector creates a selector. A nil rng means DefaultRandomizer.
func NewSelector(p Params, rng Randomizer) *Selector {
	if rng == nil {
		rng = DefaultRandomizer
	}
	solver := &alphabeta.Solver{}
	solver.SetCacheEnabled(p.CacheSolves)
	solver.SetNodeCheckInterval(p.NodeCheckInterval)
	return &Selector{
		params:  p,
		rng:     rng,
		advisor: &heuristic.Advisor{},
		solver:  solver,
	}
}

func (s *Selector) Params() Params {
	return s.params
}

func (s *Selector) Solver() *alphabeta.Solver {
	return s.solver
}

// ShouldEstimate decides between the cheap path and a full search. Early in
// the game the tree is too big to be worth searching.
func (s *Selector) ShouldEstimate(b *board.Board, mc MatchContext) bool {
	if mc.Ply <= b.NumCells()-s.params.SearchPlyMargin {
		return true
	}
	return mc.Difficulty == Easy && s.params.EasyEstimate.Draw(s.rng)
}

// Estimate picks a move without searching. It tries the advisor first,
// then (for easy players) a random cell, then the cell that leaves the
// opponent the fewest open lines relative to our own.
func (s *Selector) Estimate(b *board.Board, mc MatchContext) (Decision, error) {
	empties := b.EmptyCells()
	if len(empties) == 0 {
		return Decision{}, ErrNoMoveAvailable
	}
	if sg, ok := s.advisor.Suggest(b, mc.ToMove); ok && s.params.HeuristicAccept.Draw(s.rng) {
		log.Debug().Str("kind", sg.Kind.String()).Str("move", sg.Move.String()).Msg("advisor-accepted")
		return Decision{Move: sg.Move, Method: Estimated}, nil
	}
	if mc.Difficulty == Easy && s.params.EasyRandomMove.Draw(s.rng) {
		mv := empties[s.rng.Intn(len(empties))]
		log.Debug().Str("move", mv.String()).Msg("random-move")
		return Decision{Move: mv, Method: Estimated}, nil
	}

	best := Decision{Method: Estimated}
	for i, c := range empties {
		b.Set(c, mc.ToMove)
		d := evaluator.Differential(b, mc.ToMove)
		b.Clear(c)
		if i == 0 || d < best.Value {
			best.Move = c
			best.Value = d
		}
	}
	log.Debug().Str("move", best.Move.String()).Int("differential", best.Value).Msg("estimated-move")
	return best, nil
}

// ChooseMove is the single entry point for the computer player. The board
// is the same when it returns as when it was passed in.
func (s *Selector) ChooseMove(ctx context.Context, b *board.Board, mc MatchContext) (Decision, error) {
	if err := b.Validate(); err != nil {
		return Decision{}, err
	}
	if mc.ToMove != board.X && mc.ToMove != board.O {
		return Decision{}, fmt.Errorf("%w: %v cannot move", board.ErrInvalidMark, mc.ToMove)
	}
	if res := evaluator.Classify(b); res.Terminal() {
		return Decision{}, fmt.Errorf("%w: game is %v", ErrNoMoveAvailable, res.Outcome)
	}

	if s.ShouldEstimate(b, mc) {
		return s.Estimate(b, mc)
	}

	// X is always the maximizer.
	if err := s.solver.Init(b, board.X); err != nil {
		return Decision{}, err
	}
	res, err := s.solver.Solve(ctx, mc.ToMove)
	if err != nil {
		return Decision{}, err
	}
	if !res.HasMove {
		return Decision{}, ErrNoMoveAvailable
	}
	log.Debug().Int("ply", mc.Ply).Int("nodes", s.solver.TotalNodes()).
		Str("move", res.Move.String()).Int("value", res.Value).Msg("searched-move")
	return Decision{Move: res.Move, Method: Searched, Value: res.Value, Searched: true}, nil
}
