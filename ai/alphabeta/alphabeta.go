// Package alphabeta solves tic-tac-toe positions exactly, using minimax
// with alpha-beta pruning all the way down to terminal positions.
package alphabeta

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/evaluator"
	"github.com/domino14/tictac/zobrist"
)

// thanks Wikipedia:
/**function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
		for each child of node do
			play(child)
			value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
			unplayLastMove()
            α := max(α, value)
            if α ≥ β then
                break (* β cut-off *)
        return value
    else
        value := +∞
		for each child of node do
			play(child)
			value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
			unplayLastMove()
            β := min(β, value)
            if α ≥ β then
                break (* α cut-off *)
        return value
**/
// There is no depth here; every leaf is a finished game, so the value
// domain is just {-1, 0, 1} and that is also the initial window.

const (
	// LossValue means the minimizer wins with perfect play.
	LossValue = -1
	DrawValue = 0
	// WinValue means the maximizer wins with perfect play.
	WinValue = 1

	// DefaultNodeCheckInterval is how many nodes we expand between checks
	// of the context.
	DefaultNodeCheckInterval = 4096
)

var (
	ErrSearchCancelled = errors.New("search cancelled")
	ErrNotInitialized  = errors.New("solver has no board")
)

// SearchResult is a game-theoretic value from the maximizer's point of view
// plus the move that achieves it. HasMove is false at terminal positions.
type SearchResult struct {
	Value   int
	Move    board.Coord
	HasMove bool
}

func (r SearchResult) String() string {
	if !r.HasMove {
		return fmt.Sprintf("<value %d, no move>", r.Value)
	}
	return fmt.Sprintf("<value %d, move %v>", r.Value, r.Move)
}

// PositionResult is a cached root solve. The cells are kept so that a hash
// collision can never hand back a result for a different position.
type PositionResult struct {
	cells  []board.Mark
	result SearchResult
}

// Solver implements the minimax + alphabeta algorithm. It works directly on
// the caller's board: every mark it places is removed again before the
// method that placed it returns. A Solver is not safe for concurrent use.
type Solver struct {
	board     *board.Board
	maximizer board.Mark
	minimizer board.Mark

	totalNodes        int
	nodeCheckInterval int
	ctx               context.Context
	stopped           bool

	cacheEnabled bool
	zobrist      *zobrist.Zobrist
	positionHash map[uint64]*PositionResult
}

// Init points the solver at a board. maximizer is the mark whose wins are
// worth +1.
func (s *Solver) Init(b *board.Board, maximizer board.Mark) error {
	if b == nil {
		return ErrNotInitialized
	}
	if maximizer != board.X && maximizer != board.O {
		return fmt.Errorf("%w: maximizer must be X or O, not %v", board.ErrInvalidMark, maximizer)
	}
	if s.zobrist == nil || s.zobrist.BoardDim() != b.Dim() || s.maximizer != maximizer {
		// Cached values are only meaningful for one board size and one
		// maximizer.
		s.zobrist = &zobrist.Zobrist{}
		s.zobrist.Initialize(b.Dim())
		s.positionHash = make(map[uint64]*PositionResult)
	}
	s.board = b
	s.maximizer = maximizer
	s.minimizer = maximizer.Opponent()
	if s.nodeCheckInterval <= 0 {
		s.nodeCheckInterval = DefaultNodeCheckInterval
	}
	return nil
}

// SetCacheEnabled turns the root-solve cache on or off.
func (s *Solver) SetCacheEnabled(e bool) {
	s.cacheEnabled = e
}

func (s *Solver) SetNodeCheckInterval(n int) {
	s.nodeCheckInterval = n
}

// TotalNodes is the number of nodes visited by the last Solve.
func (s *Solver) TotalNodes() int {
	return s.totalNodes
}

// CacheSize is the number of root positions cached so far.
func (s *Solver) CacheSize() int {
	return len(s.positionHash)
}

// terminalValue maps a finished game to its value.
func (s *Solver) terminalValue() (int, bool) {
	winner, terminal := evaluator.Winner(s.board)
	if !terminal {
		return 0, false
	}
	switch winner {
	case s.maximizer:
		return WinValue, true
	case s.minimizer:
		return LossValue, true
	}
	return DrawValue, true
}

func (s *Solver) visit() {
	s.totalNodes++
	if s.ctx != nil && s.totalNodes%s.nodeCheckInterval == 0 && s.ctx.Err() != nil {
		s.stopped = true
	}
}

// Maximize places the maximizer's mark on every empty cell in row-major
// order and keeps the best reply. Among equal values the first one found is
// kept. It returns early once the best value reaches beta.
func (s *Solver) Maximize(alpha, beta int) SearchResult {
	s.visit()
	if v, terminal := s.terminalValue(); terminal {
		return SearchResult{Value: v}
	}
	var best SearchResult
	dim := s.board.Dim()
	cells := s.board.Cells()
	for idx := range cells {
		if cells[idx] != board.Empty {
			continue
		}
		c := board.CoordFromIndex(dim, idx)
		s.board.Set(c, s.maximizer)
		child := s.Minimize(alpha, beta)
		s.board.Clear(c)
		if s.stopped {
			return best
		}
		if !best.HasMove || child.Value > best.Value {
			best = SearchResult{Value: child.Value, Move: c, HasMove: true}
		}
		if best.Value >= beta {
			return best
		}
		alpha = max(alpha, best.Value)
	}
	return best
}

// Minimize is the mirror image of Maximize for the minimizer's mark. It
// returns early once the best value drops to alpha.
func (s *Solver) Minimize(alpha, beta int) SearchResult {
	s.visit()
	if v, terminal := s.terminalValue(); terminal {
		return SearchResult{Value: v}
	}
	var best SearchResult
	dim := s.board.Dim()
	cells := s.board.Cells()
	for idx := range cells {
		if cells[idx] != board.Empty {
			continue
		}
		c := board.CoordFromIndex(dim, idx)
		s.board.Set(c, s.minimizer)
		child := s.Maximize(alpha, beta)
		s.board.Clear(c)
		if s.stopped {
			return best
		}
		if !best.HasMove || child.Value < best.Value {
			best = SearchResult{Value: child.Value, Move: c, HasMove: true}
		}
		if best.Value <= alpha {
			return best
		}
		beta = min(beta, best.Value)
	}
	return best
}

// Solve finds the exact value of the position for toMove and the first
// move, in row-major order, that achieves it. The board is left exactly as
// it was, even if ctx is cancelled part way through.
func (s *Solver) Solve(ctx context.Context, toMove board.Mark) (SearchResult, error) {
	if s.board == nil {
		return SearchResult{}, ErrNotInitialized
	}
	if toMove != s.maximizer && toMove != s.minimizer {
		return SearchResult{}, fmt.Errorf("%w: cannot search for %v", board.ErrInvalidMark, toMove)
	}
	if err := ctx.Err(); err != nil {
		return SearchResult{}, fmt.Errorf("%w: %w", ErrSearchCancelled, err)
	}

	s.totalNodes = 0
	var key uint64
	if s.cacheEnabled {
		key = s.zobrist.Hash(s.board, toMove)
		if pr, ok := s.positionHash[key]; ok && cellsEqual(pr.cells, s.board.Cells()) {
			log.Debug().Str("result", pr.result.String()).Msg("alphabeta-cache-hit")
			return pr.result, nil
		}
	}

	s.ctx = ctx
	s.stopped = false
	defer func() { s.ctx = nil }()

	var res SearchResult
	if toMove == s.maximizer {
		res = s.Maximize(LossValue, WinValue)
	} else {
		res = s.Minimize(LossValue, WinValue)
	}
	if s.stopped {
		log.Debug().Int("nodes", s.totalNodes).Msg("alphabeta-cancelled")
		return SearchResult{}, fmt.Errorf("%w: %w", ErrSearchCancelled, ctx.Err())
	}
	log.Debug().Int("nodes", s.totalNodes).Str("to-move", toMove.String()).
		Str("result", res.String()).Msg("alphabeta-solved")

	if s.cacheEnabled {
		cells := make([]board.Mark, len(s.board.Cells()))
		copy(cells, s.board.Cells())
		s.positionHash[key] = &PositionResult{cells: cells, result: res}
	}
	return res, nil
}

func cellsEqual(a, b []board.Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
