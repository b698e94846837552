package alphabeta

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/evaluator"
)

// minimax is a plain, unpruned minimax used to check the solver.
func minimax(b *board.Board, toMove, maximizer board.Mark) int {
	winner, terminal := evaluator.Winner(b)
	if terminal {
		switch winner {
		case maximizer:
			return WinValue
		case maximizer.Opponent():
			return LossValue
		}
		return DrawValue
	}
	best := 0
	first := true
	for _, c := range b.EmptyCells() {
		b.Set(c, toMove)
		v := minimax(b, toMove.Opponent(), maximizer)
		b.Clear(c)
		if first || (toMove == maximizer && v > best) || (toMove != maximizer && v < best) {
			best = v
			first = false
		}
	}
	return best
}

func TestEmptyBoardIsDraw(t *testing.T) {
	is := is.New(t)
	b := board.MustNewBoard(3)
	s := &Solver{}
	is.NoErr(s.Init(b, board.X))

	res := s.Maximize(LossValue, WinValue)
	is.Equal(res.Value, DrawValue)
	is.True(res.HasMove)
	is.Equal(res.Move, board.Coord{Row: 0, Col: 0})
	is.True(b.Equal(board.MustNewBoard(3)))
}

func TestTerminalHasNoMove(t *testing.T) {
	is := is.New(t)
	s := &Solver{}
	is.NoErr(s.Init(board.MustParse("XXX/OO./..."), board.X))
	res, err := s.Solve(context.Background(), board.O)
	is.NoErr(err)
	is.Equal(res.Value, WinValue)
	is.True(!res.HasMove)

	is.NoErr(s.Init(board.MustParse("XOX/XOO/OXX"), board.X))
	res = s.Minimize(LossValue, WinValue)
	is.Equal(res.Value, DrawValue)
	is.True(!res.HasMove)
}

func TestFindsImmediateWin(t *testing.T) {
	is := is.New(t)
	// O to move; O wins at once on (1, 2).
	b := board.MustParse("XX./OO./X..")
	s := &Solver{}
	is.NoErr(s.Init(b, board.X))
	res, err := s.Solve(context.Background(), board.O)
	is.NoErr(err)
	is.Equal(res.Value, LossValue)
	is.Equal(res.Move, board.Coord{Row: 1, Col: 2})
}

func TestMatchesMinimaxOnAllReachableBoards(t *testing.T) {
	is := is.New(t)
	s := &Solver{}
	visited := map[string]bool{}
	var walk func(b *board.Board, toMove board.Mark)
	walk = func(b *board.Board, toMove board.Mark) {
		key := b.String()
		if visited[key] {
			return
		}
		visited[key] = true

		before := b.Copy()
		is.NoErr(s.Init(b, board.X))
		res, err := s.Solve(context.Background(), toMove)
		is.NoErr(err)
		is.True(b.Equal(before))
		is.Equal(res.Value, minimax(b, toMove, board.X))

		_, terminal := evaluator.Winner(b)
		if terminal {
			is.True(!res.HasMove)
			return
		}
		is.True(res.HasMove)
		is.Equal(b.At(res.Move), board.Empty)
		// The move must actually achieve the value.
		b.Set(res.Move, toMove)
		is.Equal(minimax(b, toMove.Opponent(), board.X), res.Value)
		b.Clear(res.Move)

		for _, c := range b.EmptyCells() {
			b.Set(c, toMove)
			walk(b, toMove.Opponent())
			b.Clear(c)
		}
	}
	walk(board.MustNewBoard(3), board.X)
	is.Equal(len(visited), 5478)
}

func TestMinimizerAsMaximizerMark(t *testing.T) {
	is := is.New(t)
	// Same position, opposite perspective: the value flips sign.
	b := board.MustParse("X../.O./..X")
	sx := &Solver{}
	is.NoErr(sx.Init(b, board.X))
	rx, err := sx.Solve(context.Background(), board.O)
	is.NoErr(err)

	so := &Solver{}
	is.NoErr(so.Init(b, board.O))
	ro, err := so.Solve(context.Background(), board.O)
	is.NoErr(err)
	is.Equal(rx.Value, -ro.Value)
	is.Equal(rx.Move, ro.Move)
}

func TestCacheReturnsFreshResult(t *testing.T) {
	is := is.New(t)
	b := board.MustParse("X../.O./...")
	s := &Solver{}
	s.SetCacheEnabled(true)
	is.NoErr(s.Init(b, board.X))

	fresh, err := s.Solve(context.Background(), board.X)
	is.NoErr(err)
	is.True(s.TotalNodes() > 0)
	is.Equal(s.CacheSize(), 1)

	cached, err := s.Solve(context.Background(), board.X)
	is.NoErr(err)
	is.Equal(cached, fresh)
	// A hit visits no nodes; the count from the first solve is gone.
	is.Equal(s.TotalNodes(), 0)

	// Different side to move is a different entry.
	_, err = s.Solve(context.Background(), board.O)
	is.NoErr(err)
	is.Equal(s.CacheSize(), 2)

	// Re-initializing with another maximizer throws the cache away.
	is.NoErr(s.Init(b, board.O))
	is.Equal(s.CacheSize(), 0)
}

// countdownCtx reports cancellation after a fixed number of Err calls.
type countdownCtx struct {
	context.Context
	left int
}

func (c *countdownCtx) Err() error {
	c.left--
	if c.left < 0 {
		return context.Canceled
	}
	return nil
}

func TestCancelledSearchRestoresBoard(t *testing.T) {
	is := is.New(t)
	b := board.MustNewBoard(4)
	before := b.Copy()
	s := &Solver{}
	s.SetNodeCheckInterval(1)
	is.NoErr(s.Init(b, board.X))

	ctx := &countdownCtx{Context: context.Background(), left: 500}
	_, err := s.Solve(ctx, board.X)
	is.True(errors.Is(err, ErrSearchCancelled))
	is.True(errors.Is(err, context.Canceled))
	is.True(b.Equal(before))

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Solve(cctx, board.X)
	is.True(errors.Is(err, ErrSearchCancelled))
}

func TestInvalidArguments(t *testing.T) {
	is := is.New(t)
	s := &Solver{}
	_, err := s.Solve(context.Background(), board.X)
	is.True(errors.Is(err, ErrNotInitialized))

	is.True(errors.Is(s.Init(board.MustNewBoard(3), board.Empty), board.ErrInvalidMark))
	is.NoErr(s.Init(board.MustNewBoard(3), board.X))
	_, err = s.Solve(context.Background(), board.Empty)
	is.True(errors.Is(err, board.ErrInvalidMark))
}

func TestSolvesLate4x4(t *testing.T) {
	is := is.New(t)
	// X to move. (3, 3) completes the main diagonal and also blocks column 3;
	// every other move lets O win there.
	b := board.MustParse("X..O/.X.O/..XO/....")
	s := &Solver{}
	is.NoErr(s.Init(b, board.X))
	res, err := s.Solve(context.Background(), board.X)
	is.NoErr(err)
	is.Equal(res.Value, WinValue)
	is.Equal(res.Move, board.Coord{Row: 3, Col: 3})
}

func BenchmarkSolveEmpty3x3(b *testing.B) {
	bd := board.MustNewBoard(3)
	s := &Solver{}
	if err := s.Init(bd, board.X); err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		s.Solve(context.Background(), board.X)
	}
}
