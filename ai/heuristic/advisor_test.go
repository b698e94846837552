package heuristic

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tictac/board"
)

func TestForcedMoveBlocksMaximizer(t *testing.T) {
	is := is.New(t)
	a := &Advisor{}
	// X holds two of the top row; O has something on row 1 that would be a
	// fallback candidate, but the forced cell wins.
	b := board.MustParse("XX./.O./...")
	s, ok := a.Suggest(b, board.O)
	is.True(ok)
	is.Equal(s.Kind, Forced)
	is.Equal(s.Move, board.Coord{Row: 0, Col: 2})
	is.Equal(s.Line.Kind, board.RowLine)
}

func TestForcedOverridesEarlierFallback(t *testing.T) {
	is := is.New(t)
	a := &Advisor{}
	// Column 0 is a fallback line for O (an O, no X). The X threat sits on
	// the anti-diagonal, which is visited last.
	b := board.MustParse("O.X/.X./...")
	s, ok := a.Suggest(b, board.O)
	is.True(ok)
	is.Equal(s.Kind, Forced)
	is.Equal(s.Move, board.Coord{Row: 2, Col: 0})
}

func TestForcedColumnAndDiagonals(t *testing.T) {
	is := is.New(t)
	a := &Advisor{}

	s, ok := a.Suggest(board.MustParse(".X./.XO/O.."), board.O)
	is.True(ok)
	is.Equal(s.Kind, Forced)
	is.Equal(s.Move, board.Coord{Row: 2, Col: 1})

	s, ok = a.Suggest(board.MustParse("XO./.X./O.."), board.O)
	is.True(ok)
	is.Equal(s.Kind, Forced)
	is.Equal(s.Move, board.Coord{Row: 2, Col: 2})
	is.Equal(s.Line.Kind, board.MainDiagonal)
}

func TestFallbackLastFoundWins(t *testing.T) {
	is := is.New(t)
	a := &Advisor{}
	// O at (1,1) and X at (0,0). Lines with an O and no X: row 1, column 1,
	// anti-diagonal. The anti-diagonal is the last one visited.
	b := board.MustParse("X../.O./...")
	s, ok := a.Suggest(b, board.O)
	is.True(ok)
	is.Equal(s.Kind, Fallback)
	is.Equal(s.Line.Kind, board.AntiDiagonal)
	is.Equal(s.Move, board.Coord{Row: 0, Col: 2})
}

func TestCoordsAlongColumns(t *testing.T) {
	is := is.New(t)
	a := &Advisor{}
	// Row 0 is visited first and is a forced block at (0, 2).
	b := board.MustParse("XX./X.O/O.O")
	s, ok := a.Suggest(b, board.O)
	is.True(ok)
	is.Equal(s.Kind, Forced)
	is.Equal(s.Move, board.Coord{Row: 0, Col: 2})

	b = board.MustParse("X../X../..O")
	// Column 0 is a forced block at (2, 0).
	s, ok = a.Suggest(b, board.O)
	is.True(ok)
	is.Equal(s.Move, board.Coord{Row: 2, Col: 0})

	b = board.MustParse("X.../...O/..../....")
	// 4x4: needs two of our own marks for a fallback. Nothing qualifies.
	_, ok = a.Suggest(b, board.O)
	is.True(!ok)

	b = board.MustParse("X..O/X..O/..../....")
	// Column 3 holds two O and no X; its first open cell is (2, 3), which
	// must come back as row 2, column 3 and not swapped.
	s, ok = a.Suggest(b, board.O)
	is.True(ok)
	is.Equal(s.Kind, Fallback)
	is.Equal(s.Move, board.Coord{Row: 2, Col: 3})
}

func TestNoSuggestion(t *testing.T) {
	is := is.New(t)
	a := &Advisor{}
	_, ok := a.Suggest(board.MustNewBoard(3), board.O)
	is.True(!ok)
	_, ok = a.Suggest(board.MustParse("X../.../..."), board.O)
	is.True(!ok)
}

func TestNeverSuggestsOccupiedCell(t *testing.T) {
	is := is.New(t)
	a := &Advisor{}
	// Walk every board reachable from the empty 3x3 board and check that
	// the suggestion, when there is one, is an empty cell.
	var walk func(b *board.Board, toMove board.Mark)
	visited := map[string]bool{}
	walk = func(b *board.Board, toMove board.Mark) {
		key := b.String()
		if visited[key] {
			return
		}
		visited[key] = true
		for _, self := range []board.Mark{board.X, board.O} {
			if s, ok := a.Suggest(b, self); ok {
				is.Equal(b.At(s.Move), board.Empty)
			}
		}
		if terminal(b) {
			return
		}
		for _, c := range b.EmptyCells() {
			b.Set(c, toMove)
			walk(b, toMove.Opponent())
			b.Clear(c)
		}
	}
	walk(board.MustNewBoard(3), board.X)
	is.True(len(visited) > 5000)
}

func terminal(b *board.Board) bool {
	for _, l := range b.Lines() {
		marks := b.LineMarks(l)
		if marks[0] == board.Empty {
			continue
		}
		same := true
		for _, m := range marks[1:] {
			if m != marks[0] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return b.IsFull()
}
