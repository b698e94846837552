// Package evaluator classifies a board as won, drawn or still going, and
// computes the cheap line-counting heuristic used by the estimator.
package evaluator

import (
	"github.com/domino14/tictac/board"
)

// Outcome is the coarse state of a game.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Won
	Drawn
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Drawn:
		return "drawn"
	}
	return "unknown"
}

// Result is what Classify returns. Winner and Line are only set when
// Outcome is Won.
type Result struct {
	Outcome Outcome
	Winner  board.Mark
	Line    board.Line
}

// Terminal is true for a won or drawn board.
func (r Result) Terminal() bool {
	return r.Outcome != Ongoing
}

// allMarked returns the mark that fills every cell of the line, or Empty.
func allMarked(b *board.Board, l board.Line) board.Mark {
	first := b.At(l.Coords[0])
	if first == board.Empty {
		return board.Empty
	}
	for _, c := range l.Coords[1:] {
		if b.At(c) != first {
			return board.Empty
		}
	}
	return first
}

// Classify checks rows, then columns, then the main diagonal, then the
// anti-diagonal, and reports the first complete line it finds. A board with
// no complete line and no empty cell is drawn.
func Classify(b *board.Board) Result {
	dim := b.Dim()
	for i := 0; i < dim; i++ {
		l := b.RowAt(i)
		if m := allMarked(b, l); m != board.Empty {
			return Result{Outcome: Won, Winner: m, Line: l}
		}
	}
	for i := 0; i < dim; i++ {
		l := b.ColumnAt(i)
		if m := allMarked(b, l); m != board.Empty {
			return Result{Outcome: Won, Winner: m, Line: l}
		}
	}
	for _, l := range []board.Line{b.MainDiagonalLine(), b.AntiDiagonalLine()} {
		if m := allMarked(b, l); m != board.Empty {
			return Result{Outcome: Won, Winner: m, Line: l}
		}
	}
	if b.IsFull() {
		return Result{Outcome: Drawn}
	}
	return Result{Outcome: Ongoing}
}

// Winner is a fast check used inside search. It returns the winning mark,
// Empty with terminal == true for a draw, or terminal == false if the game
// goes on. It follows the same line order as Classify but doesn't build any
// Line values.
func Winner(b *board.Board) (winner board.Mark, terminal bool) {
	cells := b.Cells()
	dim := b.Dim()

	line := func(start, step int) board.Mark {
		m := cells[start]
		if m == board.Empty {
			return board.Empty
		}
		for k := 1; k < dim; k++ {
			if cells[start+k*step] != m {
				return board.Empty
			}
		}
		return m
	}

	for i := 0; i < dim; i++ {
		if m := line(i*dim, 1); m != board.Empty {
			return m, true
		}
	}
	for i := 0; i < dim; i++ {
		if m := line(i, dim); m != board.Empty {
			return m, true
		}
	}
	if m := line(0, dim+1); m != board.Empty {
		return m, true
	}
	if m := line(dim-1, dim-1); m != board.Empty {
		return m, true
	}
	for _, m := range cells {
		if m == board.Empty {
			return board.Empty, false
		}
	}
	return board.Empty, true
}

// WinningPossibilities counts the lines that do not contain m's opponent,
// i.e. the lines m could still complete. It is a relative-ranking heuristic
// and says nothing about how close m is to a win.
func WinningPossibilities(b *board.Board, m board.Mark) int {
	opp := m.Opponent()
	cells := b.Cells()
	dim := b.Dim()

	live := func(start, step int) bool {
		for k := 0; k < dim; k++ {
			if cells[start+k*step] == opp {
				return false
			}
		}
		return true
	}

	ct := 0
	for i := 0; i < dim; i++ {
		if live(i*dim, 1) {
			ct++
		}
		if live(i, dim) {
			ct++
		}
	}
	if live(0, dim+1) {
		ct++
	}
	if live(dim-1, dim-1) {
		ct++
	}
	return ct
}

// Differential is the estimator's score for self: the opponent's winning
// possibilities minus self's. Lower is better for self.
func Differential(b *board.Board, self board.Mark) int {
	return WinningPossibilities(b, self.Opponent()) - WinningPossibilities(b, self)
}
