// Package heuristic suggests moves by looking at lines one at a time,
// without any search. It is what the easy bot and the early-game estimator
// lean on.
package heuristic

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/board"
)

// Kind says why a cell was suggested.
type Kind uint8

const (
	// Forced means the opponent has every other cell of some line; the
	// suggested cell must be taken now.
	Forced Kind = iota + 1
	// Fallback means the cell extends a line that only we can still
	// complete and that we already hold at least half of.
	Fallback
)

func (k Kind) String() string {
	switch k {
	case Forced:
		return "forced"
	case Fallback:
		return "fallback"
	}
	return "none"
}

// A Suggestion is a cell the advisor thinks is worth taking.
type Suggestion struct {
	Move board.Coord
	Kind Kind
	Line board.Line
}

// Advisor scans lines in order: row i then column i for every i, then the
// main diagonal, then the anti-diagonal.
type Advisor struct{}

type lineTally struct {
	empties   int
	self      int
	threat    int
	firstOpen board.Coord
}

func tally(b *board.Board, l board.Line, self board.Mark) lineTally {
	var t lineTally
	threat := self.Opponent()
	for _, c := range l.Coords {
		switch b.At(c) {
		case board.Empty:
			if t.empties == 0 {
				t.firstOpen = c
			}
			t.empties++
		case self:
			t.self++
		case threat:
			t.threat++
		}
	}
	return t
}

func (a *Advisor) orderedLines(b *board.Board) []board.Line {
	dim := b.Dim()
	lines := make([]board.Line, 0, board.NumLines(dim))
	for i := 0; i < dim; i++ {
		lines = append(lines, b.RowAt(i), b.ColumnAt(i))
	}
	return append(lines, b.MainDiagonalLine(), b.AntiDiagonalLine())
}

// Suggest returns a cell for self to play, if any line calls for one.
// A forced cell is returned as soon as it is found. Otherwise the last
// fallback cell found wins. ok is false when no line qualifies and the
// caller has to pick some other way.
func (a *Advisor) Suggest(b *board.Board, self board.Mark) (s Suggestion, ok bool) {
	dim := b.Dim()
	half := dim / 2
	for _, l := range a.orderedLines(b) {
		t := tally(b, l, self)
		if t.empties == 0 {
			continue
		}
		if t.threat == dim-1 {
			log.Debug().Str("line", l.Kind.String()).Int("idx", l.Index).
				Str("move", t.firstOpen.String()).Msg("forced-move")
			return Suggestion{Move: t.firstOpen, Kind: Forced, Line: l}, true
		}
		if t.threat == 0 && t.self >= half {
			s = Suggestion{Move: t.firstOpen, Kind: Fallback, Line: l}
			ok = true
		}
	}
	return s, ok
}
