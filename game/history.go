package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/tictac/board"
)

// Turn is one placed mark. Method is how it was chosen ("human",
// "estimated", "evaluated" and so on).
type Turn struct {
	Ply    int
	Mark   board.Mark
	Move   board.Coord
	Method string
}

func (t Turn) String() string {
	return fmt.Sprintf("%d. %v %v (%s)", t.Ply+1, t.Mark, t.Move, t.Method)
}

// MovesBy returns the turns played by mark m.
func (g *Game) MovesBy(m board.Mark) []Turn {
	return lo.Filter(g.history, func(t Turn, _ int) bool {
		return t.Mark == m
	})
}

// CountByMethod tallies the turns by how they were chosen.
func (g *Game) CountByMethod() map[string]int {
	return lo.CountValuesBy(g.history, func(t Turn) string {
		return t.Method
	})
}

// HistoryString lists the turns one per line.
func (g *Game) HistoryString() string {
	return strings.Join(lo.Map(g.history, func(t Turn, _ int) string {
		return t.String()
	}), "\n")
}
