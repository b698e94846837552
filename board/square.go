package board

import (
	"fmt"
	"strings"
)

// A Mark is what occupies a cell: nothing, an X or an O.
type Mark uint8

const (
	Empty Mark = iota
	// X moves first and is the maximizing side in search.
	X
	// O moves second and is the minimizing side.
	O
)

func (m Mark) String() string {
	switch m {
	case Empty:
		return "."
	case X:
		return "X"
	case O:
		return "O"
	}
	return "?"
}

// Valid is true for Empty, X and O.
func (m Mark) Valid() bool {
	return m <= O
}

// Opponent returns the other player's mark. The opponent of Empty is Empty.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

// ParseMark accepts x/o (any case) and "." or "-" or "_" for an empty cell.
func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	case ".", "-", "_":
		return Empty, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrInvalidMark, s)
}

// ParsePlayer is ParseMark restricted to X and O.
func ParsePlayer(s string) (Mark, error) {
	m, err := ParseMark(s)
	if err != nil {
		return Empty, err
	}
	if m == Empty {
		return Empty, fmt.Errorf("%w: %q is not a player", ErrInvalidMark, s)
	}
	return m, nil
}

// A Coord addresses a single cell.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Index returns the row-major index of c on a dim×dim board.
func (c Coord) Index(dim int) int {
	return c.Row*dim + c.Col
}

// CoordFromIndex is the inverse of Coord.Index.
func CoordFromIndex(dim, idx int) Coord {
	return Coord{Row: idx / dim, Col: idx % dim}
}

// CoordFromCellNumber converts the 1-based cell numbers shown to a human
// (1 in the top left, dim*dim in the bottom right) into a Coord.
func CoordFromCellNumber(dim, n int) (Coord, error) {
	if n < 1 || n > dim*dim {
		return Coord{}, fmt.Errorf("%w: cell %d (must be 1-%d)", ErrInvalidCoord, n, dim*dim)
	}
	return CoordFromIndex(dim, n-1), nil
}

// CellNumber is the 1-based number of c as shown to a human.
func (c Coord) CellNumber(dim int) int {
	return c.Index(dim) + 1
}
