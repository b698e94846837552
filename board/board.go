// Package board holds the N×N tic-tac-toe grid. It knows nothing about who
// is winning; it stores marks and checks the preconditions on mutation.
package board

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultDim is the classic 3×3 game.
	DefaultDim = 3
	// MinDim is the smallest board we allow. A 1×1 board is won on the
	// first move and isn't interesting.
	MinDim = 2
	// MaxDim keeps the cell count inside what the search and the Zobrist
	// tables can handle.
	MaxDim = 16
)

var (
	ErrInvalidCoord     = errors.New("coordinate out of range")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidMark      = errors.New("invalid mark")
	ErrInvalidDimension = errors.New("invalid board dimension")
	ErrTurnOrder        = errors.New("mark counts are not consistent with alternating turns")
	ErrBoardFull        = errors.New("board has no empty cells")
)

// Board is a square grid of marks, stored row-major.
type Board struct {
	dim   int
	cells []Mark
}

// NewBoard creates an empty dim×dim board.
func NewBoard(dim int) (*Board, error) {
	if dim < MinDim || dim > MaxDim {
		return nil, fmt.Errorf("%w: %d (must be between %d and %d)",
			ErrInvalidDimension, dim, MinDim, MaxDim)
	}
	return &Board{dim: dim, cells: make([]Mark, dim*dim)}, nil
}

// MustNewBoard is NewBoard for callers that already validated the dimension.
func MustNewBoard(dim int) *Board {
	b, err := NewBoard(dim)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Board) Dim() int {
	return b.dim
}

// NumCells is Dim squared.
func (b *Board) NumCells() int {
	return len(b.cells)
}

func (b *Board) inRange(row, col int) bool {
	return row >= 0 && row < b.dim && col >= 0 && col < b.dim
}

// CellAt returns the mark at (row, col). Out-of-range coordinates are a
// programmer error and panic.
func (b *Board) CellAt(row, col int) Mark {
	if !b.inRange(row, col) {
		panic(fmt.Errorf("%w: (%d, %d) on a %dx%d board", ErrInvalidCoord,
			row, col, b.dim, b.dim))
	}
	return b.cells[row*b.dim+col]
}

// At is CellAt for a Coord.
func (b *Board) At(c Coord) Mark {
	return b.CellAt(c.Row, c.Col)
}

// SetCell writes m at (row, col). It may be used to clear a cell as well.
func (b *Board) SetCell(row, col int, m Mark) error {
	if !b.inRange(row, col) {
		return fmt.Errorf("%w: (%d, %d) on a %dx%d board", ErrInvalidCoord,
			row, col, b.dim, b.dim)
	}
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMark, m)
	}
	b.cells[row*b.dim+col] = m
	return nil
}

// Play places a player's mark on an empty cell.
func (b *Board) Play(c Coord, m Mark) error {
	if m != X && m != O {
		return fmt.Errorf("%w: cannot play %v", ErrInvalidMark, m)
	}
	if !b.inRange(c.Row, c.Col) {
		return fmt.Errorf("%w: %v on a %dx%d board", ErrInvalidCoord, c, b.dim, b.dim)
	}
	if b.cells[c.Index(b.dim)] != Empty {
		return fmt.Errorf("%w: %v", ErrCellOccupied, c)
	}
	b.cells[c.Index(b.dim)] = m
	return nil
}

// Set writes m without any checks. Search uses it in a set / recurse /
// Clear sequence; the caller guarantees c is on the board.
func (b *Board) Set(c Coord, m Mark) {
	b.cells[c.Row*b.dim+c.Col] = m
}

// Clear undoes a Set.
func (b *Board) Clear(c Coord) {
	b.cells[c.Row*b.dim+c.Col] = Empty
}

// IsFull returns true if there are no empty cells left.
func (b *Board) IsFull() bool {
	for _, m := range b.cells {
		if m == Empty {
			return false
		}
	}
	return true
}

// EmptyCells lists the empty cells in row-major order.
func (b *Board) EmptyCells() []Coord {
	coords := make([]Coord, 0, len(b.cells))
	for idx, m := range b.cells {
		if m == Empty {
			coords = append(coords, CoordFromIndex(b.dim, idx))
		}
	}
	return coords
}

// Count returns how many cells hold m.
func (b *Board) Count(m Mark) int {
	ct := 0
	for _, c := range b.cells {
		if c == m {
			ct++
		}
	}
	return ct
}

// Plies is the number of marks on the board.
func (b *Board) Plies() int {
	return len(b.cells) - b.Count(Empty)
}

// Validate checks that the board could have come from alternating play,
// where X always moves first.
func (b *Board) Validate() error {
	xs, ohs := b.Count(X), b.Count(O)
	if xs != ohs && xs != ohs+1 {
		return fmt.Errorf("%w: %d X, %d O", ErrTurnOrder, xs, ohs)
	}
	return nil
}

// ToMove returns whose turn it is according to the mark counts, assuming X
// went first.
func (b *Board) ToMove() Mark {
	if b.Count(X) > b.Count(O) {
		return O
	}
	return X
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	cells := make([]Mark, len(b.cells))
	copy(cells, b.cells)
	return &Board{dim: b.dim, cells: cells}
}

// Equal compares dimensions and every cell.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.dim != other.dim {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Cells exposes the raw row-major cells. The slice must not be modified.
func (b *Board) Cells() []Mark {
	return b.cells
}

// String renders the board as rows of marks separated by slashes, e.g.
// "X.O/.X./..O". Parse reads this format back.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.dim; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		for c := 0; c < b.dim; c++ {
			sb.WriteString(b.cells[r*b.dim+c].String())
		}
	}
	return sb.String()
}

// Parse reads a board in the format produced by String. Rows may also be
// separated by newlines, and surrounding whitespace is ignored.
func Parse(s string) (*Board, error) {
	s = strings.TrimSpace(s)
	rows := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '\n'
	})
	dim := len(rows)
	b, err := NewBoard(dim)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		row = strings.TrimSpace(row)
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d",
				ErrInvalidDimension, r, len(row), dim)
		}
		for c, ch := range row {
			m, err := ParseMark(string(ch))
			if err != nil {
				return nil, err
			}
			b.cells[r*dim+c] = m
		}
	}
	return b, nil
}

// MustParse is Parse that panics on error. Handy for tests.
func MustParse(s string) *Board {
	b, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return b
}
